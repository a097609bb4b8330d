// Package native is the boundary adapter between the host runtime and the
// registry. It is the only surface the host calls.
//
// # Contract
//
// Every operation decodes host-native arguments (opaque handles plus JSON
// settings documents), dispatches to the table or a constructor, and returns
// an explicit value — a handle, a boolean, or a structured error. Nothing is
// ever thrown across the boundary: each operation runs inside a recover
// wrapper that logs internal faults and converts them into internal-kind
// error values, because an uncaught fault here would take down the whole
// host process.
//
// # Scheduling
//
// The host runtime is preemptively scheduled and multi-worker; this layer
// has no control over call ordering or concurrency degree. Existence checks
// and config reads run inline — they are short read-locked lookups safe for
// latency-sensitive scheduler threads. Engine constructors (media engine,
// API, peer connection) run on a bounded pool: peer connection construction
// in particular generates certificates and transports. Timeouts are the
// caller's context; constructors themselves are never cancelled mid-flight —
// a caller that gives up gets a canceled error while the resource finishes
// constructing and stays live.
//
// # Usage
//
//	n := native.New(native.WithLogger(log))
//	if err := n.Init(); err != nil { ... }
//
//	cfgH, err := n.NewConfig(ctx, rawSettings)
//	regH, err := n.NewRegistry(ctx)
//	meH, err := n.NewMediaEngine(ctx, regH, nil)
//	apiH, err := n.NewAPI(ctx, meH, nil)
//	pcH, err := n.NewPeerConnection(ctx, apiH, pcSettings)
package native
