// Package wasmhost exposes the registry boundary to WebAssembly guests.
//
// A guest is the canonical managed host runtime for this layer: it cannot
// hold native pointers, so it drives the registry entirely through the host
// functions installed here and the opaque i64 handles they return.
//
// # Wiring
//
//	r := wazero.NewRuntime(ctx)
//	defer r.Close(ctx)
//
//	n := native.New(native.WithLogger(log))
//	closer, err := wasmhost.New(n, log).Install(ctx, r)
//	if err != nil { ... }
//	defer closer.Close(ctx)
//
//	// guests instantiated on r can now import "rtc:registry/native"
//
// # Guest view
//
//	(import "rtc:registry/native" "new-registry" (func (result i64)))
//	(import "rtc:registry/native" "registry-exists" (func (param i64) (result i32)))
//	(import "rtc:registry/native" "new-media-engine" (func (param i64 i32 i32) (result i64)))
//
// Settings documents are JSON written into guest memory and passed as
// (ptr, len). A zero return from a constructor means failure; the guest
// fetches diagnostics with last-error. Faults never trap the guest: the
// underlying boundary layer converts them to error values first.
package wasmhost
