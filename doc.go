// Package rtcregistry provides a handle-based registry for native WebRTC
// engine objects, built for host runtimes that cannot hold native pointers.
//
// A managed host runtime (a WebAssembly guest, a foreign VM) creates,
// references, and queries configurations, interceptor registries, media
// engines, API instances, and peer connections entirely through opaque
// 64-bit handles. The registry guarantees memory- and thread-safety with no
// assumptions about caller discipline: calls may arrive concurrently, out of
// order, or with stale handles, and the worst outcome is an error value.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	rtc-registry/
//	├── resource/   Handle allocation and the concurrent kind-tagged table
//	├── config/     Validated, immutable configuration values
//	├── engine/     Constructors against the pion WebRTC engine
//	├── native/     Boundary adapter: fault containment, dispatch pool
//	├── wasmhost/   wazero host module exposing the boundary to guests
//	└── errors/     Structured error types with a stable taxonomy
//
// # Quick Start
//
//	n := native.New(native.WithLogger(log))
//	if err := n.Init(); err != nil {
//	    log.Fatal("init", zap.Error(err))
//	}
//	defer n.Close()
//
//	regH, err := n.NewRegistry(ctx)
//	meH, err := n.NewMediaEngine(ctx, regH, nil)
//	apiH, err := n.NewAPI(ctx, meH, nil)
//	pcH, err := n.NewPeerConnection(ctx, apiH, nil)
//
// Every constructor enforces the dependency chain Configuration → Registry →
// MediaEngine → API → PeerConnection; building atop an absent, mistyped, or
// retired handle fails with a dependency-not-found error and registers
// nothing.
package rtcregistry
