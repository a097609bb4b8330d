// Package engine wraps the pion WebRTC engine behind the registry's
// constructor surface.
//
// The engine is an opaque collaborator: this package calls its constructors
// and nothing else. Each constructor validates its settings, performs the
// possibly fallible engine call, and returns either the native object or a
// structured error — never a panic.
//
// # Construction Chain
//
// Objects are built along the dependency chain the registry enforces:
//
//	reg := engine.NewRegistry()
//	me, err := engine.NewMediaEngine(reg, settings)
//	api, err := engine.NewAPI(me, apiSettings)
//	pc, err := engine.NewPeerConnection(api, cfg)
//
// A MediaEngine keeps the interceptor registry it was registered into, so
// API construction needs only the media engine. A Registry may be shared by
// any number of media engines built concurrently; it serializes access to
// the underlying pion registry, which has no locking of its own.
//
// # Logging
//
// Install a logger with SetLogger; it is also adapted into the pion
// logging.LoggerFactory injected through the setting engine, so ICE/DTLS/SCTP
// internals share the registry's sink.
package engine
