// Package config turns host-encoded settings documents into immutable,
// validated configuration values.
//
// The host runtime cannot hold a webrtc.Configuration; it sends a JSON
// document in the RTCConfiguration dictionary shape and receives an opaque
// handle back. Parse validates the whole document up front — ICE server URL
// syntax (via stun.ParseURI), TURN credential presence, policy enum values,
// contradictory combinations like a relay-only transport policy with no TURN
// servers — and only then produces a Config. Validation failures carry the
// validate phase and register nothing.
//
// Config values are read-only after construction. Accessors copy anything a
// caller could mutate.
package config
