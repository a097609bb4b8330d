// Package errors provides structured error types for the registry.
//
// Every error carries a Phase (where it occurred) and a Kind (what went
// wrong). Together they form the stable categorization the host runtime
// relies on; message text may change, Phase/Kind values do not.
//
// # Error Categories
//
// The taxonomy maps directly onto the boundary contract:
//
//	validation error     PhaseValidate + KindInvalidInput / KindInvalidICEURL
//	dependency-not-found PhaseLookup + KindNotFound / KindKindMismatch
//	engine error         PhaseConstruct + KindEngine
//	internal/fatal       PhaseRuntime + KindDuplicateHandle / KindExhausted / KindInternal
//
// # Usage
//
// Use the convenience constructors for common cases:
//
//	return errors.NotFound("media_engine", uint64(handle))
//
// or the builder for anything richer:
//
//	return errors.New(errors.PhaseConstruct, errors.KindEngine).
//	    Resource("peer_connection").
//	    Cause(err).
//	    Detail("new peer connection").
//	    Build()
//
// Matching is by Phase and Kind:
//
//	if stderrors.Is(err, &errors.Error{Phase: errors.PhaseLookup, Kind: errors.KindNotFound}) {
//	    // stale handle
//	}
package errors
