// Package resource provides the handle table at the core of the registry.
//
// Native WebRTC objects are held host-side and exposed to the managed
// runtime only as opaque integer handles. This package implements the
// allocator that issues those handles and the concurrent table that maps
// them back to kind-tagged values.
//
// # Handles
//
// Handles are 64-bit, strictly increasing and process-unique:
//
//	alloc := resource.NewAllocator()
//	table := resource.NewTable()
//
//	h := alloc.Allocate()
//	if err := table.Insert(h, resource.KindRegistry, reg); err != nil {
//	    return err
//	}
//
// A handle, once issued, identifies exactly one resource instance for the
// lifetime of the process. Retirement tombstones the entry instead of
// deleting it, so handle values are never recycled.
//
// # Kind Safety
//
// Every entry carries one of the closed resource kinds (Configuration,
// Registry, MediaEngine, API, PeerConnection). Lookups are kind-scoped:
//
//	v, ok := table.Lookup(h, resource.KindMediaEngine)
//
// reports false for absent handles, retired handles, and handles of any
// other kind — it never returns a value of the wrong kind and never panics
// on garbage input.
//
// # Concurrency
//
// The host runtime issues overlapping calls from independent execution
// contexts with no ordering guarantees. All table operations are safe under
// unbounded concurrency; reads take a short read-locked critical section and
// never block behind construction work.
package resource
