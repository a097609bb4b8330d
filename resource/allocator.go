package resource

import (
	"sync/atomic"

	"github.com/wippyai/rtc-registry/errors"
)

// Allocator issues process-unique, strictly increasing handles. A retired
// handle is never reissued, so a stale handle can never alias a newer
// resource by coincidence.
//
// The 64-bit space is treated as practically inexhaustible; wrapping it is
// an invariant violation and panics a structured exhaustion error rather
// than silently reusing values. The boundary layer recovers the panic and
// surfaces it as runtime/exhausted.
type Allocator struct {
	last atomic.Uint64
}

// NewAllocator creates an allocator starting above the reserved zero handle.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Allocate returns the next handle. Safe under unbounded concurrent callers;
// no two callers ever receive the same value.
func (a *Allocator) Allocate() Handle {
	h := a.last.Add(1)
	if h == 0 {
		panic(errors.Exhausted())
	}
	return Handle(h)
}

// Last returns the most recently issued handle, or 0 if none was issued.
// Intended for diagnostics; a concurrent Allocate may outdate the answer
// before it is returned.
func (a *Allocator) Last() Handle {
	return Handle(a.last.Load())
}
