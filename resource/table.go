package resource

import (
	"sync"

	"github.com/wippyai/rtc-registry/errors"
)

// Table is the single source of truth for "does handle H refer to a live
// resource of kind K". It maps handles to kind-tagged native resources.
//
// Entries are immutable once inserted: the table never swaps an entry's
// value in place, replacement requires a new handle. Retirement tombstones
// the entry rather than deleting it, so a retired handle stays distinct from
// a never-issued one and can never be confused with a future resource.
type Table struct {
	entries   map[Handle]*entry
	mu        sync.RWMutex
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
}

type entry struct {
	value   any
	kind    Kind
	retired bool
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		entries: make(map[Handle]*entry, 64),
	}
}

// Insert registers a freshly constructed resource under handle h.
// A duplicate handle is an invariant violation (the allocator guarantees
// uniqueness) and is reported, never silently overwritten.
func (t *Table) Insert(h Handle, kind Kind, value any) error {
	if h == 0 {
		return errors.New(errors.PhaseRuntime, errors.KindInvalidInput).
			Resource(kind.String()).
			Detail("zero handle").
			Build()
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return errors.Closed("insert on closed table")
	}
	if _, ok := t.entries[h]; ok {
		t.mu.Unlock()
		return errors.DuplicateHandle(kind.String(), uint64(h))
	}
	t.entries[h] = &entry{kind: kind, value: value}
	t.mu.Unlock()

	t.notify(Event{
		Type:   EventCreated,
		Handle: h,
		Kind:   kind,
		Value:  value,
	})

	return nil
}

// Exists reports whether h refers to a live resource of the given kind.
// Absent, retired, wrong-kind and zero handles all report false.
func (t *Table) Exists(h Handle, kind Kind) bool {
	if h == 0 {
		return false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.entries[h]
	return ok && !e.retired && e.kind == kind
}

// Lookup returns the resource registered under h if it is live and of the
// given kind.
func (t *Table) Lookup(h Handle, kind Kind) (any, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.entries[h]
	if !ok || e.retired || e.kind != kind {
		return nil, false
	}
	return e.value, true
}

// Kind returns the kind registered under h, live or retired. Used to
// distinguish a mistyped handle from a never-issued one in error reports.
func (t *Table) Kind(h Handle) (Kind, bool) {
	if h == 0 {
		return 0, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.entries[h]
	if !ok {
		return 0, false
	}
	return e.kind, true
}

// Retire tombstones the resource under h and returns its value. The entry
// remains in the table so the handle is never seen as unissued; the value's
// Closer is invoked if implemented. Returns false if h is absent or already
// retired.
func (t *Table) Retire(h Handle) (any, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.Lock()
	e, ok := t.entries[h]
	if !ok || e.retired {
		t.mu.Unlock()
		return nil, false
	}
	value := e.value
	kind := e.kind
	e.retired = true
	e.value = nil
	t.mu.Unlock()

	if c, ok := value.(Closer); ok {
		// Engine-side close failures are the engine's to report; the
		// handle is retired regardless.
		_ = c.Close()
	}

	t.notify(Event{
		Type:   EventRetired,
		Handle: h,
		Kind:   kind,
		Value:  value,
	})

	return value, true
}

// Len returns the number of live (non-retired) resources.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := 0
	for _, e := range t.entries {
		if !e.retired {
			count++
		}
	}
	return count
}

// Each iterates over all live resources. The snapshot is taken under the
// read lock; fn runs without it and may call back into the table.
func (t *Table) Each(fn func(Handle, Kind, any) bool) {
	type snapshot struct {
		value  any
		handle Handle
		kind   Kind
	}

	t.mu.RLock()
	live := make([]snapshot, 0, len(t.entries))
	for h, e := range t.entries {
		if !e.retired {
			live = append(live, snapshot{value: e.value, handle: h, kind: e.kind})
		}
	}
	t.mu.RUnlock()

	for _, s := range live {
		if !fn(s.handle, s.kind, s.value) {
			return
		}
	}
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Close retires every live resource and rejects further inserts.
// Existence checks keep working and report false for everything.
func (t *Table) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	var handles []Handle
	for h, e := range t.entries {
		if !e.retired {
			handles = append(handles, h)
		}
	}
	t.mu.Unlock()

	for _, h := range handles {
		t.Retire(h)
	}
	return nil
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
