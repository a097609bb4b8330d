package resource

import (
	"sync"
	"testing"

	"github.com/wippyai/rtc-registry/errors"
)

func TestAllocator_Sequential(t *testing.T) {
	alloc := NewAllocator()

	if alloc.Last() != 0 {
		t.Fatal("fresh allocator should report Last() == 0")
	}

	prev := Handle(0)
	for i := 0; i < 1000; i++ {
		h := alloc.Allocate()
		if h == 0 {
			t.Fatal("allocator issued reserved zero handle")
		}
		if h <= prev {
			t.Fatalf("handles not strictly increasing: %d after %d", h, prev)
		}
		prev = h
	}

	if alloc.Last() != prev {
		t.Fatalf("Last() = %d, want %d", alloc.Last(), prev)
	}
}

func TestAllocator_Exhaustion(t *testing.T) {
	alloc := NewAllocator()
	alloc.last.Store(^uint64(0))

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("wrapping the handle space must panic, not reuse handles")
		}
		e, ok := r.(*errors.Error)
		if !ok {
			t.Fatalf("panic value is %T, want *errors.Error", r)
		}
		if e.Kind != errors.KindExhausted {
			t.Fatalf("panic kind = %s, want %s", e.Kind, errors.KindExhausted)
		}
	}()
	alloc.Allocate()
}

func TestAllocator_Concurrent(t *testing.T) {
	alloc := NewAllocator()

	const workers = 64
	const perWorker = 256

	results := make([][]Handle, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			out := make([]Handle, perWorker)
			for i := range out {
				out[i] = alloc.Allocate()
			}
			results[w] = out
		}(w)
	}
	wg.Wait()

	seen := make(map[Handle]bool, workers*perWorker)
	for _, out := range results {
		for _, h := range out {
			if h == 0 {
				t.Fatal("allocator issued zero handle under concurrency")
			}
			if seen[h] {
				t.Fatalf("handle %d issued twice", h)
			}
			seen[h] = true
		}
	}
	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d distinct handles, got %d", workers*perWorker, len(seen))
	}
}
