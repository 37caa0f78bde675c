package binding_test

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-bibfmt/pkg/binding"
)

func TestProperty_NotifiesOnChangeOnly(t *testing.T) {
	prop := binding.NewProperty("a")

	var events []string
	unsubscribe := prop.Subscribe(func(prev, next string) {
		events = append(events, prev+"->"+next)
	})

	if !prop.Set("b") {
		t.Fatalf("expected change")
	}
	if prop.Set("b") {
		t.Fatalf("expected no change for equal value")
	}
	prop.Set("c")

	unsubscribe()
	unsubscribe()
	prop.Set("d")

	if diff := cmp.Diff([]string{"a->b", "b->c"}, events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	if prop.Get() != "d" {
		t.Fatalf("expected d, got %q", prop.Get())
	}
}

func TestProperty_ListenerOrderAndReentrancy(t *testing.T) {
	prop := binding.NewProperty(0)

	var order []int
	prop.Subscribe(func(_, next int) {
		order = append(order, 1)
		if next == 1 {
			// Listeners run outside the lock, so they may read and write.
			prop.Set(prop.Get() + 1)
		}
	})
	prop.Subscribe(func(_, _ int) { order = append(order, 2) })

	prop.Set(1)

	if prop.Get() != 2 {
		t.Fatalf("expected nested set to apply, got %d", prop.Get())
	}
	if diff := cmp.Diff([]int{1, 1, 2, 2}, order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestProperty_NilListener(t *testing.T) {
	prop := binding.NewProperty(false)
	prop.Subscribe(nil)()
	prop.Set(true)
}

func TestProperty_Concurrent(t *testing.T) {
	prop := binding.NewProperty(0)

	var (
		mu    sync.Mutex
		calls int
	)
	prop.Subscribe(func(_, _ int) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			prop.Set(v)
			_ = prop.Get()
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if calls == 0 || calls > 50 {
		t.Fatalf("unexpected listener call count %d", calls)
	}
}
