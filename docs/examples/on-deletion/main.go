package main

import (
	"log/slog"
	"sync"

	"github.com/marten-cache/marten"
)

func main() {
	var (
		mu     sync.Mutex
		causes = make(map[marten.DeletionCause]int)
	)

	cache := marten.Must(&marten.Options[string, string]{
		MaximumSize: 2,
		OnDeletion: func(e marten.DeletionEvent[string, string]) {
			slog.Info("deleted", slog.String("key", e.Key), slog.String("cause", e.Cause.String()))
			mu.Lock()
			causes[e.Cause]++
			mu.Unlock()
		},
		// Run handlers synchronously instead of in a new goroutine.
		Executor: func(fn func()) {
			fn()
		},
	})

	cache.Set("a", "1")
	cache.Set("a", "2") // replacement
	cache.Set("b", "3")
	cache.Set("c", "4") // a is evicted
	cache.Invalidate("b")

	mu.Lock()
	defer mu.Unlock()
	if causes[marten.CauseReplacement] != 1 || causes[marten.CauseOverflow] != 1 || causes[marten.CauseInvalidation] != 1 {
		panic("unexpected deletion causes")
	}
}
