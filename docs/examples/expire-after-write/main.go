package main

import (
	"time"

	"github.com/marten-cache/marten"
)

func main() {
	// Entries expire 1 second after the last write (creation or update).
	cache := marten.Must(&marten.Options[int, int]{
		MaximumSize:      100,
		ExpireAfterWrite: time.Second,
	})
	defer cache.Close()

	cache.Set(1, 1)
	if _, ok := cache.GetIfPresent(1); !ok {
		panic("1 should be found")
	}

	time.Sleep(500 * time.Millisecond)

	// Silent read, doesn't affect statistics or recency.
	if _, ok := cache.GetEntryQuietly(1); !ok {
		panic("1 should be found")
	}

	// The update restarts the timer.
	cache.Set(1, 2)

	time.Sleep(500 * time.Millisecond)
	if _, ok := cache.GetIfPresent(1); !ok {
		panic("1 should be found")
	}

	time.Sleep(500 * time.Millisecond)
	if _, ok := cache.GetIfPresent(1); ok {
		panic("1 shouldn't be found")
	}
}
