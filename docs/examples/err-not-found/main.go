package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marten-cache/marten"
)

func main() {
	cache := marten.Must(&marten.Options[int, int]{
		MaximumSize: 10,
	})

	key := 1
	ctx := context.Background()

	value, err := cache.Get(ctx, key, marten.LoaderFunc[int, int](func(ctx context.Context, key int) (int, error) {
		time.Sleep(200 * time.Millisecond)
		return 256, fmt.Errorf("lalala: %w", marten.ErrNotFound)
	}))

	// Zero value and the wrapped error are returned.
	if value != 0 {
		panic("incorrect value")
	}
	if err == nil || !errors.Is(err, marten.ErrNotFound) {
		panic("incorrect err")
	}

	// Failed loads are not stored.
	if _, ok := cache.GetIfPresent(key); ok {
		panic("1 shouldn't be found")
	}
}
