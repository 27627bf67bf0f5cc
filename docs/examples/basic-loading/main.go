package main

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/marten-cache/marten"
)

func main() {
	cache := marten.Must(&marten.Options[int, int]{
		MaximumSize: 1000,
	})

	var (
		wg    sync.WaitGroup
		calls atomic.Int64
	)

	goroutines := 1000
	ctx := context.Background()
	key := 15
	value := key + 10000

	loader := marten.LoaderFunc[int, int](func(ctx context.Context, key int) (int, error) {
		calls.Add(1)
		time.Sleep(time.Second) // an expensive operation
		return value, nil
	})

	// Cache stampede: all goroutines ask for the same key at once.
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()

			v, err := cache.Get(ctx, key, loader)
			if err != nil {
				panic("err should be nil")
			}
			if v != value {
				panic("incorrect value")
			}
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		panic("The loader should have been called only once")
	}
}
