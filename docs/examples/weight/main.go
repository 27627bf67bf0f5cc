package main

import "github.com/marten-cache/marten"

func main() {
	// Must wraps New and panics if the options are invalid.
	cache := marten.Must(&marten.Options[int, int]{
		MaximumWeight: 5,
		// The key itself is the weight, the cache keeps sum(weights) <= MaximumWeight.
		Weigher: func(key int, value int) uint32 {
			return uint32(key)
		},
	})

	cache.Set(3, 3) // weight 3
	cache.Set(1, 1) // weight 4 in total
	cache.GetIfPresent(3)
	cache.Set(2, 2) // 6 > 5, so the least recently used entry (1) is evicted

	if _, ok := cache.GetIfPresent(3); !ok {
		panic("3 should be found")
	}
	if _, ok := cache.GetIfPresent(1); ok {
		panic("1 should be evicted")
	}
	if cache.WeightedSize() != 5 {
		panic("incorrect weighted size")
	}

	// An entry heavier than the whole cache is rejected.
	cache.Set(6, 6)
	if _, ok := cache.GetIfPresent(6); ok {
		panic("6 should be rejected")
	}
}
