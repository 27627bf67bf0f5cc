package main

import (
	"github.com/marten-cache/marten"
	"github.com/marten-cache/marten/stats"
)

func main() {
	counter := stats.NewCounter()

	cache := marten.Must(&marten.Options[int, int]{
		MaximumSize:   5,
		StatsRecorder: counter,
	})

	for i := 0; i < 10; i++ {
		cache.Set(i, i)
	}
	// 0..4 were evicted.
	for i := 0; i < 10; i++ {
		cache.GetIfPresent(i)
	}

	snapshot := counter.Snapshot()
	if snapshot.Hits != 5 || snapshot.Misses != 5 {
		panic("incorrect number of hits or misses")
	}
	if snapshot.Evictions != 5 {
		panic("incorrect number of evictions")
	}
	if snapshot.HitRatio() != 0.5 {
		panic("incorrect hit ratio")
	}
	if cache.Stats() != snapshot {
		panic("cache should report the counter snapshot")
	}
}
