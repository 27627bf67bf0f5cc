package main

import (
	"fmt"
	"math"

	"github.com/marten-cache/marten/bloom"
)

func main() {
	// 1000 expected insertions with a 1% false positive probability.
	filter := bloom.Must[string](1000, 0.01)

	for i := 0; i < 1000; i++ {
		filter.Put(fmt.Sprintf("user:%d", i))
	}

	// No false negatives.
	for i := 0; i < 1000; i++ {
		if !filter.MightContain(fmt.Sprintf("user:%d", i)) {
			panic("false negative")
		}
	}

	if fpp := filter.ExpectedFalsePositiveProbability(); math.Abs(fpp-0.01) > 0.005 {
		panic(fmt.Sprintf("unexpected false positive probability: %f", fpp))
	}
	if count := filter.ApproximateElementCount(); count < 900 || count > 1100 {
		panic(fmt.Sprintf("unexpected element count: %d", count))
	}

	// Filters of strings with the same parameters can be merged.
	other := bloom.Must[string](1000, 0.01)
	other.Put("admin")
	if err := filter.PutAll(other); err != nil {
		panic(err)
	}
	if !filter.MightContain("admin") {
		panic("admin should be found")
	}
}
