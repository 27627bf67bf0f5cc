package marten

import (
	"math/rand/v2"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/marten-cache/marten/bloom"
)

const benchDataLength = 2 << 14

type benchCase struct {
	name          string
	setPercentage uint64
}

var benchCases = []benchCase{
	{"reads=100%,writes=0%", 0},
	{"reads=75%,writes=25%", 25},
	{"reads=0%,writes=100%", 100},
}

func newBenchKeys() []string {
	// populate using realistic distribution
	z := rand.NewZipf(rand.New(rand.NewPCG(1, 2)), 1.0001, 1, benchDataLength/3)

	keys := make([]string, 0, benchDataLength)
	for i := 0; i < benchDataLength; i++ {
		keys = append(keys, "0i02-3rj203rn230rjx0m238ex10eu1-x n-9u"+strconv.FormatUint(z.Uint64(), 10))
	}
	return keys
}

func runParallelBenchmark(b *testing.B, benchFunc func(pb *testing.PB)) {
	b.Helper()

	b.ResetTimer()
	start := time.Now()
	b.RunParallel(benchFunc)
	opsPerSec := float64(b.N) / time.Since(start).Seconds()
	b.ReportMetric(opsPerSec, "ops/s")
}

func BenchmarkCache(b *testing.B) {
	keys := newBenchKeys()
	mask := benchDataLength - 1

	for _, bc := range benchCases {
		b.Run(bc.name, func(b *testing.B) {
			c := Must(&Options[string, string]{
				MaximumSize: benchDataLength,
			})
			for i := 0; i < benchDataLength; i++ {
				c.Set(keys[i], keys[i])
			}

			rc := uint64(0)
			runParallelBenchmark(b, func(pb *testing.PB) {
				index := int(rand.Uint32() & uint32(mask))
				mc := atomic.AddUint64(&rc, 1)
				if bc.setPercentage*mc/100 != bc.setPercentage*(mc-1)/100 {
					for pb.Next() {
						c.Set(keys[index&mask], keys[index&mask])
						index++
					}
				} else {
					for pb.Next() {
						c.GetIfPresent(keys[index&mask])
						index++
					}
				}
			})
		})
	}
}

func BenchmarkFilter(b *testing.B) {
	keys := newBenchKeys()
	mask := benchDataLength - 1
	f := bloom.Must[string](benchDataLength, 0.01)

	b.Run("put", func(b *testing.B) {
		runParallelBenchmark(b, func(pb *testing.PB) {
			index := int(rand.Uint32() & uint32(mask))
			for pb.Next() {
				f.Put(keys[index&mask])
				index++
			}
		})
	})
	b.Run("mightContain", func(b *testing.B) {
		runParallelBenchmark(b, func(pb *testing.PB) {
			index := int(rand.Uint32() & uint32(mask))
			for pb.Next() {
				f.MightContain(keys[index&mask])
				index++
			}
		})
	})
}
