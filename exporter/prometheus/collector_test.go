// Copyright (c) 2024 Alexey Mayshev. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package prometheus

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/marten-cache/marten"
	"github.com/marten-cache/marten/bloom"
	"github.com/marten-cache/marten/stats"
)

type fixedStats stats.Stats

func (fs fixedStats) Stats() stats.Stats {
	return stats.Stats(fs)
}

var cacheMetrics = []string{
	"test_cache_hits",
	"test_cache_misses",
	"test_cache_evictions",
	"test_cache_eviction_weight",
	"test_cache_rejections",
	"test_cache_load_successes",
	"test_cache_load_failures",
	"test_cache_load_time_seconds",
}

func TestCollector_Describe(t *testing.T) {
	t.Parallel()

	collector := NewCollector("test", "cache", fixedStats{})
	descsCh := make(chan *prometheus.Desc, 16)
	collector.Describe(descsCh)
	close(descsCh)
	require.Len(t, descsCh, len(cacheMetrics))

	c := marten.Must(&marten.Options[string, int]{MaximumSize: 10})
	descsCh = make(chan *prometheus.Desc, 16)
	NewCollector("test", "cache", c).Describe(descsCh)
	close(descsCh)
	require.Len(t, descsCh, len(cacheMetrics)+2)
}

func TestCollector_Collect(t *testing.T) {
	t.Parallel()

	collector := NewCollector("test", "cache", fixedStats{
		Hits:           3,
		Misses:         1,
		Evictions:      2,
		EvictionWeight: 7,
		Rejections:     1,
		LoadSuccesses:  4,
		LoadFailures:   1,
		TotalLoadTime:  1500 * time.Millisecond,
	})

	require.Equal(t, len(cacheMetrics), testutil.CollectAndCount(collector, cacheMetrics...))

	expected := `
# HELP test_cache_hits Number of cache hits.
# TYPE test_cache_hits counter
test_cache_hits 3
# HELP test_cache_misses Number of cache misses.
# TYPE test_cache_misses counter
test_cache_misses 1
# HELP test_cache_evictions Number of entries evicted due to overflow.
# TYPE test_cache_evictions counter
test_cache_evictions 2
# HELP test_cache_eviction_weight Sum of weights of evicted entries.
# TYPE test_cache_eviction_weight counter
test_cache_eviction_weight 7
# HELP test_cache_load_time_seconds Total time spent loading new values.
# TYPE test_cache_load_time_seconds counter
test_cache_load_time_seconds 1.5
`
	require.NoError(t, testutil.CollectAndCompare(
		collector,
		strings.NewReader(expected),
		"test_cache_hits",
		"test_cache_misses",
		"test_cache_evictions",
		"test_cache_eviction_weight",
		"test_cache_load_time_seconds",
	))
}

func TestCollector_Cache(t *testing.T) {
	t.Parallel()

	c := marten.Must(&marten.Options[string, int]{
		MaximumSize:   2,
		StatsRecorder: stats.NewCounter(),
		Executor: func(fn func()) {
			fn()
		},
	})
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.GetIfPresent("a")
	c.GetIfPresent("b")

	collector := NewCollector("test", "cache", c)
	require.Equal(t, len(cacheMetrics)+2, testutil.CollectAndCount(collector))

	expected := `
# HELP test_cache_hits Number of cache hits.
# TYPE test_cache_hits counter
test_cache_hits 1
# HELP test_cache_misses Number of cache misses.
# TYPE test_cache_misses counter
test_cache_misses 1
# HELP test_cache_evictions Number of entries evicted due to overflow.
# TYPE test_cache_evictions counter
test_cache_evictions 1
# HELP test_cache_entries Approximate number of entries in the cache.
# TYPE test_cache_entries gauge
test_cache_entries 2
`
	require.NoError(t, testutil.CollectAndCompare(
		collector,
		strings.NewReader(expected),
		"test_cache_hits",
		"test_cache_misses",
		"test_cache_evictions",
		"test_cache_entries",
	))
}

func TestFilterCollector(t *testing.T) {
	t.Parallel()

	f := bloom.Must[string](100, 0.01)
	collector := NewFilterCollector("test", "filter", f)

	descsCh := make(chan *prometheus.Desc, 3)
	collector.Describe(descsCh)
	close(descsCh)
	require.Len(t, descsCh, 3)

	f.Put("a")
	expected := `
# HELP test_filter_approximate_elements Approximate number of distinct elements put into the filter.
# TYPE test_filter_approximate_elements gauge
test_filter_approximate_elements 1
# HELP test_filter_bits Number of bits in the filter.
# TYPE test_filter_bits gauge
test_filter_bits 959
`
	require.NoError(t, testutil.CollectAndCompare(
		collector,
		strings.NewReader(expected),
		"test_filter_approximate_elements",
		"test_filter_bits",
	))

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(collector))
	count, err := testutil.GatherAndCount(reg, "test_filter_expected_false_positive_probability")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
