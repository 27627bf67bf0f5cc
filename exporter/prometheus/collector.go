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

// Package prometheus exposes marten cache statistics and bloom filter state as Prometheus metrics.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/marten-cache/marten/stats"
)

// StatsProvider provides cache statistics.
type StatsProvider interface {
	Stats() stats.Stats
}

// SizeProvider is optionally implemented by a StatsProvider to expose the current cache size.
type SizeProvider interface {
	EstimatedSize() int
	WeightedSize() uint64
}

// Collector collects statistics from a cache and exposes them to Prometheus.
type Collector struct {
	provider           StatsProvider
	hitsDesc           *prometheus.Desc
	missesDesc         *prometheus.Desc
	evictionsDesc      *prometheus.Desc
	evictionWeightDesc *prometheus.Desc
	rejectionsDesc     *prometheus.Desc
	loadSuccessesDesc  *prometheus.Desc
	loadFailuresDesc   *prometheus.Desc
	loadTimeDesc       *prometheus.Desc
	entriesDesc        *prometheus.Desc
	weightedSizeDesc   *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a new collector for the given cache statistics provider.
// Metric names are prefixed with the given namespace and subsystem,
// i.e "{namespace}_{subsystem}_{metric}".
// Supported metrics:
// - hits
// - misses
// - evictions
// - eviction_weight
// - rejections
// - load_successes
// - load_failures
// - load_time_seconds
// - entries (only if provider implements SizeProvider)
// - weighted_size (only if provider implements SizeProvider)
func NewCollector(namespace, subsystem string, provider StatsProvider) *Collector {
	newDesc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, name), help, nil, nil)
	}

	return &Collector{
		provider:           provider,
		hitsDesc:           newDesc("hits", "Number of cache hits."),
		missesDesc:         newDesc("misses", "Number of cache misses."),
		evictionsDesc:      newDesc("evictions", "Number of entries evicted due to overflow."),
		evictionWeightDesc: newDesc("eviction_weight", "Sum of weights of evicted entries."),
		rejectionsDesc:     newDesc("rejections", "Number of entries rejected for exceeding the maximum."),
		loadSuccessesDesc:  newDesc("load_successes", "Number of successful loads."),
		loadFailuresDesc:   newDesc("load_failures", "Number of failed loads."),
		loadTimeDesc:       newDesc("load_time_seconds", "Total time spent loading new values."),
		entriesDesc:        newDesc("entries", "Approximate number of entries in the cache."),
		weightedSizeDesc:   newDesc("weighted_size", "Approximate accumulated weight of entries in the cache."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(descs chan<- *prometheus.Desc) {
	descs <- c.hitsDesc
	descs <- c.missesDesc
	descs <- c.evictionsDesc
	descs <- c.evictionWeightDesc
	descs <- c.rejectionsDesc
	descs <- c.loadSuccessesDesc
	descs <- c.loadFailuresDesc
	descs <- c.loadTimeDesc
	if _, ok := c.provider.(SizeProvider); ok {
		descs <- c.entriesDesc
		descs <- c.weightedSizeDesc
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(metrics chan<- prometheus.Metric) {
	s := c.provider.Stats()
	counter := func(desc *prometheus.Desc, value float64) {
		metrics <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, value)
	}

	counter(c.hitsDesc, float64(s.Hits))
	counter(c.missesDesc, float64(s.Misses))
	counter(c.evictionsDesc, float64(s.Evictions))
	counter(c.evictionWeightDesc, float64(s.EvictionWeight))
	counter(c.rejectionsDesc, float64(s.Rejections))
	counter(c.loadSuccessesDesc, float64(s.LoadSuccesses))
	counter(c.loadFailuresDesc, float64(s.LoadFailures))
	counter(c.loadTimeDesc, s.TotalLoadTime.Seconds())

	if sp, ok := c.provider.(SizeProvider); ok {
		metrics <- prometheus.MustNewConstMetric(c.entriesDesc, prometheus.GaugeValue, float64(sp.EstimatedSize()))
		metrics <- prometheus.MustNewConstMetric(c.weightedSizeDesc, prometheus.GaugeValue, float64(sp.WeightedSize()))
	}
}
