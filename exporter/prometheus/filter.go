// Copyright (c) 2025 Alexey Mayshev and contributors. All rights reserved.
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
	"github.com/prometheus/client_golang/prometheus"
)

// FilterProvider provides the state of a bloom filter.
type FilterProvider interface {
	ApproximateElementCount() int
	ExpectedFalsePositiveProbability() float64
	BitSize() uint64
}

// FilterCollector exposes the state of a bloom filter to Prometheus.
//
// Supported metrics:
// - approximate_elements
// - expected_false_positive_probability
// - bits
type FilterCollector struct {
	provider     FilterProvider
	elementsDesc *prometheus.Desc
	fppDesc      *prometheus.Desc
	bitsDesc     *prometheus.Desc
}

var _ prometheus.Collector = (*FilterCollector)(nil)

// NewFilterCollector creates a new collector for the given filter.
// Metric names are prefixed with the given namespace and subsystem.
func NewFilterCollector(namespace, subsystem string, provider FilterProvider) *FilterCollector {
	return &FilterCollector{
		provider: provider,
		elementsDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "approximate_elements"),
			"Approximate number of distinct elements put into the filter.",
			nil, nil,
		),
		fppDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "expected_false_positive_probability"),
			"Probability that the filter reports an element that was never put.",
			nil, nil,
		),
		bitsDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "bits"),
			"Number of bits in the filter.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *FilterCollector) Describe(descs chan<- *prometheus.Desc) {
	descs <- c.elementsDesc
	descs <- c.fppDesc
	descs <- c.bitsDesc
}

// Collect implements prometheus.Collector.
func (c *FilterCollector) Collect(metrics chan<- prometheus.Metric) {
	metrics <- prometheus.MustNewConstMetric(
		c.elementsDesc, prometheus.GaugeValue, float64(c.provider.ApproximateElementCount()),
	)
	metrics <- prometheus.MustNewConstMetric(
		c.fppDesc, prometheus.GaugeValue, c.provider.ExpectedFalsePositiveProbability(),
	)
	metrics <- prometheus.MustNewConstMetric(
		c.bitsDesc, prometheus.GaugeValue, float64(c.provider.BitSize()),
	)
}
