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

package stats

import (
	"math"
	"time"

	"github.com/marten-cache/marten/internal/xsync"
)

var (
	_ Recorder   = (*Counter)(nil)
	_ Snapshoter = (*Counter)(nil)
)

// Counter is a goroutine-safe Recorder implementation for use by marten.Cache.
type Counter struct {
	hits           *xsync.Adder
	misses         *xsync.Adder
	evictions      *xsync.Adder
	evictionWeight *xsync.Adder
	rejections     *xsync.Adder
	loadSuccesses  *xsync.Adder
	loadFailures   *xsync.Adder
	totalLoadTime  *xsync.Adder
}

// NewCounter constructs a Counter instance with all counts initialized to zero.
func NewCounter() *Counter {
	return &Counter{
		hits:           xsync.NewAdder(),
		misses:         xsync.NewAdder(),
		evictions:      xsync.NewAdder(),
		evictionWeight: xsync.NewAdder(),
		rejections:     xsync.NewAdder(),
		loadSuccesses:  xsync.NewAdder(),
		loadFailures:   xsync.NewAdder(),
		totalLoadTime:  xsync.NewAdder(),
	}
}

// Snapshot returns a snapshot of this recorder's values. Note that this may be an inconsistent view, as it
// may be interleaved with update operations.
func (c *Counter) Snapshot() Stats {
	totalLoadTime := c.totalLoadTime.Value()
	if totalLoadTime > uint64(math.MaxInt64) {
		totalLoadTime = uint64(math.MaxInt64)
	}
	return Stats{
		Hits:           c.hits.Value(),
		Misses:         c.misses.Value(),
		Evictions:      c.evictions.Value(),
		EvictionWeight: c.evictionWeight.Value(),
		Rejections:     c.rejections.Value(),
		LoadSuccesses:  c.loadSuccesses.Value(),
		LoadFailures:   c.loadFailures.Value(),
		//nolint:gosec // overflow is handled above
		TotalLoadTime: time.Duration(totalLoadTime),
	}
}

// RecordHits records cache hits.
func (c *Counter) RecordHits(count int) {
	//nolint:gosec // there is no overflow
	c.hits.Add(uint64(count))
}

// RecordMisses records cache misses.
func (c *Counter) RecordMisses(count int) {
	//nolint:gosec // there is no overflow
	c.misses.Add(uint64(count))
}

// RecordEviction records the eviction of an entry from the cache.
func (c *Counter) RecordEviction(weight uint32) {
	c.evictions.Add(1)
	c.evictionWeight.Add(uint64(weight))
}

// RecordRejections records rejections of entries.
func (c *Counter) RecordRejections(count int) {
	//nolint:gosec // there is no overflow
	c.rejections.Add(uint64(count))
}

// RecordLoadSuccess records the successful load of a new entry.
func (c *Counter) RecordLoadSuccess(loadTime time.Duration) {
	c.loadSuccesses.Add(1)
	//nolint:gosec // there is no overflow
	c.totalLoadTime.Add(uint64(loadTime))
}

// RecordLoadFailure records the failed load of a new entry.
func (c *Counter) RecordLoadFailure(loadTime time.Duration) {
	c.loadFailures.Add(1)
	//nolint:gosec // there is no overflow
	c.totalLoadTime.Add(uint64(loadTime))
}

// Reset sets all counters to zero.
func (c *Counter) Reset() {
	c.hits.Reset()
	c.misses.Reset()
	c.evictions.Reset()
	c.evictionWeight.Reset()
	c.rejections.Reset()
	c.loadSuccesses.Reset()
	c.loadFailures.Reset()
	c.totalLoadTime.Reset()
}
