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

package marten

import (
	"errors"
	"time"

	"github.com/marten-cache/marten/internal/xmath"
	"github.com/marten-cache/marten/internal/xruntime"
	"github.com/marten-cache/marten/stats"
)

const (
	defaultInitialCapacity = 16
)

// Options should be passed to New to construct a Cache.
type Options[K comparable, V any] struct {
	// MaximumSize specifies the maximum number of entries the cache may contain.
	//
	// This option cannot be used in conjunction with MaximumWeight.
	MaximumSize int
	// MaximumWeight specifies the maximum weight of entries the cache may contain. Weight is determined using the
	// callback specified with Weigher.
	// Use of this method requires specifying an option Weigher prior to calling New.
	//
	// This option cannot be used in conjunction with MaximumSize.
	//
	// NOTE: weight is only used to determine whether the cache is over capacity; it has no effect
	// on selecting which entry should be evicted next.
	MaximumWeight uint64
	// Weigher specifies the weigher to use in determining the weight of entries. Entry weight is taken into
	// consideration by MaximumWeight when determining which entries to evict, and use
	// of this method requires specifying an option MaximumWeight prior to calling New.
	// Weights are measured and recorded when entries are inserted into or updated in
	// the cache, and are thus effectively static during the lifetime of a cache entry.
	//
	// An entry whose weight exceeds MaximumWeight is never stored.
	Weigher func(key K, value V) uint32
	// ExpireAfterWrite specifies that each entry should be automatically removed from the cache once a fixed
	// duration has elapsed after the entry's creation or the most recent replacement of its value.
	//
	// Zero disables expiration.
	ExpireAfterWrite time.Duration
	// StatsRecorder accumulates statistics during the operation of a Cache.
	//
	// Use stats.NewCounter to make Cache.Stats return cumulative statistics.
	StatsRecorder stats.Recorder
	// InitialCapacity specifies the minimum total size for the internal data structures. Providing a large enough estimate
	// at construction time avoids the need for expensive resizing operations later, but setting this
	// value unnecessarily high wastes memory.
	InitialCapacity int
	// ShardCount specifies the number of independently locked parts of the hash table.
	// The value is rounded up to a power of two.
	//
	// By default, it is derived from the available parallelism.
	ShardCount int
	// OnDeletion specifies a handler that caches should notify each time an entry is deleted for any
	// DeletionCause. The cache will invoke this handler using Executor after the entry's deletion
	// operation has completed.
	OnDeletion func(e DeletionEvent[K, V])
	// Executor specifies the executor to use when running deletion handlers.
	//
	// By default, each handler runs in a new goroutine.
	Executor func(fn func())
	// Clock specifies a nanosecond-precision time source for use in determining when entries should be expired.
	//
	// By default, a monotonic clock anchored to the system time is used.
	Clock Clock
	// Logger specifies the Logger implementation that will be used for logging warning and errors.
	//
	// By default, slog.Default() is used.
	Logger Logger
}

func (o *Options[K, V]) getMaximum() uint64 {
	if o.MaximumSize > 0 {
		return uint64(o.MaximumSize)
	}
	return o.MaximumWeight
}

func (o *Options[K, V]) getInitialCapacity() int {
	if o.InitialCapacity > 0 {
		return o.InitialCapacity
	}
	return defaultInitialCapacity
}

func (o *Options[K, V]) getShardCount() int {
	if o.ShardCount > 0 {
		return o.ShardCount
	}
	return 4 * int(xmath.RoundUpPowerOf2(xruntime.Parallelism()))
}

func (o *Options[K, V]) getWeigher() func(key K, value V) uint32 {
	if o.Weigher == nil {
		return func(key K, value V) uint32 {
			return 1
		}
	}
	return o.Weigher
}

func (o *Options[K, V]) getExecutor() func(fn func()) {
	if o.Executor == nil {
		return func(fn func()) {
			go fn()
		}
	}
	return o.Executor
}

func (o *Options[K, V]) getLogger() Logger {
	if o.Logger == nil {
		return newDefaultLogger()
	}
	return o.Logger
}

func (o *Options[K, V]) validate() error {
	if o.MaximumSize > 0 && o.MaximumWeight > 0 {
		return errors.New("marten: both maximumSize and maximumWeight are set")
	}
	if o.MaximumSize > 0 && o.Weigher != nil {
		return errors.New("marten: both maximumSize and weigher are set")
	}
	if o.MaximumWeight > 0 && o.Weigher == nil {
		return errors.New("marten: maximumWeight requires weigher")
	}
	if o.Weigher != nil && o.MaximumWeight == 0 {
		return errors.New("marten: weigher requires maximumWeight")
	}
	if o.MaximumSize < 0 {
		return errors.New("marten: maximumSize should be positive")
	}
	if o.getMaximum() == 0 {
		return errors.New("marten: either maximumSize or maximumWeight should be set")
	}
	if o.ExpireAfterWrite < 0 {
		return errors.New("marten: expireAfterWrite should be positive")
	}
	if o.InitialCapacity < 0 {
		return errors.New("marten: initial capacity should be positive")
	}
	if o.ShardCount < 0 {
		return errors.New("marten: shard count should be positive")
	}
	return nil
}
