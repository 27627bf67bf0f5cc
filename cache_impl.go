// Copyright (c) 2023 Alexey Mayshev. All rights reserved.
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
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/marten-cache/marten/internal/eviction/lru"
	"github.com/marten-cache/marten/internal/expiry"
	"github.com/marten-cache/marten/internal/lossy"
	"github.com/marten-cache/marten/internal/node"
	"github.com/marten-cache/marten/internal/shard"
	"github.com/marten-cache/marten/internal/xruntime"
	"github.com/marten-cache/marten/stats"
)

const (
	unreachableExpiresAt = int64(xruntime.MaxDuration)

	cleanUpInterval = time.Second
)

var errWeightExceedsMaximum = errors.New("marten: entry weight exceeds the maximum")

func zeroValue[V any]() V {
	var v V
	return v
}

// cache bounds a sharded hash table with a least-recently-used eviction policy.
//
// Every structural modification (set, invalidation, eviction, expiration) happens under evictionMutex,
// so the weighted size never exceeds the maximum. Reads only take a shard read lock and publish
// accesses to a lossy read buffer that is drained under evictionMutex.
//
// Writes are therefore serialized by evictionMutex, while reads scale with the number of shards.
type cache[K comparable, V any] struct {
	evictionMutex    sync.Mutex
	hashmap          *shard.Map[K, V]
	evictionPolicy   *lru.Policy[K, V]
	expirationPolicy *expiry.Fixed[K, V]
	readBuffer       *lossy.Striped[K, V]
	stats            stats.Recorder
	logger           Logger
	clock            Clock
	executor         func(fn func())
	onDeletion       func(e DeletionEvent[K, V])
	weigher          func(key K, value V) uint32
	singleflight     singleflight.Group
	// deletions are collected under evictionMutex and delivered after it is released.
	deletions      []DeletionEvent[K, V]
	doneClose      chan struct{}
	closeOnce      sync.Once
	expiresAfter   int64
	withExpiration bool
	keyIsString    bool
}

// newCache returns a new cache instance based on the settings from Options.
func newCache[K comparable, V any](o *Options[K, V]) *cache[K, V] {
	shardCount := o.getShardCount()

	var recorder stats.Recorder = &stats.NoopRecorder{}
	if o.StatsRecorder != nil {
		recorder = o.StatsRecorder
	}

	c := &cache[K, V]{
		hashmap:      shard.NewMap[K, V](shardCount, o.getInitialCapacity()),
		readBuffer:   lossy.NewStriped[K, V](shardCount),
		stats:        recorder,
		logger:       o.getLogger(),
		clock:        newTimeSource(o.Clock),
		executor:     o.getExecutor(),
		onDeletion:   o.OnDeletion,
		weigher:      o.getWeigher(),
		expiresAfter: int64(o.ExpireAfterWrite),
	}

	var key K
	_, c.keyIsString = any(key).(string)

	c.evictionPolicy = lru.NewPolicy[K, V](o.getMaximum(), c.evictNode)

	c.withExpiration = o.ExpireAfterWrite > 0
	if c.withExpiration {
		c.expirationPolicy = expiry.NewFixed[K, V](o.ExpireAfterWrite, c.expireNode)
		c.doneClose = make(chan struct{})
		go c.periodicCleanUp()
	}

	return c
}

func (c *cache[K, V]) hasExpired(n *node.Node[K, V], nowNanos int64) bool {
	return n.HasExpired(nowNanos, c.expiresAfter)
}

func (c *cache[K, V]) nodeToEntry(n *node.Node[K, V], nowNanos int64) Entry[K, V] {
	expiresAt := unreachableExpiresAt
	if c.withExpiration {
		expiresAt = n.WriteTime() + c.expiresAfter
	}

	return Entry[K, V]{
		Key:            n.Key(),
		Value:          n.Value(),
		Weight:         n.Weight(),
		WrittenAtNano:  n.WriteTime(),
		ExpiresAtNano:  expiresAt,
		SnapshotAtNano: nowNanos,
	}
}

// GetIfPresent returns the value associated with the key in this cache.
func (c *cache[K, V]) GetIfPresent(key K) (V, bool) {
	n := c.getNode(key, c.clock.NowNano())
	if n == nil {
		return zeroValue[V](), false
	}

	return n.Value(), true
}

// getNode returns the node associated with the key in this cache.
func (c *cache[K, V]) getNode(key K, nowNanos int64) *node.Node[K, V] {
	n := c.hashmap.Get(key)
	if n == nil {
		c.stats.RecordMisses(1)
		return nil
	}
	if c.hasExpired(n, nowNanos) {
		c.stats.RecordMisses(1)
		c.evictionMutex.Lock()
		if c.hashmap.DeleteNode(n) {
			c.unlinkNode(n)
			c.addDeletion(n, CauseExpiration)
		}
		c.unlockAndNotify()
		return nil
	}

	c.stats.RecordHits(1)
	c.afterRead(n)

	return n
}

// getNodeQuietly returns the node associated with the key in this cache.
//
// Unlike getNode, this function does not produce any side effects
// such as updating statistics or the eviction policy.
func (c *cache[K, V]) getNodeQuietly(key K, nowNanos int64) *node.Node[K, V] {
	n := c.hashmap.Get(key)
	if n == nil || !n.IsAlive() || c.hasExpired(n, nowNanos) {
		return nil
	}

	return n
}

func (c *cache[K, V]) afterRead(n *node.Node[K, V]) {
	if c.readBuffer.Add(n) == lossy.Full && c.evictionMutex.TryLock() {
		c.drainReadBuffer()
		c.evictionMutex.Unlock()
	}
}

// GetEntry returns the cache entry associated with the key in this cache.
func (c *cache[K, V]) GetEntry(key K) (Entry[K, V], bool) {
	nowNanos := c.clock.NowNano()
	n := c.getNode(key, nowNanos)
	if n == nil {
		return Entry[K, V]{}, false
	}
	return c.nodeToEntry(n, nowNanos), true
}

// GetEntryQuietly returns the cache entry associated with the key in this cache.
//
// Unlike GetEntry, this function does not produce any side effects
// such as updating statistics or the eviction policy.
func (c *cache[K, V]) GetEntryQuietly(key K) (Entry[K, V], bool) {
	nowNanos := c.clock.NowNano()
	n := c.getNodeQuietly(key, nowNanos)
	if n == nil {
		return Entry[K, V]{}, false
	}
	return c.nodeToEntry(n, nowNanos), true
}

// Set associates the value with the key in this cache.
func (c *cache[K, V]) Set(key K, value V) {
	c.set(key, value, false)
}

// SetIfAbsent if the specified key is not already associated with a value associates it with the given value.
//
// If the specified key is not already associated with a value, then it returns new value and true.
//
// If the specified key is already associated with a value, then it returns existing value and false.
func (c *cache[K, V]) SetIfAbsent(key K, value V) (V, bool) {
	return c.set(key, value, true)
}

func (c *cache[K, V]) set(key K, value V, onlyIfAbsent bool) (V, bool) {
	weight := c.weigher(key, value)

	c.evictionMutex.Lock()
	nowNanos := c.clock.NowNano()
	c.drainReadBuffer()
	c.expireNodes(nowNanos)

	if onlyIfAbsent {
		if current := c.hashmap.Get(key); current != nil && !c.hasExpired(current, nowNanos) {
			c.unlockAndNotify()
			c.afterRead(current)
			return current.Value(), false
		}
	}

	if uint64(weight) > c.evictionPolicy.Maximum() {
		// the new value can never fit, so the stale one must not stay visible either.
		if old := c.hashmap.Delete(key); old != nil {
			c.unlinkNode(old)
			c.addDeletion(old, c.causeOf(old, nowNanos, CauseReplacement))
		}
		c.unlockAndNotify()

		c.stats.RecordRejections(1)
		c.logger.Warn(
			context.Background(),
			fmt.Sprintf("marten: rejected entry with weight %d, maximum is %d", weight, c.GetMaximum()),
			errWeightExceedsMaximum,
		)
		return value, false
	}

	n := node.New(key, value, nowNanos, weight)
	if old := c.hashmap.Set(n); old != nil {
		c.unlinkNode(old)
		c.addDeletion(old, c.causeOf(old, nowNanos, CauseReplacement))
	}
	c.evictionPolicy.Add(n)
	if c.withExpiration {
		c.expirationPolicy.Add(n)
	}
	c.evictionPolicy.EvictNodes()
	c.unlockAndNotify()

	return value, true
}

func (c *cache[K, V]) causeOf(n *node.Node[K, V], nowNanos int64, cause DeletionCause) DeletionCause {
	if c.hasExpired(n, nowNanos) {
		return CauseExpiration
	}
	return cause
}

// Get returns the value associated with key in this cache, obtaining that value from loader if necessary.
//
// Concurrent calls for the same key share a single call to loader.
// If loader returns an error, nothing is stored and the error is returned.
func (c *cache[K, V]) Get(ctx context.Context, key K, loader Loader[K, V]) (V, error) {
	if n := c.getNode(key, c.clock.NowNano()); n != nil {
		return n.Value(), nil
	}

	v, err, _ := c.singleflight.Do(flightKey(key, c.keyIsString), func() (any, error) {
		if n := c.getNodeQuietly(key, c.clock.NowNano()); n != nil {
			return n.Value(), nil
		}

		startTime := c.clock.NowNano()
		value, err := loader.Load(ctx, key)
		loadTime := time.Duration(c.clock.NowNano() - startTime)
		if err != nil {
			c.stats.RecordLoadFailure(loadTime)
			return nil, err
		}
		c.stats.RecordLoadSuccess(loadTime)

		c.Set(key, value)
		return value, nil
	})
	if err != nil {
		return zeroValue[V](), err
	}

	//nolint:forcetypeassert // the flight only ever returns V
	return v.(V), nil
}

// flightKey identifies a load of key. Unless K is string, the dynamic type is part of the key,
// so that equal-looking keys of different types never share a load.
func flightKey[K comparable](key K, keyIsString bool) string {
	if keyIsString {
		return any(key).(string)
	}
	return fmt.Sprintf("%T/%#v", key, key)
}

// Invalidate discards any cached value for the key.
//
// Returns previous value if any. The invalidated result reports whether the key was
// present in the cache.
func (c *cache[K, V]) Invalidate(key K) (value V, invalidated bool) {
	c.evictionMutex.Lock()
	nowNanos := c.clock.NowNano()
	old := c.hashmap.Delete(key)
	if old != nil {
		c.unlinkNode(old)
		cause := c.causeOf(old, nowNanos, CauseInvalidation)
		c.addDeletion(old, cause)
		if cause == CauseInvalidation {
			value = old.Value()
			invalidated = true
		}
	}
	c.unlockAndNotify()

	return value, invalidated
}

// InvalidateAll discards all entries in the cache.
func (c *cache[K, V]) InvalidateAll() {
	c.evictionMutex.Lock()
	nowNanos := c.clock.NowNano()
	c.hashmap.Range(func(n *node.Node[K, V]) bool {
		if c.hashmap.DeleteNode(n) {
			c.unlinkNode(n)
			c.addDeletion(n, c.causeOf(n, nowNanos, CauseInvalidation))
		}
		return true
	})
	c.readBuffer.Clear()
	c.evictionPolicy.Clear()
	if c.withExpiration {
		c.expirationPolicy.Clear()
	}
	c.unlockAndNotify()
}

// CleanUp performs any pending maintenance operations needed by the cache.
func (c *cache[K, V]) CleanUp() {
	c.evictionMutex.Lock()
	c.drainReadBuffer()
	c.expireNodes(c.clock.NowNano())
	c.unlockAndNotify()
}

func (c *cache[K, V]) periodicCleanUp() {
	tick := c.clock.Tick(cleanUpInterval)
	for {
		select {
		case <-c.doneClose:
			return
		case <-tick:
			c.CleanUp()
		}
	}
}

// All returns an iterator over all key-value pairs in the cache that have not expired.
// The iteration order is not specified and is not guaranteed to be the same from one call to the next.
//
// Iterator is at least weakly consistent: he is safe for concurrent use,
// but if the cache is modified (including by eviction) after the iterator is
// created, it is undefined which of the changes (if any) will be reflected in that iterator.
func (c *cache[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		nowNanos := c.clock.NowNano()
		c.hashmap.Range(func(n *node.Node[K, V]) bool {
			if !n.IsAlive() || c.hasExpired(n, nowNanos) {
				return true
			}
			return yield(n.Key(), n.Value())
		})
	}
}

// SetMaximum specifies the maximum total size of this cache. This value may be interpreted as the weighted
// or unweighted threshold size based on how this cache was constructed. If the cache currently
// exceeds the new maximum size this operation eagerly evict entries until the cache shrinks to
// the appropriate size.
func (c *cache[K, V]) SetMaximum(maximum uint64) {
	c.evictionMutex.Lock()
	c.drainReadBuffer()
	c.evictionPolicy.SetMaximum(maximum)
	c.unlockAndNotify()
}

// GetMaximum returns the maximum total weighted or unweighted size of this cache, depending on how the
// cache was constructed.
func (c *cache[K, V]) GetMaximum() uint64 {
	c.evictionMutex.Lock()
	maximum := c.evictionPolicy.Maximum()
	c.evictionMutex.Unlock()
	return maximum
}

// EstimatedSize returns the approximate number of entries in this cache. The value returned is an estimate; the
// actual count may differ if there are concurrent insertions or deletions, or if some entries are
// pending deletion due to expiration.
func (c *cache[K, V]) EstimatedSize() int {
	return c.hashmap.Size()
}

// WeightedSize returns the approximate accumulated weight of entries in this cache. If this cache does not
// use a weighted size bound, then it returns the number of entries.
func (c *cache[K, V]) WeightedSize() uint64 {
	c.evictionMutex.Lock()
	size := c.evictionPolicy.WeightedSize()
	c.evictionMutex.Unlock()
	return size
}

// Stats returns a current snapshot of this cache's cumulative statistics.
// All statistics are initialized to zero and are monotonically increasing over the lifetime of the cache.
// Due to the performance penalty of maintaining statistics,
// some implementations may not record the usage history immediately or at all.
//
// NOTE: If your stats.Recorder implementation doesn't also implement stats.Snapshoter,
// this method will always return a zero-value snapshot.
func (c *cache[K, V]) Stats() stats.Stats {
	if s, ok := c.stats.(stats.Snapshoter); ok {
		return s.Snapshot()
	}
	return stats.Stats{}
}

// close stops the background cleanup goroutine.
func (c *cache[K, V]) close() {
	c.closeOnce.Do(func() {
		if c.withExpiration {
			close(c.doneClose)
		}
	})
}

// drainReadBuffer applies buffered reads to the eviction policy. Requires evictionMutex.
func (c *cache[K, V]) drainReadBuffer() {
	c.readBuffer.DrainTo(c.evictionPolicy.Access)
}

// expireNodes removes entries whose lifetime has elapsed. Requires evictionMutex.
func (c *cache[K, V]) expireNodes(nowNanos int64) {
	if c.withExpiration {
		c.expirationPolicy.DeleteExpired(nowNanos)
	}
}

// evictNode is called by the eviction policy for each overflow victim. Requires evictionMutex.
func (c *cache[K, V]) evictNode(n *node.Node[K, V]) {
	c.hashmap.DeleteNode(n)
	n.Die()
	c.stats.RecordEviction(n.Weight())
	c.addDeletion(n, CauseOverflow)
}

// expireNode is called by the expiration policy for each expired node. Requires evictionMutex.
func (c *cache[K, V]) expireNode(n *node.Node[K, V], nowNanos int64) {
	if c.hashmap.DeleteNode(n) {
		c.unlinkNode(n)
		c.addDeletion(n, CauseExpiration)
	}
}

// unlinkNode removes n from the policies and kills it. Requires evictionMutex.
func (c *cache[K, V]) unlinkNode(n *node.Node[K, V]) {
	c.evictionPolicy.Delete(n)
	n.Die()
}

func (c *cache[K, V]) addDeletion(n *node.Node[K, V], cause DeletionCause) {
	if c.onDeletion == nil {
		return
	}
	c.deletions = append(c.deletions, DeletionEvent[K, V]{
		Key:   n.Key(),
		Value: n.Value(),
		Cause: cause,
	})
}

// unlockAndNotify releases evictionMutex and delivers the deletion events collected while it was held.
func (c *cache[K, V]) unlockAndNotify() {
	deletions := c.deletions
	c.deletions = nil
	c.evictionMutex.Unlock()

	for _, e := range deletions {
		c.notifyDeletion(e)
	}
}

func (c *cache[K, V]) notifyDeletion(e DeletionEvent[K, V]) {
	c.executor(func() {
		defer func() {
			if r := recover(); r != nil {
				c.logger.Error(context.Background(), "marten: deletion handler panicked", fmt.Errorf("%v", r))
			}
		}()

		c.onDeletion(e)
	})
}
