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

package shard

import (
	"github.com/marten-cache/marten/internal/hasher"
	"github.com/marten-cache/marten/internal/node"
	"github.com/marten-cache/marten/internal/xmath"
)

// Map is a hash table split into a power-of-two number of shards.
type Map[K comparable, V any] struct {
	shards []*Shard[K, V]
	hasher hasher.Hasher[K]
	mask   uint64
}

// NewMap creates a Map with shardCount shards rounded up to a power of two,
// initialCapacity is spread evenly among the shards.
func NewMap[K comparable, V any](shardCount, initialCapacity int) *Map[K, V] {
	//nolint:gosec // there will never be an overflow
	n := int(xmath.RoundUpPowerOf2(uint32(max(shardCount, 1))))
	shardCapacity := (initialCapacity + n - 1) / n

	shards := make([]*Shard[K, V], 0, n)
	for i := 0; i < n; i++ {
		shards = append(shards, newShard[K, V](shardCapacity))
	}

	return &Map[K, V]{
		shards: shards,
		hasher: hasher.New[K](),
		mask:   uint64(n - 1),
	}
}

func (m *Map[K, V]) shard(key K) *Shard[K, V] {
	return m.shards[m.hasher.Hash(key)&m.mask]
}

// Get returns the node associated with the key or nil.
func (m *Map[K, V]) Get(key K) *node.Node[K, V] {
	return m.shard(key).Get(key)
}

// Set associates n with its key and returns the previously associated node or nil.
func (m *Map[K, V]) Set(n *node.Node[K, V]) *node.Node[K, V] {
	return m.shard(n.Key()).Set(n)
}

// Delete removes the node associated with the key and returns it or nil.
func (m *Map[K, V]) Delete(key K) *node.Node[K, V] {
	return m.shard(key).Delete(key)
}

// DeleteNode removes the mapping of n's key only if it is still associated with n.
func (m *Map[K, V]) DeleteNode(n *node.Node[K, V]) bool {
	return m.shard(n.Key()).DeleteNode(n)
}

// Range calls f for every node until f returns false.
//
// Nodes are collected shard by shard and f is called without holding any lock,
// so f may modify the map.
func (m *Map[K, V]) Range(f func(n *node.Node[K, V]) bool) {
	var nodes []*node.Node[K, V]
	for _, s := range m.shards {
		nodes = s.Nodes(nodes[:0])
		for _, n := range nodes {
			if !f(n) {
				return
			}
		}
	}
}

// Size returns the number of nodes in the map.
func (m *Map[K, V]) Size() int {
	size := 0
	for _, s := range m.shards {
		size += s.Len()
	}
	return size
}

// ShardCount returns the number of shards.
func (m *Map[K, V]) ShardCount() int {
	return len(m.shards)
}

// Clear removes all nodes from the map.
func (m *Map[K, V]) Clear() {
	for _, s := range m.shards {
		s.Clear()
	}
}
