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

package node

import (
	"sync/atomic"
)

const (
	alive uint32 = iota
	dead
)

// Node is an entry in the cache containing the key, value, weight, write time and links of the eviction policy.
//
// Key, value, weight and write time never change after creation, so readers may access them without locks.
// A set replaces the node instead of updating it in place.
type Node[K comparable, V any] struct {
	key       K
	value     V
	prev      *Node[K, V]
	next      *Node[K, V]
	writeTime int64
	weight    uint32
	state     atomic.Uint32
}

// New creates a new Node.
func New[K comparable, V any](key K, value V, writeTime int64, weight uint32) *Node[K, V] {
	return &Node[K, V]{
		key:       key,
		value:     value,
		writeTime: writeTime,
		weight:    weight,
	}
}

// Key returns the key.
func (n *Node[K, V]) Key() K {
	return n.key
}

// Value returns the value.
func (n *Node[K, V]) Value() V {
	return n.value
}

// WriteTime returns the time of the write that created the node in nanoseconds.
func (n *Node[K, V]) WriteTime() int64 {
	return n.writeTime
}

// Weight returns the weight of the node.
func (n *Node[K, V]) Weight() uint32 {
	return n.weight
}

// HasExpired returns true if the node was written at least expiresAfter nanoseconds before now.
//
// Zero expiresAfter disables expiration.
func (n *Node[K, V]) HasExpired(now, expiresAfter int64) bool {
	return expiresAfter > 0 && now-n.writeTime >= expiresAfter
}

// IsAlive returns true if the entry is available in the hash-table and page replacement policy.
func (n *Node[K, V]) IsAlive() bool {
	return n.state.Load() == alive
}

// Die sets the node to the dead state.
//
// Returns false if the node was already dead.
func (n *Node[K, V]) Die() bool {
	return n.state.CompareAndSwap(alive, dead)
}

// InQueue returns true if the node is linked into a queue.
func (n *Node[K, V]) InQueue() bool {
	return n.prev != nil || n.next != nil
}
