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

package shard

import (
	"sync"

	"github.com/dolthub/swiss"

	"github.com/marten-cache/marten/internal/node"
)

const minShardCapacity = 8

// Shard is a part of the cache hash table guarded by its own lock.
//
// Readers only take the read lock. Writers replace whole nodes, so a reader
// always observes either the previous node or the new one.
type Shard[K comparable, V any] struct {
	mutex sync.RWMutex
	m     *swiss.Map[K, *node.Node[K, V]]
}

func newShard[K comparable, V any](initialCapacity int) *Shard[K, V] {
	//nolint:gosec // there will never be an overflow
	return &Shard[K, V]{
		m: swiss.NewMap[K, *node.Node[K, V]](uint32(max(initialCapacity, minShardCapacity))),
	}
}

// Get returns the node associated with the key or nil.
func (s *Shard[K, V]) Get(key K) *node.Node[K, V] {
	s.mutex.RLock()
	n, _ := s.m.Get(key)
	s.mutex.RUnlock()
	return n
}

// Set associates n with its key and returns the previously associated node or nil.
func (s *Shard[K, V]) Set(n *node.Node[K, V]) *node.Node[K, V] {
	s.mutex.Lock()
	old, _ := s.m.Get(n.Key())
	s.m.Put(n.Key(), n)
	s.mutex.Unlock()
	return old
}

// Delete removes the node associated with the key and returns it or nil.
func (s *Shard[K, V]) Delete(key K) *node.Node[K, V] {
	s.mutex.Lock()
	old, ok := s.m.Get(key)
	if ok {
		s.m.Delete(key)
	}
	s.mutex.Unlock()
	return old
}

// DeleteNode removes the mapping of n's key only if it is still associated with n.
func (s *Shard[K, V]) DeleteNode(n *node.Node[K, V]) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	current, ok := s.m.Get(n.Key())
	if !ok || current != n {
		return false
	}
	s.m.Delete(n.Key())
	return true
}

// Nodes appends all nodes of the shard to dst.
func (s *Shard[K, V]) Nodes(dst []*node.Node[K, V]) []*node.Node[K, V] {
	s.mutex.RLock()
	s.m.Iter(func(_ K, n *node.Node[K, V]) bool {
		dst = append(dst, n)
		return false
	})
	s.mutex.RUnlock()
	return dst
}

// Len returns the number of nodes in the shard.
func (s *Shard[K, V]) Len() int {
	s.mutex.RLock()
	l := s.m.Count()
	s.mutex.RUnlock()
	return l
}

// Clear removes all nodes from the shard.
func (s *Shard[K, V]) Clear() {
	s.mutex.Lock()
	s.m.Clear()
	s.mutex.Unlock()
}
