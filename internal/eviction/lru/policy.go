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

package lru

import (
	"github.com/marten-cache/marten/internal/node"
)

// Policy is a least-recently-used eviction policy bounded by the total weight of its nodes.
//
// Policy is not safe for concurrent use, the cache guards it with the eviction mutex.
type Policy[K comparable, V any] struct {
	q            *node.Queue[K, V]
	evictNode    func(n *node.Node[K, V])
	weightedSize uint64
	maximum      uint64
}

// NewPolicy creates a new Policy. evictNode is called for every node evicted due to overflow,
// after the node is unlinked from the policy.
func NewPolicy[K comparable, V any](maximum uint64, evictNode func(n *node.Node[K, V])) *Policy[K, V] {
	return &Policy[K, V]{
		q:         node.NewQueue[K, V](),
		evictNode: evictNode,
		maximum:   maximum,
	}
}

// Add links a newly written node as the most recently used one.
func (p *Policy[K, V]) Add(n *node.Node[K, V]) {
	p.q.Push(n)
	p.weightedSize += uint64(n.Weight())
}

// Access marks n as the most recently used node.
//
// Nodes that were already deleted from the policy are ignored, since reads are recorded asynchronously.
func (p *Policy[K, V]) Access(n *node.Node[K, V]) {
	if !n.IsAlive() || !p.q.Contains(n) {
		return
	}
	p.q.MoveToBack(n)
}

// Delete unlinks n from the policy.
func (p *Policy[K, V]) Delete(n *node.Node[K, V]) {
	if !p.q.Contains(n) {
		return
	}
	p.q.Remove(n)
	p.weightedSize -= uint64(n.Weight())
}

// Victim returns the least recently used node or nil if the policy is empty.
func (p *Policy[K, V]) Victim() *node.Node[K, V] {
	return p.q.Head()
}

// EvictNodes evicts least recently used nodes until the weighted size fits into the maximum.
func (p *Policy[K, V]) EvictNodes() {
	for p.weightedSize > p.maximum {
		victim := p.Victim()
		if victim == nil {
			return
		}
		p.Delete(victim)
		p.evictNode(victim)
	}
}

// WeightedSize returns the total weight of the nodes in the policy.
func (p *Policy[K, V]) WeightedSize() uint64 {
	return p.weightedSize
}

// Maximum returns the maximum total weight.
func (p *Policy[K, V]) Maximum() uint64 {
	return p.maximum
}

// SetMaximum changes the maximum total weight and evicts nodes if the policy exceeds it.
func (p *Policy[K, V]) SetMaximum(maximum uint64) {
	p.maximum = maximum
	p.EvictNodes()
}

// Len returns the number of nodes in the policy.
func (p *Policy[K, V]) Len() int {
	return p.q.Len()
}

// Clear clears the eviction policy and returns it to the default state.
func (p *Policy[K, V]) Clear() {
	p.q.Clear()
	p.weightedSize = 0
}
