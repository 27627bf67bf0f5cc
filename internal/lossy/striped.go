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

package lossy

import (
	"github.com/marten-cache/marten/internal/node"
	"github.com/marten-cache/marten/internal/xmath"
	"github.com/marten-cache/marten/internal/xruntime"
)

// Striped is a multiple-producer / single-consumer buffer that rejects new elements if it is full or
// fails spuriously due to contention. Unlike a queue and stack, a buffer does not guarantee an
// ordering of elements in either FIFO or LIFO order.
//
// Producers are spread over a fixed set of rings picked at random.
type Striped[K comparable, V any] struct {
	rings []ring[K, V]
	mask  uint32
}

// NewStriped creates a Striped buffer with stripes rings rounded up to a power of two.
func NewStriped[K comparable, V any](stripes int) *Striped[K, V] {
	//nolint:gosec // there will never be an overflow
	n := xmath.RoundUpPowerOf2(uint32(max(stripes, 1)))
	return &Striped[K, V]{
		rings: make([]ring[K, V], n),
		mask:  n - 1,
	}
}

// Add lazily publishes the node to the consumer.
//
// The node may be lost due to contention or when the chosen ring is full.
func (s *Striped[K, V]) Add(n *node.Node[K, V]) Status {
	return s.rings[xruntime.Fastrand()&s.mask].add(n)
}

// DrainTo drains the buffer, sending each node to the consumer for processing. The caller must ensure
// that a consumer has exclusive read access to the buffer.
func (s *Striped[K, V]) DrainTo(fn func(n *node.Node[K, V])) {
	for i := range s.rings {
		s.rings[i].drainTo(fn)
	}
}

// Clear drops all buffered nodes. The caller must ensure exclusive read access.
func (s *Striped[K, V]) Clear() {
	for i := range s.rings {
		s.rings[i].clear()
	}
}

// Len returns the number of rings.
func (s *Striped[K, V]) Len() int {
	return len(s.rings)
}
