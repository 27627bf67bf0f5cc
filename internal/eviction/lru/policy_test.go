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
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marten-cache/marten/internal/node"
)

func newNode(key int, weight uint32) *node.Node[int, int] {
	return node.New(key, key, 0, weight)
}

func TestPolicy_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	var evicted []int
	p := NewPolicy[int, int](2, func(n *node.Node[int, int]) {
		evicted = append(evicted, n.Key())
	})

	a, b, c := newNode(1, 1), newNode(2, 1), newNode(3, 1)
	p.Add(a)
	p.Add(b)
	p.Access(a)
	p.Add(c)
	p.EvictNodes()

	require.Equal(t, []int{2}, evicted)
	require.Equal(t, uint64(2), p.WeightedSize())
	require.Equal(t, a, p.Victim())
}

func TestPolicy_Weighted(t *testing.T) {
	t.Parallel()

	var evicted []int
	p := NewPolicy[int, int](10, func(n *node.Node[int, int]) {
		evicted = append(evicted, n.Key())
	})

	p.Add(newNode(1, 4))
	p.Add(newNode(2, 4))
	p.Add(newNode(3, 2))
	p.EvictNodes()
	require.Empty(t, evicted)
	require.Equal(t, uint64(10), p.WeightedSize())

	p.Add(newNode(4, 7))
	p.EvictNodes()
	require.Equal(t, []int{1, 2}, evicted)
	require.Equal(t, uint64(9), p.WeightedSize())
	require.Equal(t, 2, p.Len())
}

func TestPolicy_AccessIgnoresDeletedNodes(t *testing.T) {
	t.Parallel()

	p := NewPolicy[int, int](10, func(n *node.Node[int, int]) {})
	a, b := newNode(1, 1), newNode(2, 1)
	p.Add(a)
	p.Add(b)

	p.Delete(a)
	p.Access(a)
	require.Equal(t, 1, p.Len())
	require.Equal(t, b, p.Victim())

	// double delete is a no-op
	p.Delete(a)
	require.Equal(t, uint64(1), p.WeightedSize())

	b.Die()
	p.Access(b)
	require.Equal(t, b, p.Victim())
}

func TestPolicy_SetMaximum(t *testing.T) {
	t.Parallel()

	evictions := 0
	p := NewPolicy[int, int](5, func(n *node.Node[int, int]) {
		evictions++
	})
	for i := 0; i < 5; i++ {
		p.Add(newNode(i, 1))
	}

	p.SetMaximum(2)
	require.Equal(t, 3, evictions)
	require.Equal(t, uint64(2), p.Maximum())
	require.Equal(t, uint64(2), p.WeightedSize())

	p.Clear()
	require.Equal(t, 0, p.Len())
	require.Equal(t, uint64(0), p.WeightedSize())
	require.Nil(t, p.Victim())
}

func TestPolicy_RandomOps(t *testing.T) {
	t.Parallel()

	const maximum = 128
	m := make(map[int]*node.Node[int, int])
	p := NewPolicy[int, int](maximum, func(n *node.Node[int, int]) {
		delete(m, n.Key())
	})

	for i := 0; i < 200_000; i++ {
		key := rand.IntN(512)
		switch rand.IntN(3) {
		case 0:
			if _, ok := m[key]; !ok {
				//nolint:gosec // weight is small
				n := newNode(key, uint32(1+rand.IntN(4)))
				m[key] = n
				p.Add(n)
				p.EvictNodes()
			}
		case 1:
			if n, ok := m[key]; ok {
				p.Access(n)
			}
		case 2:
			if n, ok := m[key]; ok {
				p.Delete(n)
				delete(m, key)
			}
		}

		if p.WeightedSize() > maximum {
			t.Fatalf("too big policy: maximum: %d weighted size: %d", maximum, p.WeightedSize())
		}
		if len(m) != p.Len() {
			t.Fatalf("map and policy diverged: map len: %d policy len: %d", len(m), p.Len())
		}
	}
}
