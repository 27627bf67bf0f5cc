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

package expiry

import (
	"time"

	"github.com/gammazero/deque"

	"github.com/marten-cache/marten/internal/node"
)

// Fixed expires nodes a fixed duration after their write.
//
// Nodes are pushed in write order, so the oldest write is always at the front of the queue.
// A replaced or deleted node stays in the queue until it reaches the front and is then skipped,
// since it is already dead.
type Fixed[K comparable, V any] struct {
	q            *deque.Deque[*node.Node[K, V]]
	expireNode   func(n *node.Node[K, V], nowNanos int64)
	expiresAfter int64
}

func NewFixed[K comparable, V any](expiresAfter time.Duration, expireNode func(n *node.Node[K, V], nowNanos int64)) *Fixed[K, V] {
	return &Fixed[K, V]{
		q:            deque.New[*node.Node[K, V]](),
		expireNode:   expireNode,
		expiresAfter: int64(expiresAfter),
	}
}

// ExpiresAfter returns the lifetime of a node in nanoseconds.
func (f *Fixed[K, V]) ExpiresAfter() int64 {
	return f.expiresAfter
}

func (f *Fixed[K, V]) Add(n *node.Node[K, V]) {
	f.q.PushBack(n)
}

// DeleteExpired pops dead nodes and expires live nodes from the front of the queue
// until it finds a live node that has not expired yet.
func (f *Fixed[K, V]) DeleteExpired(nowNanos int64) {
	for f.q.Len() > 0 {
		n := f.q.Front()
		if n.IsAlive() && !n.HasExpired(nowNanos, f.expiresAfter) {
			return
		}
		f.q.PopFront()
		if n.IsAlive() {
			f.expireNode(n, nowNanos)
		}
	}
}

func (f *Fixed[K, V]) Len() int {
	return f.q.Len()
}

func (f *Fixed[K, V]) Clear() {
	f.q.Clear()
}
