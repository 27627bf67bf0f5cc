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

package lossy

import (
	"sync/atomic"
	"unsafe"

	"github.com/marten-cache/marten/internal/node"
	"github.com/marten-cache/marten/internal/xruntime"
)

const (
	// The maximum number of elements per buffer.
	bufferSize = 16
	mask       = uint64(bufferSize - 1)
)

// Status is the result of adding an element to a buffer.
type Status int8

const (
	// Success means that the element was added to the buffer.
	Success Status = iota
	// Failed means that the element was dropped due to contention.
	Failed
	// Full means that the element was dropped because the buffer is full.
	Full
)

// ring is a circular ring buffer stores the elements being transferred by the producers to the consumer.
// The monotonically increasing count of reads and writes allow indexing sequentially to the next
// element location based upon a power-of-two sizing.
//
// The producers race to read the counts, check if there is available capacity, and if so then try
// once to CAS to the next write count. If the increment is successful then the producer lazily
// publishes the element. The producer does not retry or block when unsuccessful due to a failed
// CAS or the buffer being full.
//
// The consumer reads the counts and takes the available elements. The clearing of the elements
// and the next read count are lazily set.
type ring[K comparable, V any] struct {
	head        atomic.Uint64
	headPadding [xruntime.CacheLineSize - unsafe.Sizeof(atomic.Uint64{})]byte
	tail        atomic.Uint64
	tailPadding [xruntime.CacheLineSize - unsafe.Sizeof(atomic.Uint64{})]byte
	buffer      [bufferSize]atomic.Pointer[node.Node[K, V]]
}

func (r *ring[K, V]) add(n *node.Node[K, V]) Status {
	head := r.head.Load()
	tail := r.tail.Load()
	size := tail - head
	if size >= bufferSize {
		return Full
	}
	if r.tail.CompareAndSwap(tail, tail+1) {
		r.buffer[tail&mask].Store(n)
		return Success
	}
	return Failed
}

// drainTo passes published elements to fn. Only one consumer may drain at a time.
func (r *ring[K, V]) drainTo(fn func(n *node.Node[K, V])) {
	head := r.head.Load()
	tail := r.tail.Load()
	for head != tail {
		idx := head & mask
		n := r.buffer[idx].Load()
		if n == nil {
			// not published yet
			break
		}
		r.buffer[idx].Store(nil)
		fn(n)
		head++
	}
	r.head.Store(head)
}

func (r *ring[K, V]) clear() {
	r.drainTo(func(n *node.Node[K, V]) {})
}
