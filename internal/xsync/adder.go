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

package xsync

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/marten-cache/marten/internal/xmath"
	"github.com/marten-cache/marten/internal/xruntime"
)

var tokenPool sync.Pool

type token struct {
	idx     uint32
	padding [xruntime.CacheLineSize - 4]byte
}

type cell struct {
	v       atomic.Uint64
	padding [xruntime.CacheLineSize - unsafe.Sizeof(atomic.Uint64{})]byte
}

// Adder is a striped uint64 counter.
//
// Much faster than a single atomic in write heavy scenarios (for example stats).
type Adder struct {
	cells []cell
	mask  uint32
}

// NewAdder creates a new Adder with one cell per available CPU rounded up to a power of two.
func NewAdder() *Adder {
	n := xmath.RoundUpPowerOf2(xruntime.Parallelism())
	return &Adder{
		cells: make([]cell, n),
		mask:  n - 1,
	}
}

// Add adds delta to the counter.
func (a *Adder) Add(delta uint64) {
	t, ok := tokenPool.Get().(*token)
	if !ok {
		t = &token{
			idx: xruntime.Fastrand(),
		}
	}
	for {
		c := &a.cells[t.idx&a.mask]
		v := c.v.Load()
		if c.v.CompareAndSwap(v, v+delta) {
			break
		}
		t.idx = xruntime.Fastrand()
	}
	tokenPool.Put(t)
}

// Value returns the current counter value.
//
// The returned value may not include all of the latest operations in the presence of concurrent modifications.
func (a *Adder) Value() uint64 {
	v := uint64(0)
	for i := 0; i < len(a.cells); i++ {
		v += a.cells[i].v.Load()
	}
	return v
}

// Reset sets the counter to zero.
func (a *Adder) Reset() {
	for i := 0; i < len(a.cells); i++ {
		a.cells[i].v.Store(0)
	}
}
