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

package marten

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRealSource(t *testing.T) {
	t.Parallel()

	start := time.Now().UnixNano()
	c := newTimeSource(nil)

	got := (c.NowNano() - start) / 1e9
	require.Equal(t, int64(0), got)

	time.Sleep(50 * time.Millisecond)
	require.GreaterOrEqual(t, c.NowNano()-start, int64(50*time.Millisecond))
}

// fakeClock is a manually advanced Clock for deterministic tests.
type fakeClock struct {
	mu    sync.Mutex
	now   int64
	ticks chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		now:   1,
		ticks: make(chan time.Time),
	}
}

func (fc *fakeClock) NowNano() int64 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.now
}

func (fc *fakeClock) Tick(duration time.Duration) <-chan time.Time {
	return fc.ticks
}

func (fc *fakeClock) Advance(d time.Duration) {
	fc.mu.Lock()
	fc.now += int64(d)
	fc.mu.Unlock()
}

func TestCustomSource(t *testing.T) {
	t.Parallel()

	fc := newFakeClock()
	c := newTimeSource(fc)
	require.Same(t, fc, c)
	require.Equal(t, int64(1), c.NowNano())
	fc.Advance(time.Second)
	require.Equal(t, int64(1)+int64(time.Second), c.NowNano())
}
