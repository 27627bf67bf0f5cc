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
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/marten-cache/marten/internal/node"
)

func TestFixed_DeleteExpired(t *testing.T) {
	t.Parallel()

	var expired []int
	f := NewFixed[int, int](10*time.Nanosecond, func(n *node.Node[int, int], nowNanos int64) {
		n.Die()
		expired = append(expired, n.Key())
	})
	require.Equal(t, int64(10), f.ExpiresAfter())

	n1 := node.New(1, 1, 0, 1)
	n2 := node.New(2, 2, 5, 1)
	n3 := node.New(3, 3, 8, 1)
	f.Add(n1)
	f.Add(n2)
	f.Add(n3)

	f.DeleteExpired(9)
	require.Empty(t, expired)
	require.Equal(t, 3, f.Len())

	f.DeleteExpired(15)
	require.Equal(t, []int{1, 2}, expired)
	require.Equal(t, 1, f.Len())

	f.DeleteExpired(100)
	require.Equal(t, []int{1, 2, 3}, expired)
	require.Equal(t, 0, f.Len())
}

func TestFixed_SkipsDeadNodes(t *testing.T) {
	t.Parallel()

	var expired []int
	f := NewFixed[int, int](10*time.Nanosecond, func(n *node.Node[int, int], nowNanos int64) {
		expired = append(expired, n.Key())
	})

	replaced := node.New(1, 1, 0, 1)
	f.Add(replaced)
	f.Add(node.New(1, 2, 3, 1))
	replaced.Die()

	f.DeleteExpired(5)
	require.Empty(t, expired)
	require.Equal(t, 1, f.Len())

	f.DeleteExpired(13)
	require.Equal(t, []int{1}, expired)

	f.Add(node.New(2, 2, 20, 1))
	f.Clear()
	require.Equal(t, 0, f.Len())
}
