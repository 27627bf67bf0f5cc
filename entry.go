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
	"time"
)

// Entry is a key-value pair that may include policy metadata for the cached entry.
//
// It is an immutable snapshot of the cached data at the time of this entry's creation, and it will not
// reflect changes afterward.
type Entry[K comparable, V any] struct {
	// Key is the entry's key.
	Key K
	// Value is the entry's value.
	Value V
	// Weight returns the entry's weight.
	//
	// If the cache was not configured with a weight then this value is always 1.
	Weight uint32
	// WrittenAtNano is the time of the last write of the entry in nanoseconds.
	WrittenAtNano int64
	// ExpiresAtNano is the entry's expiration time as a unix time,
	// the number of nanoseconds elapsed since January 1, 1970 UTC.
	//
	// If the cache was not configured with an expiration policy then this value is always math.MaxInt64.
	ExpiresAtNano int64
	// SnapshotAtNano is the time when this snapshot of the entry was taken.
	SnapshotAtNano int64
}

// ExpiresAt returns the entry's expiration time.
//
// If the cache was not configured with an expiration policy then this value is roughly [math.MaxInt64]
// nanoseconds away from the SnapshotAt.
func (e Entry[K, V]) ExpiresAt() time.Time {
	return time.Unix(0, e.ExpiresAtNano)
}

// ExpiresAfter returns the fixed duration used to determine if an entry should be automatically removed due
// to elapsing this time bound. An entry is considered fresh if its age is less than this duration, and stale
// otherwise.
func (e Entry[K, V]) ExpiresAfter() time.Duration {
	return time.Duration(e.ExpiresAtNano - e.SnapshotAtNano)
}

// HasExpired returns true if the entry has expired.
func (e Entry[K, V]) HasExpired() bool {
	return e.ExpiresAtNano <= e.SnapshotAtNano
}

// WrittenAt returns the time of the last write of the entry.
func (e Entry[K, V]) WrittenAt() time.Time {
	return time.Unix(0, e.WrittenAtNano)
}
