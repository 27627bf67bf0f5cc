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

package bloom

import (
	"errors"
	"math"
	"math/bits"
	"sync/atomic"

	"github.com/marten-cache/marten/internal/hasher"
)

const (
	wordSize = 64
	// maxBitSize keeps the number of words addressable by an int32.
	maxBitSize = uint64(math.MaxInt32) * wordSize
)

var (
	// ErrIllegalExpectedInsertions is returned when the expected number of insertions is not positive.
	ErrIllegalExpectedInsertions = errors.New("bloom: expected insertions should be positive")
	// ErrIllegalProbability is returned when the false positive probability is not in the (0, 1) range.
	ErrIllegalProbability = errors.New("bloom: false positive probability should be in the (0, 1) range")
	// ErrTooLarge is returned when the filter would need more bits than can be addressed.
	ErrTooLarge = errors.New("bloom: filter is too large")
	// ErrIncompatible is returned by PutAll for filters with different parameters or hash functions.
	ErrIncompatible = errors.New("bloom: filters are not compatible")
)

// Filter is a probabilistic set that answers whether an element might have been put into it.
// Filter never returns false negatives. The rate of false positives grows with the number of
// inserted elements and reaches the configured probability at the expected number of insertions.
//
// Filter is safe for concurrent use by multiple goroutines and never loses a bit update.
type Filter[T comparable] struct {
	bits      []atomic.Uint64
	hasher    *hasher.Hasher[T]
	bitSize   uint64
	hashCount int
	setBits   atomic.Uint64
	inserted  atomic.Uint64
}

// New creates a Filter sized for expectedInsertions elements at the given false positive probability.
func New[T comparable](expectedInsertions int, falsePositiveProbability float64) (*Filter[T], error) {
	if expectedInsertions <= 0 {
		return nil, ErrIllegalExpectedInsertions
	}
	if !(falsePositiveProbability > 0 && falsePositiveProbability < 1) {
		return nil, ErrIllegalProbability
	}

	bitSize, err := optimalBitSize(expectedInsertions, falsePositiveProbability)
	if err != nil {
		return nil, err
	}

	h := hasher.New[T]()
	return &Filter[T]{
		bits:      make([]atomic.Uint64, (bitSize+wordSize-1)/wordSize),
		hasher:    &h,
		bitSize:   bitSize,
		hashCount: optimalHashCount(expectedInsertions, bitSize),
	}, nil
}

// Must creates a Filter or panics if invalid parameters were specified.
func Must[T comparable](expectedInsertions int, falsePositiveProbability float64) *Filter[T] {
	f, err := New[T](expectedInsertions, falsePositiveProbability)
	if err != nil {
		panic(err)
	}
	return f
}

// m = ceil(-n * ln(p) / ln(2)^2).
func optimalBitSize(n int, p float64) (uint64, error) {
	m := math.Ceil(-float64(n) * math.Log(p) / (math.Ln2 * math.Ln2))
	if m > float64(maxBitSize) {
		return 0, ErrTooLarge
	}
	return max(uint64(m), 1), nil
}

// k = max(1, round(m / n * ln(2))).
func optimalHashCount(n int, m uint64) int {
	return max(1, int(math.Round(float64(m)/float64(n)*math.Ln2)))
}

// Put inserts e into the filter.
//
// It returns true if the filter changed, meaning that e was definitely not in the filter before.
// A false result means e might have already been put.
func (f *Filter[T]) Put(e T) bool {
	h1 := f.hasher.Hash(e)
	h2 := hasher.Mix(h1) | 1

	changed := false
	for i := 0; i < f.hashCount; i++ {
		idx := (h1 + uint64(i)*h2) % f.bitSize
		mask := uint64(1) << (idx % wordSize)
		if old := f.bits[idx/wordSize].Or(mask); old&mask == 0 {
			f.setBits.Add(1)
			changed = true
		}
	}

	if changed {
		f.inserted.Add(1)
	}
	return changed
}

// MightContain returns true if e might have been put into the filter,
// and false if that is definitely not the case.
func (f *Filter[T]) MightContain(e T) bool {
	h1 := f.hasher.Hash(e)
	h2 := hasher.Mix(h1) | 1

	for i := 0; i < f.hashCount; i++ {
		idx := (h1 + uint64(i)*h2) % f.bitSize
		if f.bits[idx/wordSize].Load()&(uint64(1)<<(idx%wordSize)) == 0 {
			return false
		}
	}
	return true
}

// ExpectedFalsePositiveProbability returns the probability that MightContain erroneously returns true
// for an element that has not been put, given the number of elements put so far.
func (f *Filter[T]) ExpectedFalsePositiveProbability() float64 {
	k := float64(f.hashCount)
	inserted := float64(f.inserted.Load())
	return math.Pow(1-math.Exp(-k*inserted/float64(f.bitSize)), k)
}

// ApproximateElementCount returns an estimate of the number of distinct elements put into the filter,
// derived from the fraction of set bits.
func (f *Filter[T]) ApproximateElementCount() int {
	setBits := f.setBits.Load()
	if setBits >= f.bitSize {
		return math.MaxInt
	}

	fraction := float64(setBits) / float64(f.bitSize)
	count := -math.Log1p(-fraction) * float64(f.bitSize) / float64(f.hashCount)
	if count >= math.MaxInt {
		return math.MaxInt
	}
	return int(math.Round(count))
}

// BitSize returns the number of bits in the filter.
func (f *Filter[T]) BitSize() uint64 {
	return f.bitSize
}

// HashCount returns the number of bit positions set for each element.
func (f *Filter[T]) HashCount() int {
	return f.hashCount
}

// IsCompatible reports whether other can be merged into f with PutAll.
//
// Filters are compatible when they have the same size and hash count and place equal elements
// into the same bits. For string elements that holds for any two filters, for other types
// only for filters derived from each other with Copy.
func (f *Filter[T]) IsCompatible(other *Filter[T]) bool {
	if other == nil || f == other {
		return false
	}
	if f.bitSize != other.bitSize || f.hashCount != other.hashCount {
		return false
	}
	return f.hasher == other.hasher || (f.hasher.IsStable() && other.hasher.IsStable())
}

// PutAll merges other into f, so that f contains the union of both filters.
//
// other is not modified. ErrIncompatible is returned if IsCompatible(other) is false.
func (f *Filter[T]) PutAll(other *Filter[T]) error {
	if !f.IsCompatible(other) {
		return ErrIncompatible
	}

	for i := range f.bits {
		word := other.bits[i].Load()
		if word == 0 {
			continue
		}
		old := f.bits[i].Or(word)
		if added := bits.OnesCount64(word &^ old); added > 0 {
			f.setBits.Add(uint64(added))
		}
	}
	f.inserted.Add(other.inserted.Load())

	return nil
}

// Copy returns an independent filter with the same bits and hash functions as f.
func (f *Filter[T]) Copy() *Filter[T] {
	c := &Filter[T]{
		bits:      make([]atomic.Uint64, len(f.bits)),
		hasher:    f.hasher,
		bitSize:   f.bitSize,
		hashCount: f.hashCount,
	}
	for i := range f.bits {
		c.bits[i].Store(f.bits[i].Load())
	}
	c.setBits.Store(f.setBits.Load())
	c.inserted.Store(f.inserted.Load())
	return c
}
