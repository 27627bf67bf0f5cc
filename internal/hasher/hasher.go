package hasher

import (
	"unsafe"

	"github.com/dolthub/maphash"
	"github.com/zeebo/xxh3"
)

// Hasher hashes comparable keys into 64-bit values.
//
// String keys are hashed with xxh3 and are stable between processes,
// all other keys go through a randomly seeded maphash.
type Hasher[K comparable] struct {
	fallback    maphash.Hasher[K]
	keyIsString bool
}

// New creates a Hasher for K.
func New[K comparable]() Hasher[K] {
	h := Hasher[K]{
		fallback: maphash.NewHasher[K](),
	}

	var key K
	if _, ok := any(key).(string); ok {
		h.keyIsString = true
	}

	return h
}

// Hash returns the hash of key.
func (h Hasher[K]) Hash(key K) uint64 {
	if h.keyIsString {
		return xxh3.HashString(*(*string)(unsafe.Pointer(&key)))
	}
	return h.fallback.Hash(key)
}

// IsStable reports whether equal keys hash to the same value in every Hasher[K] instance.
func (h Hasher[K]) IsStable() bool {
	return h.keyIsString
}

// Mix is the splitmix64 finalizer. It turns an already computed hash into a second,
// independent-looking one.
func Mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
