// Package bloom implements a concurrent Bloom filter.
//
// The filter is sized from the expected number of insertions n and the desired false positive
// probability p: it uses m = ceil(-n*ln(p)/ln(2)^2) bits and k = round(m/n*ln(2)) bit positions
// per element. Positions are derived from a single 64-bit hash with double hashing.
package bloom
