package hasher

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeebo/xxh3"
)

func TestHasher_String(t *testing.T) {
	t.Parallel()

	h := New[string]()
	require.True(t, h.IsStable())
	require.Equal(t, xxh3.HashString("marten"), h.Hash("marten"))
	require.Equal(t, h.Hash("a"), New[string]().Hash("a"))
	require.NotEqual(t, h.Hash("a"), h.Hash("b"))
}

func TestHasher_Comparable(t *testing.T) {
	t.Parallel()

	type key struct {
		id   int
		name string
	}

	h := New[key]()
	require.False(t, h.IsStable())
	require.Equal(t, h.Hash(key{1, "a"}), h.Hash(key{1, "a"}))
	require.NotEqual(t, h.Hash(key{1, "a"}), h.Hash(key{1, "b"}))
}

func TestMix(t *testing.T) {
	t.Parallel()

	require.NotEqual(t, uint64(1), Mix(1))
	require.Equal(t, Mix(42), Mix(42))
	require.NotEqual(t, Mix(42), Mix(43))
}
