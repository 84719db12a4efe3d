package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorageSetGetDelete(t *testing.T) {
	s := NewMemoryStorage[string, int]()

	s.Set("a", 1)
	s.Set("b", 2)

	v, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	assert.Equal(t, 2, s.Count())
	assert.True(t, s.Delete("a"))
	assert.False(t, s.Delete("a"))

	_, ok = s.Get("a")
	assert.False(t, ok)
}

func TestMemoryStorageDirtyTracking(t *testing.T) {
	s := NewMemoryStorage[string, int]()

	s.Set("a", 1)
	s.Set("b", 2)

	dirty := s.GetDirty()
	assert.Len(t, dirty, 2)

	s.ClearDirty([]string{"a"})
	dirty = s.GetDirty()
	require.Len(t, dirty, 1)
	assert.Equal(t, 2, dirty["b"])

	// A deleted key no longer shows up as dirty
	s.Delete("b")
	assert.Empty(t, s.GetDirty())
}

func TestMemoryStorageForEachStopsEarly(t *testing.T) {
	s := NewMemoryStorage[string, int]()
	s.Set("a", 1)
	s.Set("b", 2)
	s.Set("c", 3)

	visited := 0
	s.ForEach(func(key string, value int) bool {
		visited++
		return visited < 2
	})

	assert.Equal(t, 2, visited)
}
