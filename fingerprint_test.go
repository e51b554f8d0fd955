package memo

import (
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
)

type userID string

type point struct {
	X, Y int
}

func TestDefaultHasher(t *testing.T) {
	t.Run("string uses xxhash", func(t *testing.T) {
		h := defaultHasher[string]()
		assert.Equal(t, xxhash.Sum64String("abc"), h("abc"))
	})

	t.Run("integers agree with IntHasher", func(t *testing.T) {
		h := defaultHasher[int64]()
		assert.Equal(t, IntHasher(int64(-3)), h(-3))
		assert.NotEqual(t, h(1), h(2))
	})

	t.Run("structs hash consistently with equality", func(t *testing.T) {
		h := defaultHasher[point]()
		assert.Equal(t, h(point{1, 2}), h(point{1, 2}))
		assert.NotEqual(t, h(point{1, 2}), h(point{2, 1}))
	})

	t.Run("interface arguments", func(t *testing.T) {
		h := defaultHasher[any]()
		assert.Equal(t, h("x"), h("x"))
		assert.Equal(t, h(point{1, 1}), h(point{1, 1}))
	})
}

func TestStringHasher(t *testing.T) {
	assert.Equal(t, xxhash.Sum64String("u1"), StringHasher(userID("u1")))
	assert.NotEqual(t, StringHasher("a"), StringHasher("b"))
}

func TestNamedStringArguments(t *testing.T) {
	m := New(func(id userID) int { return len(id) },
		WithHasher[userID, int](StringHasher[userID]),
	)

	assert.Equal(t, 5, m.Call("alice"))
	assert.True(t, m.Has("alice"))
	assert.False(t, m.Has("bob"))
}

func TestStructArguments(t *testing.T) {
	m := New(func(p point) int { return p.X + p.Y })

	assert.Equal(t, 3, m.Call(point{1, 2}))
	assert.Equal(t, 3, m.Call(point{1, 2}))
	assert.Equal(t, int64(1), m.Stats().Hits)
}
