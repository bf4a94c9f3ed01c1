package cache

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyDerivation(t *testing.T) {
	base := Key(1, "orig", "cat")
	assert.Len(t, base, 64)
	assert.Equal(t, base, Key(1, "orig", "cat"))

	// Any component change yields a different key.
	assert.NotEqual(t, base, Key(2, "orig", "cat"))
	assert.NotEqual(t, base, Key(1, "small", "cat"))
	assert.NotEqual(t, base, Key(1, "orig", "dog"))
}

func TestSetGet(t *testing.T) {
	c, err := New(4)
	require.NoError(t, err)
	defer c.Close()

	payload := bytes.Repeat([]byte{0xab}, 1024)
	key := Key(3, "thumb", "cat")

	_, found := c.Get(key)
	assert.False(t, found)

	c.Set(key, payload)
	c.Wait()

	got, found := c.Get(key)
	assert.True(t, found)
	assert.Equal(t, payload, got)

	// A bumped version misses.
	_, found = c.Get(Key(4, "thumb", "cat"))
	assert.False(t, found)
}
