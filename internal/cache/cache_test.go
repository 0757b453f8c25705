package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	c := New(time.Minute)

	_, found := c.Get("missing")
	assert.False(t, found)

	c.Set("k", "v")
	got, found := c.Get("k")
	require.True(t, found)
	assert.Equal(t, "v", got)
}

func TestCacheExpiry(t *testing.T) {
	c := New(time.Minute)

	c.Set("k", "v", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, found := c.Get("k")
	assert.False(t, found)
}

func TestCacheDeleteByPrefix(t *testing.T) {
	c := New(time.Minute)

	c.Set("products:list:p1", 1)
	c.Set("products:list:p2", 2)
	c.Set("product:abc", 3)

	c.DeleteByPrefix("products:list:")

	_, found := c.Get("products:list:p1")
	assert.False(t, found)
	_, found = c.Get("product:abc")
	assert.True(t, found)
	assert.Equal(t, 1, c.Size())
}
