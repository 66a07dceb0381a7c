package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetGet(t *testing.T) {
	c := NewWithOptions(time.Minute, 0, 10)

	c.Set("profile:1", "Alice")
	v, ok := c.Get("profile:1")
	assert.True(t, ok)
	assert.Equal(t, "Alice", v)

	_, ok = c.Get("profile:2")
	assert.False(t, ok)
}

func TestExpiration(t *testing.T) {
	c := NewWithOptions(time.Minute, 0, 10)

	c.SetWithExpiration("k", "v", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestEvictionAtCapacity(t *testing.T) {
	c := NewWithOptions(time.Minute, 0, 3)

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}

	assert.LessOrEqual(t, c.Count(), 3)
}

func TestDeleteAndFlush(t *testing.T) {
	c := NewWithOptions(time.Minute, 0, 10)

	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Flush()
	assert.Equal(t, 0, c.Count())
}
