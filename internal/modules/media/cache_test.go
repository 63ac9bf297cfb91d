package media

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResponseCacheHitAndMiss(t *testing.T) {
	c := NewResponseCache(4, time.Minute)

	_, _, ok := c.Get("a.jpg")
	assert.False(t, ok)

	c.Put("a.jpg", []byte("bytes"), "image/jpeg")
	data, contentType, ok := c.Get("a.jpg")
	assert.True(t, ok)
	assert.Equal(t, []byte("bytes"), data)
	assert.Equal(t, "image/jpeg", contentType)
}

func TestResponseCacheBoundedEntries(t *testing.T) {
	c := NewResponseCache(3, time.Minute)

	for i := 0; i < 10; i++ {
		c.Put(fmt.Sprintf("key-%d", i), []byte{byte(i)}, "image/jpeg")
	}

	var present int
	for i := 0; i < 10; i++ {
		if _, _, ok := c.Get(fmt.Sprintf("key-%d", i)); ok {
			present++
		}
	}
	assert.LessOrEqual(t, present, 3)
}

func TestResponseCacheTTLExpiry(t *testing.T) {
	c := NewResponseCache(4, 10*time.Millisecond)
	c.Put("a.jpg", []byte("bytes"), "image/jpeg")

	time.Sleep(30 * time.Millisecond)

	_, _, ok := c.Get("a.jpg")
	assert.False(t, ok)
}

func TestResponseCacheNilIsDisabled(t *testing.T) {
	var c *ResponseCache

	c.Put("a.jpg", []byte("bytes"), "image/jpeg")
	_, _, ok := c.Get("a.jpg")
	assert.False(t, ok)
	c.Invalidate("a.jpg")
}

func TestResponseCacheInvalidateDropsVariants(t *testing.T) {
	c := NewResponseCache(8, time.Minute)
	c.Put("p/1.jpg", []byte("full"), "image/jpeg")
	c.Put("p/1.jpg?size=320", []byte("small"), "image/jpeg")
	c.Put("p/10.jpg", []byte("other"), "image/jpeg")

	c.Invalidate("p/1.jpg")

	_, _, ok := c.Get("p/1.jpg")
	assert.False(t, ok)
	_, _, ok = c.Get("p/1.jpg?size=320")
	assert.False(t, ok)
	_, _, ok = c.Get("p/10.jpg")
	assert.True(t, ok)
}
