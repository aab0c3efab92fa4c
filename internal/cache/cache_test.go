package cache_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ignatzorin/skillswap-backend/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newCache() (*cache.Cache, *clock) {
	clk := &clock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := cache.New()
	c.SetClock(clk.now)
	return c, clk
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	c, clk := newCache()
	c.Set("k", 42, time.Minute)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	clk.advance(time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)

	assert.Equal(t, 1, c.Cleanup())
	assert.Equal(t, 0, c.Len())
}

func TestCache_InvalidateByPrefix(t *testing.T) {
	c, _ := newCache()
	c.Set(cache.LeaderboardKey(10), "a", time.Hour)
	c.Set(cache.LeaderboardKey(20), "b", time.Hour)
	c.Set(cache.IdentityKey("google:1"), "c", time.Hour)

	c.InvalidateByPrefix(cache.LeaderboardPrefix)

	_, ok := c.Get(cache.LeaderboardKey(10))
	assert.False(t, ok)
	_, ok = c.Get(cache.IdentityKey("google:1"))
	assert.True(t, ok)
}

func TestCache_GetOrSet(t *testing.T) {
	c, _ := newCache()
	calls := 0
	load := func() (interface{}, error) {
		calls++
		return "value", nil
	}

	v, err := c.GetOrSet("k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	_, err = c.GetOrSet("k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, err = c.GetOrSet("bad", time.Minute, func() (interface{}, error) { return nil, errors.New("boom") })
	assert.Error(t, err)
	_, ok := c.Get("bad")
	assert.False(t, ok)
}
