package classifier

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teligen-kh/aicounsel/store"
)

func TestMatchCache(t *testing.T) {
	match := &Match{Pattern: &store.Pattern{ID: 1, Text: "포스 연결 오류"}, Score: 0.8}

	t.Run("hit within ttl", func(t *testing.T) {
		c := newMatchCache(10, time.Minute)
		c.put("key", match)

		got, ok := c.get("key")
		require.True(t, ok)
		assert.Equal(t, match, got)
		assert.Equal(t, 1, c.size())
	})

	t.Run("miss after ttl", func(t *testing.T) {
		c := newMatchCache(10, 10*time.Millisecond)
		c.put("key", match)
		time.Sleep(20 * time.Millisecond)

		_, ok := c.get("key")
		assert.False(t, ok)
		assert.Equal(t, 0, c.size())
	})

	t.Run("eviction drops only the oldest", func(t *testing.T) {
		c := newMatchCache(3, time.Minute)
		for i := 0; i < 3; i++ {
			c.put(fmt.Sprintf("key-%d", i), match)
			time.Sleep(2 * time.Millisecond)
		}
		c.put("key-3", match)

		assert.Equal(t, 3, c.size())
		_, ok := c.get("key-0")
		assert.False(t, ok, "oldest entry should be evicted")
		for i := 1; i <= 3; i++ {
			_, ok := c.get(fmt.Sprintf("key-%d", i))
			assert.True(t, ok, "key-%d should survive", i)
		}
	})

	t.Run("overwrite does not evict", func(t *testing.T) {
		c := newMatchCache(2, time.Minute)
		c.put("a", match)
		c.put("b", match)
		c.put("a", match)

		assert.Equal(t, 2, c.size())
		_, ok := c.get("b")
		assert.True(t, ok)
	})

	t.Run("clear empties the cache", func(t *testing.T) {
		c := newMatchCache(10, time.Minute)
		c.put("key", match)
		c.clear()
		assert.Equal(t, 0, c.size())
	})
}
