package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNilCacheIsDisabledAndSafe(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	assert.False(t, c.Enabled())
	assert.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}))
	assert.ErrorIs(t, c.Get(ctx, "k", &struct{}{}), ErrMiss)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.DeletePattern(ctx, "k:*"))
	assert.NoError(t, c.Close())
}

func TestKeyBuilders(t *testing.T) {
	assert.Equal(t, "progress:42:summary", ProgressKey(42, "summary"))
	assert.Equal(t, "progress:42:*", ProgressPattern(42))
	assert.Equal(t, "community:feed", CommunityFeedKey())
}
