package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenCacheWithoutRedisIsNop(t *testing.T) {
	c := NewTokenCache(nil)
	require.IsType(t, NopTokenCache{}, c)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "jti", "user-1", time.Minute))
	_, ok, err := c.Get(ctx, "jti")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Delete(ctx, "jti"))
}
