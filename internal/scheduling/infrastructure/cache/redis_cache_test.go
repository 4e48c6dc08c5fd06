package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calendraio/calendra/internal/scheduling/domain"
)

func TestNamespacedKey(t *testing.T) {
	assert.Equal(t, "calendra:run:abc123", namespacedKey("abc123"))
}

func TestNoopFinalTasksCacheAlwaysMisses(t *testing.T) {
	c := NoopFinalTasksCache{}
	ctx := context.Background()

	_, err := c.Get(ctx, "any")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "any", domain.FinalTasks{}))
	_, err = c.Get(ctx, "any")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, c.Close())
}

func TestFinalTasksCacheRejectsBadURL(t *testing.T) {
	_, err := NewFinalTasksCache("not-a-redis-url", 0)
	assert.Error(t, err)
}

func TestFinalTasksCacheGetMissWhenUnreachable(t *testing.T) {
	// Pointed at a closed port: Get must surface an error, not panic, and
	// never mistake a connection failure for a successful cache hit.
	c, err := NewFinalTasksCache("redis://127.0.0.1:1/0", 0)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Get(context.Background(), "whatever")
	assert.Error(t, err)
}
