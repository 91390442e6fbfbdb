package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupClient(t *testing.T) *Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := New("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

type cachedEvent struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestNew_BadURL(t *testing.T) {
	_, err := New("not-a-redis-url")
	assert.Error(t, err)
}

func TestClient_RoundTrip(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()

	t.Run("miss_returns_false", func(t *testing.T) {
		var dest cachedEvent
		found, err := c.Get(ctx, "events:none", &dest)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("set_then_get", func(t *testing.T) {
		in := cachedEvent{ID: "evt_1", Title: "Morning Market"}
		require.NoError(t, c.Set(ctx, "events:evt_1", in, time.Minute))

		var out cachedEvent
		found, err := c.Get(ctx, "events:evt_1", &out)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, in, out)
	})

	t.Run("delete_invalidates", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "events:evt_2", cachedEvent{ID: "evt_2"}, time.Minute))
		require.NoError(t, c.Delete(ctx, "events:evt_2"))

		var out cachedEvent
		found, err := c.Get(ctx, "events:evt_2", &out)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("delete_without_keys_is_noop", func(t *testing.T) {
		assert.NoError(t, c.Delete(ctx))
	})

	t.Run("corrupt_payload_surfaces_error", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "events:raw", "not-an-object", time.Minute))

		var out cachedEvent
		_, err := c.Get(ctx, "events:raw", &out)
		assert.Error(t, err)
	})
}

func TestClient_Ping(t *testing.T) {
	c := setupClient(t)
	assert.NoError(t, c.Ping(context.Background()))
}
