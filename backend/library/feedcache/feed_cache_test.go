package feedcache

import (
	"context"
	"testing"
	"time"

	"linkboard/backend/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestLocalFeedCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewManager(nil, time.Minute)

	_, key, found := m.GetFeed(ctx, "main-feed:{}")
	assert.False(t, found)

	m.SetFeed(ctx, key, &Entry{
		Links: []*model.Link{{ID: 1, Description: "a", URL: "https://a"}},
		Count: 7,
	})

	entry, _, found := m.GetFeed(ctx, "main-feed:{}")
	require.True(t, found)
	assert.Equal(t, int64(7), entry.Count)
	require.Len(t, entry.Links, 1)
	assert.Equal(t, "https://a", entry.Links[0].URL)

	_, _, found = m.GetFeed(ctx, `main-feed:{"take":1}`)
	assert.False(t, found, "different feed ids must not share entries")
}

func TestLocalFeedCacheExpires(t *testing.T) {
	ctx := context.Background()
	m := NewManager(nil, 10*time.Millisecond)
	_, key, _ := m.GetFeed(ctx, "main-feed:{}")
	m.SetFeed(ctx, key, &Entry{Count: 1})

	time.Sleep(30 * time.Millisecond)

	_, _, found := m.GetFeed(ctx, "main-feed:{}")
	assert.False(t, found)
}

func TestInvalidateDropsAllFeeds(t *testing.T) {
	ctx := context.Background()
	m := NewManager(nil, time.Minute)
	_, all, _ := m.GetFeed(ctx, "main-feed:{}")
	_, filtered, _ := m.GetFeed(ctx, `main-feed:{"filter":"go"}`)
	m.SetFeed(ctx, all, &Entry{Count: 1})
	m.SetFeed(ctx, filtered, &Entry{Count: 2})

	m.Invalidate(ctx)

	_, _, found := m.GetFeed(ctx, "main-feed:{}")
	assert.False(t, found)
	_, _, found = m.GetFeed(ctx, `main-feed:{"filter":"go"}`)
	assert.False(t, found)

	_, all, _ = m.GetFeed(ctx, "main-feed:{}")
	m.SetFeed(ctx, all, &Entry{Count: 3})
	entry, _, found := m.GetFeed(ctx, "main-feed:{}")
	require.True(t, found)
	assert.Equal(t, int64(3), entry.Count)
}

func TestLocalSetAfterInvalidateIsDropped(t *testing.T) {
	ctx := context.Background()
	m := NewManager(nil, time.Minute)

	_, key, found := m.GetFeed(ctx, "main-feed:{}")
	require.False(t, found)
	m.Invalidate(ctx)
	m.SetFeed(ctx, key, &Entry{Count: 1})

	_, _, found = m.GetFeed(ctx, "main-feed:{}")
	assert.False(t, found, "page loaded before the invalidation must not be served")
	assert.Empty(t, m.local)
}

func TestSetNilEntryIsIgnored(t *testing.T) {
	ctx := context.Background()
	m := NewManager(nil, 0)
	_, key, _ := m.GetFeed(ctx, "main-feed:{}")
	m.SetFeed(ctx, key, nil)
	m.SetFeed(ctx, Key{}, &Entry{Count: 1})
	_, _, found := m.GetFeed(ctx, "main-feed:{}")
	assert.False(t, found)
	assert.Equal(t, 30*time.Second, m.expireTime)
}

func TestRedisFeedCacheRoundTripAndTTL(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedisClient(t)
	m := NewManager(rdb, time.Minute)

	_, key, found := m.GetFeed(ctx, "main-feed:{}")
	require.False(t, found)
	m.SetFeed(ctx, key, &Entry{Count: 4})

	entry, _, found := m.GetFeed(ctx, "main-feed:{}")
	require.True(t, found)
	assert.Equal(t, int64(4), entry.Count)

	require.True(t, mr.Exists(key.String()))
	assert.Equal(t, time.Minute, mr.TTL(key.String()))

	mr.FastForward(2 * time.Minute)
	_, _, found = m.GetFeed(ctx, "main-feed:{}")
	assert.False(t, found)
}

func TestRedisInvalidateIsSharedBetweenManagers(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedisClient(t)
	first := NewManager(rdb, time.Minute)
	second := NewManager(rdb, time.Minute)

	_, key, _ := first.GetFeed(ctx, "main-feed:{}")
	first.SetFeed(ctx, key, &Entry{Count: 1})

	entry, _, found := second.GetFeed(ctx, "main-feed:{}")
	require.True(t, found)
	assert.Equal(t, int64(1), entry.Count)

	second.Invalidate(ctx)

	generation, err := mr.Get(generationKey)
	require.NoError(t, err)
	assert.Equal(t, "1", generation)

	_, _, found = first.GetFeed(ctx, "main-feed:{}")
	assert.False(t, found)
	_, _, found = second.GetFeed(ctx, "main-feed:{}")
	assert.False(t, found)
}

func TestRedisSetAfterInvalidateIsUnreachable(t *testing.T) {
	ctx := context.Background()
	_, rdb := newRedisClient(t)
	reader := NewManager(rdb, time.Minute)
	writer := NewManager(rdb, time.Minute)

	_, stale, found := reader.GetFeed(ctx, "main-feed:{}")
	require.False(t, found)
	writer.Invalidate(ctx)
	reader.SetFeed(ctx, stale, &Entry{Count: 1})

	_, _, found = reader.GetFeed(ctx, "main-feed:{}")
	assert.False(t, found)
}
