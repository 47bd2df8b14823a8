package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proteinfinder/backend/internal/domain"
)

// newTestCache returns a cache whose clock is controlled by the returned func
func newTestCache(t *testing.T, retention time.Duration) (*MemoryCache, func(time.Duration)) {
	t.Helper()
	cache := NewMemoryCache(retention)
	t.Cleanup(cache.Close)

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	cache.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}
	return cache, advance
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "ranking:a", []byte(`{"products":[]}`)))

	got, err := cache.Get(ctx, "ranking:a")
	require.NoError(t, err)
	assert.Equal(t, `{"products":[]}`, string(got))
}

func TestMemoryCache_StoresCopies(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	blob := []byte("original")
	require.NoError(t, cache.Set(ctx, "k", blob))
	blob[0] = 'X'

	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))

	got[0] = 'Y'
	again, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "original", string(again))
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)

	_, err := cache.Get(context.Background(), "missing")
	assert.True(t, eris.Is(err, domain.ErrCacheMiss))
}

func TestMemoryCache_IsFresh(t *testing.T) {
	cache, advance := newTestCache(t, 72*time.Hour)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "k", []byte("v")))

	fresh, err := cache.IsFresh(ctx, "k", 6*time.Hour)
	require.NoError(t, err)
	assert.True(t, fresh)

	advance(7 * time.Hour)

	fresh, err = cache.IsFresh(ctx, "k", 6*time.Hour)
	require.NoError(t, err)
	assert.False(t, fresh, "entry older than max age is not fresh")

	got, err := cache.Get(ctx, "k")
	require.NoError(t, err, "stale entry stays readable until retention")
	assert.Equal(t, "v", string(got))

	fresh, err = cache.IsFresh(ctx, "missing", time.Hour)
	require.NoError(t, err)
	assert.False(t, fresh)
}

func TestMemoryCache_Retention(t *testing.T) {
	cache, advance := newTestCache(t, time.Hour)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "k", []byte("v")))

	advance(2 * time.Hour)

	_, err := cache.Get(ctx, "k")
	assert.True(t, eris.Is(err, domain.ErrCacheMiss))
	assert.Equal(t, 1, cache.Size())

	cache.removeExpired()
	assert.Equal(t, 0, cache.Size())
}

func TestMemoryCache_Overwrite(t *testing.T) {
	cache, advance := newTestCache(t, 72*time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("old")))
	advance(10 * time.Hour)
	require.NoError(t, cache.Set(ctx, "k", []byte("new")))

	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	fresh, err := cache.IsFresh(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.True(t, fresh, "overwrite resets the store time")
	assert.Equal(t, 1, cache.Size())
}

func TestMemoryCache_DefaultRetention(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()

	assert.Equal(t, DefaultRetention, cache.retention)
	cache.Close() // closing twice is safe
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i%10)
			_ = cache.Set(ctx, key, []byte(key))
			_, _ = cache.Get(ctx, key)
			_, _ = cache.IsFresh(ctx, key, time.Minute)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, cache.Size())
}
