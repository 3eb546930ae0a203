package metadata_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/note-copy/internal/metadata"
	"github.com/xaenox/note-copy/internal/models"
	"go.uber.org/zap/zaptest"
)

type fakeCatalog struct {
	entries []models.EntityMetadata
	err     error
	calls   int
}

func (f *fakeCatalog) RetrieveEntityMetadata(ctx context.Context, typeCode int) ([]models.EntityMetadata, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.EntityMetadata
	for _, e := range f.entries {
		if e.ObjectTypeCode == typeCode {
			out = append(out, e)
		}
	}
	return out, nil
}

type brokenCache struct{}

func (brokenCache) Get(ctx context.Context, typeCode int) (string, bool, error) {
	return "", false, errors.New("cache down")
}

func (brokenCache) Set(ctx context.Context, typeCode int, logicalName string) error {
	return errors.New("cache down")
}

func TestResolve(t *testing.T) {
	catalog := &fakeCatalog{entries: []models.EntityMetadata{
		{ObjectTypeCode: 1, LogicalName: "account"},
		{ObjectTypeCode: 2, LogicalName: "contact"},
	}}
	r := metadata.NewResolver(catalog, nil, zaptest.NewLogger(t))

	name, err := r.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "account", name)

	name, err = r.Resolve(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "contact", name)
}

func TestResolve_Unknown(t *testing.T) {
	catalog := &fakeCatalog{}
	r := metadata.NewResolver(catalog, metadata.NewMemoryCache(), zaptest.NewLogger(t))

	_, err := r.Resolve(context.Background(), 42)
	assert.True(t, errors.Is(err, models.ErrUnknownEntityType), "got %v", err)
}

func TestResolve_Ambiguous(t *testing.T) {
	catalog := &fakeCatalog{entries: []models.EntityMetadata{
		{ObjectTypeCode: 1, LogicalName: "account"},
		{ObjectTypeCode: 1, LogicalName: "lead"},
	}}
	cache := metadata.NewMemoryCache()
	r := metadata.NewResolver(catalog, cache, zaptest.NewLogger(t))

	_, err := r.Resolve(context.Background(), 1)
	assert.True(t, errors.Is(err, models.ErrAmbiguousEntityType), "got %v", err)
	assert.Equal(t, 0, cache.Len(), "failed resolutions are not cached")
}

func TestResolve_IgnoresNamelessDescriptors(t *testing.T) {
	catalog := &fakeCatalog{entries: []models.EntityMetadata{
		{ObjectTypeCode: 1},
	}}
	r := metadata.NewResolver(catalog, nil, zaptest.NewLogger(t))

	_, err := r.Resolve(context.Background(), 1)
	assert.True(t, errors.Is(err, models.ErrUnknownEntityType))
}

func TestResolve_CatalogError(t *testing.T) {
	boom := errors.New("catalog offline")
	r := metadata.NewResolver(&fakeCatalog{err: boom}, nil, zaptest.NewLogger(t))

	_, err := r.Resolve(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
}

func TestResolve_ReadThroughCache(t *testing.T) {
	catalog := &fakeCatalog{entries: []models.EntityMetadata{{ObjectTypeCode: 1, LogicalName: "account"}}}
	cache := metadata.NewMemoryCache()
	r := metadata.NewResolver(catalog, cache, zaptest.NewLogger(t))

	for i := 0; i < 3; i++ {
		name, err := r.Resolve(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "account", name)
	}
	assert.Equal(t, 1, catalog.calls)
	assert.Equal(t, 1, cache.Len())
}

func TestResolve_BrokenCacheFallsThrough(t *testing.T) {
	catalog := &fakeCatalog{entries: []models.EntityMetadata{{ObjectTypeCode: 1, LogicalName: "account"}}}
	r := metadata.NewResolver(catalog, brokenCache{}, zaptest.NewLogger(t))

	name, err := r.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "account", name)
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := metadata.NewMemoryCache()
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, 1, "account"))

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			name, ok, err := cache.Get(ctx, 1)
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "account", name)
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}

func TestRedisCache_NilClient(t *testing.T) {
	cache := metadata.NewRedisCache(nil, time.Minute)
	_, _, err := cache.Get(context.Background(), 1)
	assert.Error(t, err)
	assert.Error(t, cache.Set(context.Background(), 1, "account"))
	assert.Equal(t, "notecopy:etc:1", cache.Key(1))
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("NOTECOPY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("NOTECOPY_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	cache := metadata.NewRedisCache(client, time.Minute)
	code := int(time.Now().UnixNano() % 100000)
	t.Cleanup(func() { client.Del(ctx, cache.Key(code)) })

	_, ok, err := cache.Get(ctx, code)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, code, "account"))
	name, ok, err := cache.Get(ctx, code)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "account", name)
}
