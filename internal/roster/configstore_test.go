package roster

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfigStore(t *testing.T) (*ConfigStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewConfigStore(client, time.UTC), mr
}

func TestConfigStoreRoundTrip(t *testing.T) {
	store, _ := newConfigStore(t)
	ctx := context.Background()

	cfg := DefaultConfig()
	cfg.StartDate = time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC)
	cfg.Teams[TeamAlpha] = []int64{1, 2}
	cfg.Teams[TeamDelta] = []int64{9}

	require.NoError(t, store.SaveDraft(ctx, 42, cfg))

	loaded, err := store.LoadDraft(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, cfg.StartDate, loaded.StartDate)
	assert.Equal(t, []int64{1, 2}, loaded.Teams[TeamAlpha])
	assert.Equal(t, []int64{9}, loaded.Teams[TeamDelta])
	assert.Equal(t, ConfigSchemaVersion, loaded.SchemaVersion)
}

func TestConfigStoreMissingIsDefault(t *testing.T) {
	store, _ := newConfigStore(t)

	loaded, err := store.LoadDraft(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().StartDate, loaded.StartDate)
	assert.Empty(t, loaded.Teams[TeamAlpha])
}

func TestConfigStoreMalformedIsDefault(t *testing.T) {
	store, mr := newConfigStore(t)
	require.NoError(t, mr.Set("roster:config:draft:7", "{not json"))

	loaded, err := store.LoadDraft(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().StartDate, loaded.StartDate)
}

func TestConfigStorePartialRecordGetsDefaults(t *testing.T) {
	store, mr := newConfigStore(t)
	// Older record: only team_a was ever stored.
	require.NoError(t, mr.Set("roster:config:draft:3", `{"schema_version":1,"start_date":"2024-06-01","team_a":[4,5]}`))

	loaded, err := store.LoadDraft(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5}, loaded.Teams[TeamAlpha])
	assert.Empty(t, loaded.Teams[TeamBravo])
	assert.Empty(t, loaded.Teams[TeamCharlie])
	assert.Empty(t, loaded.Teams[TeamDelta])
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), loaded.StartDate)
}

func TestConfigStoreUnitSlot(t *testing.T) {
	store, _ := newConfigStore(t)
	ctx := context.Background()

	_, found, err := store.LoadUnit(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	cfg := DefaultConfig()
	cfg.Teams[TeamBravo] = []int64{8}
	require.NoError(t, store.SaveUnit(ctx, cfg))

	loaded, found, err := store.LoadUnit(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []int64{8}, loaded.Teams[TeamBravo])
}

func TestConfigStoreDraftsAreIsolatedPerOwner(t *testing.T) {
	store, _ := newConfigStore(t)
	ctx := context.Background()

	cfg := DefaultConfig()
	cfg.Teams[TeamAlpha] = []int64{1}
	require.NoError(t, store.SaveDraft(ctx, 1, cfg))

	other, err := store.LoadDraft(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, other.Teams[TeamAlpha])
}
