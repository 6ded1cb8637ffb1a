package roster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	entries     map[string]Entry
	upsertError error
}

func newMockRepository() *mockRepository {
	return &mockRepository{entries: make(map[string]Entry)}
}

func (m *mockRepository) Upsert(ctx context.Context, entry Entry) error {
	if m.upsertError != nil {
		return m.upsertError
	}
	m.entries[entry.Date.Format("2006-01-02")] = entry
	return nil
}

func (m *mockRepository) Get(ctx context.Context, date time.Time) (*Entry, error) {
	e, ok := m.entries[date.Format("2006-01-02")]
	if !ok {
		return nil, ErrEntryNotFound
	}
	return &e, nil
}

func (m *mockRepository) List(ctx context.Context, from, to time.Time) ([]Entry, error) {
	var out []Entry
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if e, ok := m.entries[d.Format("2006-01-02")]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

type stubDirectory struct {
	ids []int64
	err error
}

func (s *stubDirectory) ActiveIDs(ctx context.Context) ([]int64, error) {
	return s.ids, s.err
}

type recordingNotifier struct {
	collections []string
}

func (n *recordingNotifier) Changed(ctx context.Context, collection string) {
	n.collections = append(n.collections, collection)
}

func newTestService(t *testing.T, repo Repository, dir Directory) (*Service, *ConfigStore, *recordingNotifier) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewConfigStore(client, time.UTC)
	notifier := &recordingNotifier{}
	svc := NewService(repo, store, dir, nil, notifier, time.UTC)
	return svc, store, notifier
}

func TestDraftReconcilesAgainstPersonnel(t *testing.T) {
	repo := newMockRepository()
	dir := &stubDirectory{ids: []int64{1, 3}}
	svc, store, _ := newTestService(t, repo, dir)
	ctx := context.Background()

	cfg := DefaultConfig()
	cfg.Teams[TeamAlpha] = []int64{1, 2, 3}
	require.NoError(t, store.SaveDraft(ctx, 5, cfg))

	draft, err := svc.Draft(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, draft.Teams[TeamAlpha])
}

func TestSaveDraftRejectsDuplicates(t *testing.T) {
	svc, _, _ := newTestService(t, newMockRepository(), &stubDirectory{})

	cfg := DefaultConfig()
	cfg.Teams[TeamAlpha] = []int64{1}
	cfg.Teams[TeamBravo] = []int64{1}

	err := svc.SaveDraft(context.Background(), 5, cfg)
	require.ErrorIs(t, err, ErrDuplicateMember)
}

func TestPublishUpsertsEntry(t *testing.T) {
	repo := newMockRepository()
	dir := &stubDirectory{ids: []int64{1, 2, 3, 4}}
	svc, store, notifier := newTestService(t, repo, dir)
	ctx := context.Background()

	cfg := DefaultConfig()
	cfg.StartDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	cfg.Teams[TeamBravo] = []int64{2, 3}
	require.NoError(t, store.SaveDraft(ctx, 9, cfg))

	entry, err := svc.Publish(ctx, 9, time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, TeamBravo, entry.TeamKey)
	assert.Equal(t, "Bravo", entry.TeamName)
	assert.Equal(t, []int64{2, 3}, entry.MemberIDs)
	assert.Equal(t, int64(9), entry.PublishedBy)
	assert.Equal(t, []string{"roster"}, notifier.collections)

	// Publishing again for the same date overwrites.
	cfg.Teams[TeamBravo] = []int64{4}
	require.NoError(t, store.SaveDraft(ctx, 9, cfg))
	entry, err = svc.Publish(ctx, 9, time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, entry.MemberIDs)

	stored, err := repo.Get(ctx, time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, stored.MemberIDs)
}

func TestPublishFailureLeavesDraftUntouched(t *testing.T) {
	repo := newMockRepository()
	repo.upsertError = errors.New("connection reset")
	dir := &stubDirectory{ids: []int64{1}}
	svc, store, notifier := newTestService(t, repo, dir)
	ctx := context.Background()

	cfg := DefaultConfig()
	cfg.Teams[TeamAlpha] = []int64{1}
	require.NoError(t, store.SaveDraft(ctx, 9, cfg))

	_, err := svc.Publish(ctx, 9, DefaultAnchor)
	require.Error(t, err)
	assert.Empty(t, notifier.collections)

	draft, err := svc.Draft(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, draft.Teams[TeamAlpha])
}

func TestPublishFromUnitWithoutConfigSkips(t *testing.T) {
	svc, _, _ := newTestService(t, newMockRepository(), &stubDirectory{})

	_, ok, err := svc.PublishFromUnit(context.Background(), DefaultAnchor)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPublishFromUnit(t *testing.T) {
	repo := newMockRepository()
	dir := &stubDirectory{ids: []int64{1, 2}}
	svc, store, _ := newTestService(t, repo, dir)
	ctx := context.Background()

	cfg := DefaultConfig()
	cfg.StartDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	cfg.Teams[TeamAlpha] = []int64{1, 2}
	require.NoError(t, store.SaveUnit(ctx, cfg))

	entry, ok, err := svc.PublishFromUnit(ctx, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, TeamAlpha, entry.TeamKey)
	assert.Equal(t, []int64{1, 2}, entry.MemberIDs)
}

func TestPromoteCopiesDraftToUnit(t *testing.T) {
	repo := newMockRepository()
	dir := &stubDirectory{ids: []int64{6}}
	svc, store, _ := newTestService(t, repo, dir)
	ctx := context.Background()

	cfg := DefaultConfig()
	cfg.Teams[TeamDelta] = []int64{6}
	require.NoError(t, store.SaveDraft(ctx, 4, cfg))

	_, err := svc.Promote(ctx, 4)
	require.NoError(t, err)

	unit, found, err := store.LoadUnit(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []int64{6}, unit.Teams[TeamDelta])
}
