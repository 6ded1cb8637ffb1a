package personnel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	records   map[int64]*Firefighter
	nextID    int64
	createErr error
	updates   map[int64]map[string]any
}

func newStubRepository() *stubRepository {
	return &stubRepository{
		records: make(map[int64]*Firefighter),
		nextID:  1,
		updates: make(map[int64]map[string]any),
	}
}

func (s *stubRepository) Get(_ context.Context, id int64) (*Firefighter, error) {
	f, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *f
	return &copied, nil
}

func (s *stubRepository) List(_ context.Context, _ ListFirefightersRequest) ([]Firefighter, int, error) {
	out := make([]Firefighter, 0, len(s.records))
	for _, f := range s.records {
		out = append(out, *f)
	}
	return out, len(out), nil
}

func (s *stubRepository) ActiveIDs(_ context.Context) ([]int64, error) {
	var ids []int64
	for id, f := range s.records {
		if f.IsActive {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *stubRepository) Create(_ context.Context, f Firefighter) (int64, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	for _, existing := range s.records {
		if existing.RegistrationNumber == f.RegistrationNumber {
			return 0, ErrAlreadyExists
		}
	}
	id := s.nextID
	s.nextID++
	f.ID = id
	s.records[id] = &f
	return id, nil
}

func (s *stubRepository) Update(_ context.Context, id int64, updates map[string]any) error {
	f, ok := s.records[id]
	if !ok {
		return ErrNotFound
	}
	s.updates[id] = updates
	if v, ok := updates["name"]; ok {
		f.Name = v.(string)
	}
	if v, ok := updates["rank"]; ok {
		f.Rank = v.(string)
	}
	if v, ok := updates["is_active"]; ok {
		f.IsActive = v.(bool)
	}
	return nil
}

type recordingNotifier struct {
	collections []string
}

func (n *recordingNotifier) Changed(_ context.Context, collection string) {
	n.collections = append(n.collections, collection)
}

func TestServiceCreate(t *testing.T) {
	repo := newStubRepository()
	notifier := &recordingNotifier{}
	svc := NewService(repo, nil, notifier)

	created, err := svc.Create(context.Background(), CreateFirefighterRequest{
		Name:               "Ana Souza",
		Rank:               "Sergeant",
		RegistrationNumber: "RG-100",
	}, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.True(t, created.IsActive)
	assert.Equal(t, []string{"personnel"}, notifier.collections)
}

func TestServiceCreateDuplicateRegistration(t *testing.T) {
	repo := newStubRepository()
	svc := NewService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateFirefighterRequest{
		Name:               "Ana Souza",
		Rank:               "Sergeant",
		RegistrationNumber: "RG-100",
	}, 7)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateFirefighterRequest{
		Name:               "Outro Nome",
		Rank:               "Corporal",
		RegistrationNumber: "RG-100",
	}, 7)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestServiceUpdatePartial(t *testing.T) {
	repo := newStubRepository()
	notifier := &recordingNotifier{}
	svc := NewService(repo, nil, notifier)

	created, err := svc.Create(context.Background(), CreateFirefighterRequest{
		Name:               "Ana Souza",
		Rank:               "Sergeant",
		RegistrationNumber: "RG-100",
	}, 7)
	require.NoError(t, err)

	newRank := "Lieutenant"
	updated, err := svc.Update(context.Background(), created.ID, UpdateFirefighterRequest{Rank: &newRank}, 7)
	require.NoError(t, err)
	assert.Equal(t, "Lieutenant", updated.Rank)
	assert.Equal(t, "Ana Souza", updated.Name, "untouched fields keep their values")
	assert.Equal(t, map[string]any{"rank": "Lieutenant"}, repo.updates[created.ID])
}

func TestServiceUpdateNoFieldsSkipsWrite(t *testing.T) {
	repo := newStubRepository()
	notifier := &recordingNotifier{}
	svc := NewService(repo, nil, notifier)

	created, err := svc.Create(context.Background(), CreateFirefighterRequest{
		Name:               "Ana Souza",
		Rank:               "Sergeant",
		RegistrationNumber: "RG-100",
	}, 7)
	require.NoError(t, err)
	notifier.collections = nil

	_, err = svc.Update(context.Background(), created.ID, UpdateFirefighterRequest{}, 7)
	require.NoError(t, err)
	assert.Empty(t, repo.updates)
	assert.Empty(t, notifier.collections)
}

func TestServiceDeactivate(t *testing.T) {
	repo := newStubRepository()
	svc := NewService(repo, nil, nil)

	created, err := svc.Create(context.Background(), CreateFirefighterRequest{
		Name:               "Ana Souza",
		Rank:               "Sergeant",
		RegistrationNumber: "RG-100",
	}, 7)
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), created.ID, 7))

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	ids, err := svc.ActiveIDs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestServiceDeactivateMissing(t *testing.T) {
	svc := NewService(newStubRepository(), nil, nil)
	err := svc.Deactivate(context.Background(), 99, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}
