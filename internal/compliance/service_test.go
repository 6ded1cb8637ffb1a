package compliance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	records map[int64]*Inspection
	nextID  int64
}

func newStubRepository() *stubRepository {
	return &stubRepository{records: make(map[int64]*Inspection), nextID: 1}
}

func (s *stubRepository) Get(_ context.Context, id int64) (*Inspection, error) {
	i, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *i
	return &copied, nil
}

func (s *stubRepository) List(_ context.Context, _ ListInspectionsRequest) ([]Inspection, int, error) {
	out := make([]Inspection, 0, len(s.records))
	for _, i := range s.records {
		out = append(out, *i)
	}
	return out, len(out), nil
}

func (s *stubRepository) Create(_ context.Context, i Inspection) (int64, error) {
	id := s.nextID
	s.nextID++
	i.ID = id
	s.records[id] = &i
	return id, nil
}

func (s *stubRepository) Update(_ context.Context, id int64, updates map[string]any) error {
	i, ok := s.records[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["status"]; ok {
		i.Status = v.(Status)
	}
	if v, ok := updates["scheduled_for"]; ok {
		t := v.(time.Time)
		i.ScheduledFor = &t
	}
	if v, ok := updates["inspector_id"]; ok {
		inspector := v.(int64)
		i.InspectorID = &inspector
	}
	if v, ok := updates["notes"]; ok {
		i.Notes = v.(string)
	}
	return nil
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusScheduled},
		{StatusScheduled, StatusInspected},
		{StatusScheduled, StatusPending},
		{StatusInspected, StatusApproved},
		{StatusInspected, StatusRejected},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct{ from, to Status }{
		{StatusPending, StatusApproved},
		{StatusPending, StatusInspected},
		{StatusApproved, StatusPending},
		{StatusRejected, StatusInspected},
		{StatusApproved, StatusRejected},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestServiceWorkflow(t *testing.T) {
	repo := newStubRepository()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInspectionRequest{
		PropertyName: "Mercado Central",
		Address:      "Rua XV, 120",
	}, 3)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, created.Status)

	when := time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)
	scheduled, err := svc.Transition(ctx, created.ID, TransitionRequest{
		Status:       StatusScheduled,
		ScheduledFor: &when,
	}, 3)
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, scheduled.Status)
	require.NotNil(t, scheduled.ScheduledFor)
	assert.True(t, scheduled.ScheduledFor.Equal(when))

	inspector := int64(42)
	inspected, err := svc.Transition(ctx, created.ID, TransitionRequest{
		Status:      StatusInspected,
		InspectorID: &inspector,
	}, 3)
	require.NoError(t, err)
	assert.Equal(t, StatusInspected, inspected.Status)

	approved, err := svc.Transition(ctx, created.ID, TransitionRequest{Status: StatusApproved}, 3)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
}

func TestServiceTransitionRejectsSkip(t *testing.T) {
	repo := newStubRepository()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInspectionRequest{
		PropertyName: "Mercado Central",
		Address:      "Rua XV, 120",
	}, 3)
	require.NoError(t, err)

	_, err = svc.Transition(ctx, created.ID, TransitionRequest{Status: StatusApproved}, 3)
	var invalid *ErrInvalidTransition
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, StatusPending, invalid.From)
	assert.Equal(t, StatusApproved, invalid.To)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status, "failed transition leaves the record untouched")
}

func TestServiceTransitionTerminal(t *testing.T) {
	repo := newStubRepository()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInspectionRequest{
		PropertyName: "Padaria Sul",
		Address:      "Av. Brasil, 9",
	}, 3)
	require.NoError(t, err)

	when := time.Now()
	_, err = svc.Transition(ctx, created.ID, TransitionRequest{Status: StatusScheduled, ScheduledFor: &when}, 3)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, created.ID, TransitionRequest{Status: StatusInspected}, 3)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, created.ID, TransitionRequest{Status: StatusRejected}, 3)
	require.NoError(t, err)

	_, err = svc.Transition(ctx, created.ID, TransitionRequest{Status: StatusPending}, 3)
	var invalid *ErrInvalidTransition
	assert.ErrorAs(t, err, &invalid)
}

func TestServiceScheduleRequiresDate(t *testing.T) {
	repo := newStubRepository()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInspectionRequest{
		PropertyName: "Padaria Sul",
		Address:      "Av. Brasil, 9",
	}, 3)
	require.NoError(t, err)

	_, err = svc.Transition(ctx, created.ID, TransitionRequest{Status: StatusScheduled}, 3)
	assert.ErrorIs(t, err, ErrScheduleDateRequired)
}
