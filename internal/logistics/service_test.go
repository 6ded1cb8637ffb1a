package logistics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	vehicles   map[int64]*Vehicle
	purchases  map[int64]*PurchaseRequest
	checklists []Checklist
	nextID     int64
}

func newStubRepository() *stubRepository {
	return &stubRepository{
		vehicles:  make(map[int64]*Vehicle),
		purchases: make(map[int64]*PurchaseRequest),
		nextID:    1,
	}
}

func (s *stubRepository) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *stubRepository) GetVehicle(_ context.Context, id int64) (*Vehicle, error) {
	v, ok := s.vehicles[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (s *stubRepository) ListVehicles(_ context.Context) ([]Vehicle, error) {
	out := make([]Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		out = append(out, *v)
	}
	return out, nil
}

func (s *stubRepository) CreateVehicle(_ context.Context, v Vehicle) (int64, error) {
	for _, existing := range s.vehicles {
		if existing.Callsign == v.Callsign {
			return 0, ErrAlreadyExists
		}
	}
	id := s.id()
	v.ID = id
	s.vehicles[id] = &v
	return id, nil
}

func (s *stubRepository) UpdateVehicle(_ context.Context, id int64, updates map[string]any) error {
	v, ok := s.vehicles[id]
	if !ok {
		return ErrNotFound
	}
	if st, ok := updates["status"]; ok {
		v.Status = st.(VehicleStatus)
	}
	if c, ok := updates["callsign"]; ok {
		v.Callsign = c.(string)
	}
	return nil
}

func (s *stubRepository) CreateChecklist(_ context.Context, c Checklist) (int64, error) {
	c.ID = s.id()
	s.checklists = append(s.checklists, c)
	return c.ID, nil
}

func (s *stubRepository) ListChecklists(_ context.Context, vehicleID int64, since time.Time) ([]Checklist, error) {
	var out []Checklist
	for _, c := range s.checklists {
		if c.VehicleID == vehicleID && !c.PerformedAt.Before(since) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubRepository) CreatePurchase(_ context.Context, p PurchaseRequest) (int64, error) {
	id := s.id()
	p.ID = id
	s.purchases[id] = &p
	return id, nil
}

func (s *stubRepository) GetPurchase(_ context.Context, id int64) (*PurchaseRequest, error) {
	p, ok := s.purchases[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *stubRepository) ListPurchases(_ context.Context, status *PurchaseStatus) ([]PurchaseRequest, error) {
	var out []PurchaseRequest
	for _, p := range s.purchases {
		if status == nil || p.Status == *status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubRepository) UpdatePurchaseStatus(_ context.Context, id int64, status PurchaseStatus) error {
	p, ok := s.purchases[id]
	if !ok {
		return ErrNotFound
	}
	p.Status = status
	return nil
}

func TestSubmitChecklistUnknownVehicle(t *testing.T) {
	svc := NewService(newStubRepository(), nil, nil)
	_, err := svc.SubmitChecklist(context.Background(), 99, SubmitChecklistRequest{
		Items: []ChecklistItem{{Label: "Tires", OK: true}},
	}, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitChecklist(t *testing.T) {
	repo := newStubRepository()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	v, err := svc.CreateVehicle(ctx, CreateVehicleRequest{Callsign: "ABT-01", Model: "Scania P360", Plate: "ABC1D23"}, 1)
	require.NoError(t, err)
	assert.Equal(t, VehicleInService, v.Status)

	c, err := svc.SubmitChecklist(ctx, v.ID, SubmitChecklistRequest{
		Items: []ChecklistItem{
			{Label: "Tires", OK: true},
			{Label: "Pump", OK: false, Note: "pressure drop"},
		},
	}, 5)
	require.NoError(t, err)
	assert.Equal(t, v.ID, c.VehicleID)
	assert.Len(t, c.Items, 2)

	got, err := svc.Checklists(ctx, v.ID, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestPurchaseLifecycle(t *testing.T) {
	repo := newStubRepository()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	p, err := svc.CreatePurchase(ctx, CreatePurchaseRequest{Item: "Fire hose 38mm", Quantity: 4}, 2)
	require.NoError(t, err)
	assert.Equal(t, PurchaseRequested, p.Status)

	ordered, err := svc.UpdatePurchaseStatus(ctx, p.ID, PurchaseOrdered, 2)
	require.NoError(t, err)
	assert.Equal(t, PurchaseOrdered, ordered.Status)

	received, err := svc.UpdatePurchaseStatus(ctx, p.ID, PurchaseReceived, 2)
	require.NoError(t, err)
	assert.Equal(t, PurchaseReceived, received.Status)
}

func TestPurchaseTransitionRejected(t *testing.T) {
	repo := newStubRepository()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	p, err := svc.CreatePurchase(ctx, CreatePurchaseRequest{Item: "Helmet", Quantity: 10}, 2)
	require.NoError(t, err)

	_, err = svc.UpdatePurchaseStatus(ctx, p.ID, PurchaseReceived, 2)
	var invalid *ErrInvalidPurchaseTransition
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, PurchaseRequested, invalid.From)

	_, err = svc.UpdatePurchaseStatus(ctx, p.ID, PurchaseStatus("bogus"), 2)
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestVehicleStatusValidation(t *testing.T) {
	repo := newStubRepository()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	v, err := svc.CreateVehicle(ctx, CreateVehicleRequest{Callsign: "ABT-01", Model: "Scania", Plate: "ABC1D23"}, 1)
	require.NoError(t, err)

	bad := VehicleStatus("flying")
	_, err = svc.UpdateVehicle(ctx, v.ID, UpdateVehicleRequest{Status: &bad}, 1)
	assert.ErrorIs(t, err, ErrUnknownStatus)

	maint := VehicleMaintenance
	updated, err := svc.UpdateVehicle(ctx, v.ID, UpdateVehicleRequest{Status: &maint}, 1)
	require.NoError(t, err)
	assert.Equal(t, VehicleMaintenance, updated.Status)
}
