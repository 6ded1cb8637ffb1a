package logistics

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/araquari-cbm/stationhub/internal/shared"
)

// ErrUnknownStatus rejects a status value outside the fixed sets.
var ErrUnknownStatus = errors.New("logistics: unknown status")

// purchaseTransitions: requested may be ordered or denied, ordered may be
// received. Received and denied are terminal.
var purchaseTransitions = map[PurchaseStatus][]PurchaseStatus{
	PurchaseRequested: {PurchaseOrdered, PurchaseDenied},
	PurchaseOrdered:   {PurchaseReceived},
}

// ErrInvalidPurchaseTransition rejects an out-of-order purchase status move.
type ErrInvalidPurchaseTransition struct {
	From, To PurchaseStatus
}

func (e *ErrInvalidPurchaseTransition) Error() string {
	return fmt.Sprintf("logistics: cannot move purchase from %s to %s", e.From, e.To)
}

// Notifier publishes collection-change notifications.
type Notifier interface {
	Changed(ctx context.Context, collection string)
}

type Service struct {
	repo     Repository
	audit    *shared.AuditLogger
	notifier Notifier
}

func NewService(repo Repository, audit *shared.AuditLogger, notifier Notifier) *Service {
	return &Service{repo: repo, audit: audit, notifier: notifier}
}

func (s *Service) Vehicle(ctx context.Context, id int64) (*Vehicle, error) {
	return s.repo.GetVehicle(ctx, id)
}

func (s *Service) Vehicles(ctx context.Context) ([]Vehicle, error) {
	return s.repo.ListVehicles(ctx)
}

func (s *Service) CreateVehicle(ctx context.Context, req CreateVehicleRequest, actorID int64) (*Vehicle, error) {
	v := Vehicle{
		Callsign: req.Callsign,
		Model:    req.Model,
		Plate:    req.Plate,
		Status:   VehicleInService,
	}
	id, err := s.repo.CreateVehicle(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("create vehicle: %w", err)
	}
	v.ID = id
	s.recordAndNotify(ctx, actorID, "logistics.vehicle.create", "vehicle", id)
	return &v, nil
}

func (s *Service) UpdateVehicle(ctx context.Context, id int64, req UpdateVehicleRequest, actorID int64) (*Vehicle, error) {
	updates := make(map[string]any)
	if req.Callsign != nil {
		updates["callsign"] = *req.Callsign
	}
	if req.Model != nil {
		updates["model"] = *req.Model
	}
	if req.Plate != nil {
		updates["plate"] = *req.Plate
	}
	if req.Status != nil {
		if !ValidVehicleStatus(*req.Status) {
			return nil, ErrUnknownStatus
		}
		updates["status"] = *req.Status
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateVehicle(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update vehicle: %w", err)
		}
		s.recordAndNotify(ctx, actorID, "logistics.vehicle.update", "vehicle", id)
	}
	return s.repo.GetVehicle(ctx, id)
}

// SubmitChecklist records a daily inspection for a vehicle.
func (s *Service) SubmitChecklist(ctx context.Context, vehicleID int64, req SubmitChecklistRequest, performedBy int64) (*Checklist, error) {
	if _, err := s.repo.GetVehicle(ctx, vehicleID); err != nil {
		return nil, err
	}
	c := Checklist{
		VehicleID:   vehicleID,
		PerformedBy: performedBy,
		Items:       req.Items,
		PerformedAt: time.Now(),
	}
	id, err := s.repo.CreateChecklist(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("submit checklist: %w", err)
	}
	c.ID = id
	s.recordAndNotify(ctx, performedBy, "logistics.checklist.submit", "checklist", id)
	return &c, nil
}

func (s *Service) Checklists(ctx context.Context, vehicleID int64, since time.Time) ([]Checklist, error) {
	return s.repo.ListChecklists(ctx, vehicleID, since)
}

func (s *Service) CreatePurchase(ctx context.Context, req CreatePurchaseRequest, requestedBy int64) (*PurchaseRequest, error) {
	p := PurchaseRequest{
		Item:        req.Item,
		Quantity:    req.Quantity,
		Status:      PurchaseRequested,
		RequestedBy: requestedBy,
	}
	id, err := s.repo.CreatePurchase(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create purchase: %w", err)
	}
	p.ID = id
	s.recordAndNotify(ctx, requestedBy, "logistics.purchase.create", "purchase_request", id)
	return &p, nil
}

func (s *Service) Purchases(ctx context.Context, status *PurchaseStatus) ([]PurchaseRequest, error) {
	return s.repo.ListPurchases(ctx, status)
}

func (s *Service) UpdatePurchaseStatus(ctx context.Context, id int64, status PurchaseStatus, actorID int64) (*PurchaseRequest, error) {
	if !ValidPurchaseStatus(status) {
		return nil, ErrUnknownStatus
	}
	current, err := s.repo.GetPurchase(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canPurchaseTransition(current.Status, status) {
		return nil, &ErrInvalidPurchaseTransition{From: current.Status, To: status}
	}
	if err := s.repo.UpdatePurchaseStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update purchase status: %w", err)
	}
	s.recordAndNotify(ctx, actorID, "logistics.purchase.status", "purchase_request", id)
	return s.repo.GetPurchase(ctx, id)
}

func canPurchaseTransition(from, to PurchaseStatus) bool {
	for _, allowed := range purchaseTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *Service) recordAndNotify(ctx context.Context, actorID int64, action, entity string, id int64) {
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   action,
			Entity:   entity,
			EntityID: strconv.FormatInt(id, 10),
		})
	}
	if s.notifier != nil {
		s.notifier.Changed(ctx, "logistics")
	}
}
