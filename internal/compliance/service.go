package compliance

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/araquari-cbm/stationhub/internal/shared"
)

// ErrScheduleDateRequired rejects a move to scheduled without a date.
var ErrScheduleDateRequired = errors.New("compliance: scheduling requires a date")

// ErrInvalidTransition rejects a status change the workflow does not allow.
type ErrInvalidTransition struct {
	From, To Status
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("compliance: cannot move inspection from %s to %s", e.From, e.To)
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

func (s *Service) Get(ctx context.Context, id int64) (*Inspection, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListInspectionsRequest) ([]Inspection, int, error) {
	return s.repo.List(ctx, req)
}

// Create opens a new inspection in the pending stage.
func (s *Service) Create(ctx context.Context, req CreateInspectionRequest, createdBy int64) (*Inspection, error) {
	i := Inspection{
		PropertyName: req.PropertyName,
		Address:      req.Address,
		Status:       StatusPending,
		Notes:        req.Notes,
		CreatedBy:    createdBy,
	}
	id, err := s.repo.Create(ctx, i)
	if err != nil {
		return nil, fmt.Errorf("create inspection: %w", err)
	}
	i.ID = id
	s.recordAndNotify(ctx, createdBy, "compliance.create", id, nil)
	return &i, nil
}

// Update edits descriptive fields without touching the workflow status.
func (s *Service) Update(ctx context.Context, id int64, req UpdateInspectionRequest, actorID int64) (*Inspection, error) {
	updates := make(map[string]any)
	if req.PropertyName != nil {
		updates["property_name"] = *req.PropertyName
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update inspection: %w", err)
		}
		s.recordAndNotify(ctx, actorID, "compliance.update", id, nil)
	}
	return s.repo.Get(ctx, id)
}

// Transition moves an inspection through the workflow. Scheduling requires a
// date; the inspected stage records the inspector.
func (s *Service) Transition(ctx context.Context, id int64, req TransitionRequest, actorID int64) (*Inspection, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ValidStatus(req.Status) || !CanTransition(current.Status, req.Status) {
		return nil, &ErrInvalidTransition{From: current.Status, To: req.Status}
	}

	updates := map[string]any{"status": req.Status}
	if req.Status == StatusScheduled {
		if req.ScheduledFor == nil {
			return nil, ErrScheduleDateRequired
		}
		updates["scheduled_for"] = *req.ScheduledFor
	}
	if req.Status == StatusInspected && req.InspectorID != nil {
		updates["inspector_id"] = *req.InspectorID
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("transition inspection: %w", err)
	}
	s.recordAndNotify(ctx, actorID, "compliance.transition", id, map[string]any{
		"from": string(current.Status),
		"to":   string(req.Status),
	})
	return s.repo.Get(ctx, id)
}

func (s *Service) recordAndNotify(ctx context.Context, actorID int64, action string, id int64, meta map[string]any) {
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   action,
			Entity:   "inspection",
			EntityID: strconv.FormatInt(id, 10),
			Meta:     meta,
		})
	}
	if s.notifier != nil {
		s.notifier.Changed(ctx, "compliance")
	}
}
