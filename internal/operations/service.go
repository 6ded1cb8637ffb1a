package operations

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/araquari-cbm/stationhub/internal/shared"
)

// ErrEndsBeforeStart rejects an occurrence whose end precedes its start.
var ErrEndsBeforeStart = errors.New("operations: ended_at precedes started_at")

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

func (s *Service) Get(ctx context.Context, id int64) (*Occurrence, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListOccurrencesRequest) ([]Occurrence, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Create(ctx context.Context, req CreateOccurrenceRequest, createdBy int64) (*Occurrence, error) {
	if req.EndedAt != nil && req.EndedAt.Before(req.StartedAt) {
		return nil, ErrEndsBeforeStart
	}
	o := Occurrence{
		Type:       req.Type,
		Address:    req.Address,
		Narrative:  req.Narrative,
		VehicleIDs: req.VehicleIDs,
		CrewIDs:    req.CrewIDs,
		StartedAt:  req.StartedAt,
		EndedAt:    req.EndedAt,
		CreatedBy:  createdBy,
	}
	id, err := s.repo.Create(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("create occurrence: %w", err)
	}
	o.ID = id
	s.recordAndNotify(ctx, createdBy, "operations.create", id)
	return &o, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateOccurrenceRequest, actorID int64) (*Occurrence, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.EndedAt != nil && req.EndedAt.Before(current.StartedAt) {
		return nil, ErrEndsBeforeStart
	}

	updates := make(map[string]any)
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Narrative != nil {
		updates["narrative"] = *req.Narrative
	}
	if req.VehicleIDs != nil {
		updates["vehicle_ids"] = req.VehicleIDs
	}
	if req.CrewIDs != nil {
		updates["crew_ids"] = req.CrewIDs
	}
	if req.EndedAt != nil {
		updates["ended_at"] = *req.EndedAt
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update occurrence: %w", err)
		}
		s.recordAndNotify(ctx, actorID, "operations.update", id)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64, actorID int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete occurrence: %w", err)
	}
	s.recordAndNotify(ctx, actorID, "operations.delete", id)
	return nil
}

func (s *Service) recordAndNotify(ctx context.Context, actorID int64, action string, id int64) {
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   action,
			Entity:   "occurrence",
			EntityID: strconv.FormatInt(id, 10),
		})
	}
	if s.notifier != nil {
		s.notifier.Changed(ctx, "operations")
	}
}
