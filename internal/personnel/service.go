package personnel

import (
	"context"
	"fmt"
	"strconv"

	"github.com/araquari-cbm/stationhub/internal/shared"
)

// Notifier publishes collection-change notifications.
type Notifier interface {
	Changed(ctx context.Context, collection string)
}

// Service holds personnel business rules.
type Service struct {
	repo     Repository
	audit    *shared.AuditLogger
	notifier Notifier
}

// NewService constructs a Service.
func NewService(repo Repository, audit *shared.AuditLogger, notifier Notifier) *Service {
	return &Service{repo: repo, audit: audit, notifier: notifier}
}

// Get fetches a single record.
func (s *Service) Get(ctx context.Context, id int64) (*Firefighter, error) {
	return s.repo.Get(ctx, id)
}

// List returns records matching the filters.
func (s *Service) List(ctx context.Context, req ListFirefightersRequest) ([]Firefighter, int, error) {
	return s.repo.List(ctx, req)
}

// ActiveIDs satisfies roster.Directory.
func (s *Service) ActiveIDs(ctx context.Context) ([]int64, error) {
	return s.repo.ActiveIDs(ctx)
}

// Create registers a new firefighter.
func (s *Service) Create(ctx context.Context, req CreateFirefighterRequest, createdBy int64) (*Firefighter, error) {
	f := Firefighter{
		Name:               req.Name,
		Rank:               req.Rank,
		RegistrationNumber: req.RegistrationNumber,
		Email:              req.Email,
		Phone:              req.Phone,
		IsActive:           true,
	}
	id, err := s.repo.Create(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("create firefighter: %w", err)
	}
	f.ID = id
	s.recordAndNotify(ctx, createdBy, "personnel.create", id)
	return &f, nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id int64, req UpdateFirefighterRequest, updatedBy int64) (*Firefighter, error) {
	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Rank != nil {
		updates["rank"] = *req.Rank
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update firefighter: %w", err)
		}
		s.recordAndNotify(ctx, updatedBy, "personnel.update", id)
	}
	return s.repo.Get(ctx, id)
}

// Deactivate flags a firefighter inactive. Roster drafts drop the reference
// on their next load.
func (s *Service) Deactivate(ctx context.Context, id int64, actorID int64) error {
	if err := s.repo.Update(ctx, id, map[string]any{"is_active": false}); err != nil {
		return fmt.Errorf("deactivate firefighter: %w", err)
	}
	s.recordAndNotify(ctx, actorID, "personnel.deactivate", id)
	return nil
}

func (s *Service) recordAndNotify(ctx context.Context, actorID int64, action string, id int64) {
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   action,
			Entity:   "firefighter",
			EntityID: strconv.FormatInt(id, 10),
		})
	}
	if s.notifier != nil {
		s.notifier.Changed(ctx, "personnel")
	}
}
