package access

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/araquari-cbm/stationhub/internal/shared"
)

// Service orchestrates profile reads and manager-driven updates.
type Service struct {
	repo  Repository
	audit *shared.AuditLogger
}

// NewService constructs a Service.
func NewService(repo Repository, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// Profile resolves the effective profile for a user. A user without a stored
// row gets the default all-none profile rather than an error, so a missing
// record always fails closed instead of failing open or loud.
func (s *Service) Profile(ctx context.Context, userID int64) (*Profile, error) {
	profile, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return DefaultProfile(userID), nil
		}
		return nil, fmt.Errorf("resolve profile: %w", err)
	}
	return profile, nil
}

// List returns all stored profiles.
func (s *Service) List(ctx context.Context) ([]Profile, error) {
	return s.repo.List(ctx)
}

// Update replaces a user's profile. Caller must already be authorized as a
// manager; the actor is recorded in the audit log.
func (s *Service) Update(ctx context.Context, actorID int64, profile Profile) (*Profile, error) {
	if profile.UserID <= 0 {
		return nil, errors.New("access: user id required")
	}
	normalized := DefaultProfile(profile.UserID)
	normalized.Manager = profile.Manager
	for _, m := range Modules {
		normalized.Levels[m] = ParseLevel(string(profile.Level(m)))
	}

	if err := s.repo.Upsert(ctx, *normalized); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if s.audit != nil {
		meta := map[string]any{"manager": normalized.Manager}
		for _, m := range Modules {
			meta[string(m)] = string(normalized.Levels[m])
		}
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "access.profile.update",
			Entity:   "access_profile",
			EntityID: strconv.FormatInt(normalized.UserID, 10),
			Meta:     meta,
		})
	}

	return normalized, nil
}
