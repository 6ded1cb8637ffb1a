package notices

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

type Service struct {
	repo     Repository
	audit    *shared.AuditLogger
	notifier Notifier
}

func NewService(repo Repository, audit *shared.AuditLogger, notifier Notifier) *Service {
	return &Service{repo: repo, audit: audit, notifier: notifier}
}

func (s *Service) Get(ctx context.Context, id int64) (*Notice, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListNoticesRequest) ([]Notice, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Pending(ctx context.Context, userID int64) ([]Notice, error) {
	return s.repo.PendingFor(ctx, userID)
}

func (s *Service) Create(ctx context.Context, req CreateNoticeRequest, authorID int64) (*Notice, error) {
	n := Notice{
		Title:     req.Title,
		Body:      req.Body,
		Pinned:    req.Pinned,
		ExpiresAt: req.ExpiresAt,
		AuthorID:  authorID,
	}
	id, err := s.repo.Create(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("create notice: %w", err)
	}
	n.ID = id
	s.recordAndNotify(ctx, authorID, "notices.create", id)
	return &n, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateNoticeRequest, actorID int64) (*Notice, error) {
	updates := make(map[string]any)
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Body != nil {
		updates["body"] = *req.Body
	}
	if req.Pinned != nil {
		updates["pinned"] = *req.Pinned
	}
	if req.ExpiresAt != nil {
		updates["expires_at"] = *req.ExpiresAt
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update notice: %w", err)
		}
		s.recordAndNotify(ctx, actorID, "notices.update", id)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64, actorID int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}
	s.recordAndNotify(ctx, actorID, "notices.delete", id)
	return nil
}

// Acknowledge marks the notice read by the user. Acknowledging is a reader
// action, not an edit: every member must be able to confirm they saw a
// notice.
func (s *Service) Acknowledge(ctx context.Context, noticeID, userID int64) error {
	if _, err := s.repo.Get(ctx, noticeID); err != nil {
		return err
	}
	if err := s.repo.Acknowledge(ctx, noticeID, userID); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.Changed(ctx, "notices")
	}
	return nil
}

func (s *Service) recordAndNotify(ctx context.Context, actorID int64, action string, id int64) {
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   action,
			Entity:   "notice",
			EntityID: strconv.FormatInt(id, 10),
		})
	}
	if s.notifier != nil {
		s.notifier.Changed(ctx, "notices")
	}
}
