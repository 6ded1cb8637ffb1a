package instruction

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

func (s *Service) Get(ctx context.Context, id int64) (*Material, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListMaterialsRequest) ([]Material, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Create(ctx context.Context, req CreateMaterialRequest, uploadedBy int64) (*Material, error) {
	m := Material{
		Title:         req.Title,
		Category:      req.Category,
		Description:   req.Description,
		AttachmentURL: req.AttachmentURL,
		Checksum:      req.Checksum,
		UploadedBy:    uploadedBy,
	}
	id, err := s.repo.Create(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("create material: %w", err)
	}
	m.ID = id
	s.recordAndNotify(ctx, uploadedBy, "instruction.create", id)
	return &m, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateMaterialRequest, actorID int64) (*Material, error) {
	updates := make(map[string]any)
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.AttachmentURL != nil {
		updates["attachment_url"] = *req.AttachmentURL
	}
	if req.Checksum != nil {
		updates["checksum"] = *req.Checksum
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update material: %w", err)
		}
		s.recordAndNotify(ctx, actorID, "instruction.update", id)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64, actorID int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	s.recordAndNotify(ctx, actorID, "instruction.delete", id)
	return nil
}

func (s *Service) recordAndNotify(ctx context.Context, actorID int64, action string, id int64) {
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   action,
			Entity:   "training_material",
			EntityID: strconv.FormatInt(id, 10),
		})
	}
	if s.notifier != nil {
		s.notifier.Changed(ctx, "instruction")
	}
}
