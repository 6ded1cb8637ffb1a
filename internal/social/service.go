package social

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/araquari-cbm/stationhub/internal/platform/llm"
	"github.com/araquari-cbm/stationhub/internal/shared"
)

var (
	// ErrAlreadyPublished rejects edits to a post after publication.
	ErrAlreadyPublished = errors.New("social: post already published")
	// ErrCaptionUnavailable signals the caption generator is not configured.
	ErrCaptionUnavailable = errors.New("social: caption generation not configured")
)

// Notifier publishes collection-change notifications.
type Notifier interface {
	Changed(ctx context.Context, collection string)
}

type Service struct {
	repo      Repository
	generator llm.TextGenerator
	audit     *shared.AuditLogger
	notifier  Notifier
}

// NewService constructs a Service. generator may be nil, in which case
// caption suggestions return ErrCaptionUnavailable.
func NewService(repo Repository, generator llm.TextGenerator, audit *shared.AuditLogger, notifier Notifier) *Service {
	return &Service{repo: repo, generator: generator, audit: audit, notifier: notifier}
}

func (s *Service) Get(ctx context.Context, id int64) (*Post, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListPostsRequest) ([]Post, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Create(ctx context.Context, req CreatePostRequest, createdBy int64) (*Post, error) {
	p := Post{
		Title:     req.Title,
		Body:      req.Body,
		Caption:   req.Caption,
		ImageURL:  req.ImageURL,
		Status:    PostDraft,
		CreatedBy: createdBy,
	}
	id, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	p.ID = id
	s.recordAndNotify(ctx, createdBy, "social.create", id)
	return &p, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdatePostRequest, actorID int64) (*Post, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == PostPublished {
		return nil, ErrAlreadyPublished
	}

	updates := make(map[string]any)
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Body != nil {
		updates["body"] = *req.Body
	}
	if req.Caption != nil {
		updates["caption"] = *req.Caption
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update post: %w", err)
		}
		s.recordAndNotify(ctx, actorID, "social.update", id)
	}
	return s.repo.Get(ctx, id)
}

// MarkPublished records that the draft went out on the unit's channels.
func (s *Service) MarkPublished(ctx context.Context, id int64, actorID int64) (*Post, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == PostPublished {
		return nil, ErrAlreadyPublished
	}
	if err := s.repo.Update(ctx, id, map[string]any{"status": PostPublished}); err != nil {
		return nil, fmt.Errorf("publish post: %w", err)
	}
	s.recordAndNotify(ctx, actorID, "social.publish", id)
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64, actorID int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	s.recordAndNotify(ctx, actorID, "social.delete", id)
	return nil
}

// SuggestCaption asks the LLM for a short caption on the given topic. The
// result is returned to the operator for review, never written to a post
// directly.
func (s *Service) SuggestCaption(ctx context.Context, req SuggestCaptionRequest) (string, error) {
	if s.generator == nil {
		return "", ErrCaptionUnavailable
	}
	tone := req.Tone
	if tone == "" {
		tone = "institutional and warm"
	}
	prompt := fmt.Sprintf(
		"Write a short social media caption for a fire department page.\nTopic: %s\nTone: %s\nReply with the caption text only, in Portuguese, under 280 characters.",
		req.Topic, tone,
	)
	caption, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("suggest caption: %w", err)
	}
	return strings.TrimSpace(caption), nil
}

func (s *Service) recordAndNotify(ctx context.Context, actorID int64, action string, id int64) {
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   action,
			Entity:   "social_post",
			EntityID: strconv.FormatInt(id, 10),
		})
	}
	if s.notifier != nil {
		s.notifier.Changed(ctx, "social")
	}
}
