package analysis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/araquari-cbm/stationhub/internal/observability"
	"github.com/araquari-cbm/stationhub/internal/platform/llm"
	"github.com/araquari-cbm/stationhub/internal/shared"
)

// Enqueuer hands an analysis off to the background queue.
type Enqueuer interface {
	EnqueueAnalysisRun(ctx context.Context, analysisID int64) error
}

// Notifier publishes collection-change notifications.
type Notifier interface {
	Changed(ctx context.Context, collection string)
}

type Service struct {
	repo      Repository
	generator llm.TextGenerator
	enqueuer  Enqueuer
	audit     *shared.AuditLogger
	notifier  Notifier
	metrics   *observability.Metrics
}

func NewService(repo Repository, generator llm.TextGenerator, enqueuer Enqueuer, audit *shared.AuditLogger, notifier Notifier, metrics *observability.Metrics) *Service {
	return &Service{repo: repo, generator: generator, enqueuer: enqueuer, audit: audit, notifier: notifier, metrics: metrics}
}

func (s *Service) Get(ctx context.Context, id int64) (*Analysis, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListAnalysesRequest) ([]Analysis, int, error) {
	return s.repo.List(ctx, req)
}

// Submit stores the document and questions and queues the run. The operator
// polls or receives a change notification when the result lands.
func (s *Service) Submit(ctx context.Context, req SubmitAnalysisRequest, requestedBy int64) (*Analysis, error) {
	a := Analysis{
		Title:        req.Title,
		DocumentText: req.DocumentText,
		Questions:    req.Questions,
		Status:       StatusQueued,
		RequestedBy:  requestedBy,
	}
	id, err := s.repo.Create(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("submit analysis: %w", err)
	}
	a.ID = id

	if err := s.enqueuer.EnqueueAnalysisRun(ctx, id); err != nil {
		// The row stays queued; the operator can resubmit.
		_ = s.repo.MarkFailed(ctx, id, "could not queue analysis")
		return nil, fmt.Errorf("enqueue analysis: %w", err)
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  requestedBy,
			Action:   "analysis.submit",
			Entity:   "document_analysis",
			EntityID: strconv.FormatInt(id, 10),
		})
	}
	s.notify(ctx)
	return &a, nil
}

// Run executes a queued analysis. Called from the worker; a failure is
// recorded on the row rather than retried, the operator resubmits manually.
func (s *Service) Run(ctx context.Context, id int64) error {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if a.Status != StatusQueued {
		return nil
	}
	if err := s.repo.MarkRunning(ctx, id); err != nil {
		return err
	}

	result, err := s.generator.Generate(ctx, buildPrompt(a))
	if err != nil {
		if markErr := s.repo.MarkFailed(ctx, id, err.Error()); markErr != nil {
			return markErr
		}
		s.metrics.AnalysisRun("failed")
		s.notify(ctx)
		return nil
	}
	if err := s.repo.MarkDone(ctx, id, result); err != nil {
		return err
	}
	s.metrics.AnalysisRun("done")
	s.notify(ctx)
	return nil
}

func buildPrompt(a *Analysis) string {
	var b strings.Builder
	b.WriteString("You are reviewing a fire-safety regulatory document for a fire department unit.\n")
	b.WriteString("Answer each question based only on the document text. Reply in Portuguese, one numbered answer per question.\n\n")
	b.WriteString("Questions:\n")
	for i, q := range a.Questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	b.WriteString("\nDocument:\n")
	b.WriteString(a.DocumentText)
	return b.String()
}

func (s *Service) notify(ctx context.Context) {
	if s.notifier != nil {
		s.notifier.Changed(ctx, "analysis")
	}
}
