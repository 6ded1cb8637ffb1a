package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	records map[int64]*Analysis
	nextID  int64
}

func newStubRepository() *stubRepository {
	return &stubRepository{records: make(map[int64]*Analysis), nextID: 1}
}

func (s *stubRepository) Get(_ context.Context, id int64) (*Analysis, error) {
	a, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (s *stubRepository) List(_ context.Context, _ ListAnalysesRequest) ([]Analysis, int, error) {
	out := make([]Analysis, 0, len(s.records))
	for _, a := range s.records {
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (s *stubRepository) Create(_ context.Context, a Analysis) (int64, error) {
	id := s.nextID
	s.nextID++
	a.ID = id
	s.records[id] = &a
	return id, nil
}

func (s *stubRepository) MarkRunning(_ context.Context, id int64) error {
	a, ok := s.records[id]
	if !ok || a.Status != StatusQueued {
		return ErrNotFound
	}
	a.Status = StatusRunning
	return nil
}

func (s *stubRepository) MarkDone(_ context.Context, id int64, result string) error {
	a, ok := s.records[id]
	if !ok {
		return ErrNotFound
	}
	now := time.Now()
	a.Status = StatusDone
	a.Result = result
	a.Error = ""
	a.CompletedAt = &now
	return nil
}

func (s *stubRepository) MarkFailed(_ context.Context, id int64, errMsg string) error {
	a, ok := s.records[id]
	if !ok {
		return ErrNotFound
	}
	now := time.Now()
	a.Status = StatusFailed
	a.Error = errMsg
	a.CompletedAt = &now
	return nil
}

type stubGenerator struct {
	reply  string
	err    error
	prompt string
	calls  int
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls++
	g.prompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

type stubEnqueuer struct {
	ids []int64
	err error
}

func (e *stubEnqueuer) EnqueueAnalysisRun(_ context.Context, id int64) error {
	if e.err != nil {
		return e.err
	}
	e.ids = append(e.ids, id)
	return nil
}

func submitRequest() SubmitAnalysisRequest {
	return SubmitAnalysisRequest{
		Title:        "NPT 011 review",
		DocumentText: "Saídas de emergência devem ter largura mínima de 1,2m...",
		Questions:    []string{"What is the minimum exit width?", "Does it apply to existing buildings?"},
	}
}

func TestSubmitQueuesRun(t *testing.T) {
	repo := newStubRepository()
	enq := &stubEnqueuer{}
	svc := NewService(repo, &stubGenerator{}, enq, nil, nil, nil)

	a, err := svc.Submit(context.Background(), submitRequest(), 9)
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, a.Status)
	assert.Equal(t, []int64{a.ID}, enq.ids)
}

func TestSubmitEnqueueFailure(t *testing.T) {
	repo := newStubRepository()
	enq := &stubEnqueuer{err: errors.New("redis down")}
	svc := NewService(repo, &stubGenerator{}, enq, nil, nil, nil)

	_, err := svc.Submit(context.Background(), submitRequest(), 9)
	require.Error(t, err)

	stored, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, stored.Status)
}

func TestRunCompletes(t *testing.T) {
	repo := newStubRepository()
	gen := &stubGenerator{reply: "1. 1,2m\n2. Sim, com ressalvas."}
	enq := &stubEnqueuer{}
	svc := NewService(repo, gen, enq, nil, nil, nil)
	ctx := context.Background()

	a, err := svc.Submit(ctx, submitRequest(), 9)
	require.NoError(t, err)

	require.NoError(t, svc.Run(ctx, a.ID))

	done, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, done.Status)
	assert.Equal(t, gen.reply, done.Result)
	require.NotNil(t, done.CompletedAt)

	assert.Contains(t, gen.prompt, "minimum exit width")
	assert.Contains(t, gen.prompt, "Saídas de emergência")
}

func TestRunRecordsFailure(t *testing.T) {
	repo := newStubRepository()
	gen := &stubGenerator{err: errors.New("model overloaded")}
	svc := NewService(repo, gen, &stubEnqueuer{}, nil, nil, nil)
	ctx := context.Background()

	a, err := svc.Submit(ctx, submitRequest(), 9)
	require.NoError(t, err)

	// A generation failure is terminal, not a task error: asynq must not
	// retry it.
	require.NoError(t, svc.Run(ctx, a.ID))

	failed, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, "model overloaded", failed.Error)
}

func TestRunSkipsNonQueued(t *testing.T) {
	repo := newStubRepository()
	gen := &stubGenerator{reply: "answer"}
	svc := NewService(repo, gen, &stubEnqueuer{}, nil, nil, nil)
	ctx := context.Background()

	a, err := svc.Submit(ctx, submitRequest(), 9)
	require.NoError(t, err)
	require.NoError(t, svc.Run(ctx, a.ID))
	require.NoError(t, svc.Run(ctx, a.ID))

	assert.Equal(t, 1, gen.calls, "completed analysis is not re-run")
}
