package social

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	records map[int64]*Post
	nextID  int64
}

func newStubRepository() *stubRepository {
	return &stubRepository{records: make(map[int64]*Post), nextID: 1}
}

func (s *stubRepository) Get(_ context.Context, id int64) (*Post, error) {
	p, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *stubRepository) List(_ context.Context, _ ListPostsRequest) ([]Post, int, error) {
	out := make([]Post, 0, len(s.records))
	for _, p := range s.records {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (s *stubRepository) Create(_ context.Context, p Post) (int64, error) {
	id := s.nextID
	s.nextID++
	p.ID = id
	s.records[id] = &p
	return id, nil
}

func (s *stubRepository) Update(_ context.Context, id int64, updates map[string]any) error {
	p, ok := s.records[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["caption"]; ok {
		p.Caption = v.(string)
	}
	if v, ok := updates["status"]; ok {
		p.Status = v.(PostStatus)
	}
	return nil
}

func (s *stubRepository) Delete(_ context.Context, id int64) error {
	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

type stubGenerator struct {
	reply  string
	err    error
	prompt string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func TestSuggestCaption(t *testing.T) {
	gen := &stubGenerator{reply: "  Treinamento concluído com sucesso! 🚒  "}
	svc := NewService(newStubRepository(), gen, nil, nil)

	caption, err := svc.SuggestCaption(context.Background(), SuggestCaptionRequest{Topic: "rescue training"})
	require.NoError(t, err)
	assert.Equal(t, "Treinamento concluído com sucesso! 🚒", caption, "whitespace trimmed")
	assert.Contains(t, gen.prompt, "rescue training")
}

func TestSuggestCaptionNoGenerator(t *testing.T) {
	svc := NewService(newStubRepository(), nil, nil, nil)
	_, err := svc.SuggestCaption(context.Background(), SuggestCaptionRequest{Topic: "anything"})
	assert.ErrorIs(t, err, ErrCaptionUnavailable)
}

func TestSuggestCaptionGeneratorError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota exceeded")}
	svc := NewService(newStubRepository(), gen, nil, nil)
	_, err := svc.SuggestCaption(context.Background(), SuggestCaptionRequest{Topic: "anything"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCaptionUnavailable)
}

func TestPublishedPostLocked(t *testing.T) {
	repo := newStubRepository()
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePostRequest{Title: "Open house"}, 1)
	require.NoError(t, err)
	assert.Equal(t, PostDraft, created.Status)

	published, err := svc.MarkPublished(ctx, created.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, PostPublished, published.Status)

	newCaption := "edited"
	_, err = svc.Update(ctx, created.ID, UpdatePostRequest{Caption: &newCaption}, 1)
	assert.ErrorIs(t, err, ErrAlreadyPublished)

	_, err = svc.MarkPublished(ctx, created.ID, 1)
	assert.ErrorIs(t, err, ErrAlreadyPublished)
}
