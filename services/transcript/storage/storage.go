package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/echoscribe/backend/services/transcript/entity"
)

var ErrNotFound = errors.New("transcript not found")

type Storage interface {
	CreateTranscript(ctx context.Context, t *entity.Transcript) error
	GetTranscript(ctx context.Context, id string) (*entity.Transcript, error)
	ListTranscripts(ctx context.Context) ([]*entity.Transcript, error)
	UpdateBody(ctx context.Context, id, body string) error
	DeleteTranscript(ctx context.Context, id string) error
}

// memory keeps transcripts in a map. Used when no database is configured
// and as the storage double in tests.
type memory struct {
	mu          sync.RWMutex
	transcripts map[string]*entity.Transcript
}

func New() Storage {
	return &memory{
		transcripts: make(map[string]*entity.Transcript),
	}
}

func (s *memory) CreateTranscript(ctx context.Context, t *entity.Transcript) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *t
	s.transcripts[t.ID] = &cp
	return nil
}

func (s *memory) GetTranscript(ctx context.Context, id string) (*entity.Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.transcripts[id]
	if !exists {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *memory) ListTranscripts(ctx context.Context) ([]*entity.Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entity.Transcript, 0, len(s.transcripts))
	for _, t := range s.transcripts {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memory) UpdateBody(ctx context.Context, id, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.transcripts[id]
	if !exists {
		return ErrNotFound
	}
	t.Body = body
	t.UpdatedAt = time.Now()
	return nil
}

func (s *memory) DeleteTranscript(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transcripts[id]; !exists {
		return ErrNotFound
	}
	delete(s.transcripts, id)
	return nil
}
