package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/echoscribe/backend/pkg/gen"
	"github.com/echoscribe/backend/services/transcript/consts"
	"github.com/echoscribe/backend/services/transcript/entity"
	"github.com/echoscribe/backend/services/transcript/storage"
)

type Usecase interface {
	CreateTranscript(ctx context.Context, req *entity.CreateTranscriptRequest) (*entity.Transcript, error)
	GetTranscript(ctx context.Context, req *entity.GetTranscriptRequest) (*entity.Transcript, error)
	ListTranscripts(ctx context.Context) ([]*entity.Transcript, error)
	ReplaceText(ctx context.Context, req *entity.ReplaceTextRequest) (*entity.Transcript, error)
	AppendText(ctx context.Context, req *entity.AppendTextRequest) (*entity.Transcript, error)
	DeleteTranscript(ctx context.Context, req *entity.DeleteTranscriptRequest) error
}

type usecase struct {
	storage storage.Storage
	ids     gen.UUIDGenerator
}

func New(storage storage.Storage, ids gen.UUIDGenerator) Usecase {
	return &usecase{
		storage: storage,
		ids:     ids,
	}
}

func (u *usecase) CreateTranscript(ctx context.Context, req *entity.CreateTranscriptRequest) (*entity.Transcript, error) {
	now := time.Now()
	t := &entity.Transcript{
		ID:        u.ids.NextString(),
		Title:     req.Title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.storage.CreateTranscript(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create transcript: %w", err)
	}
	return t, nil
}

func (u *usecase) GetTranscript(ctx context.Context, req *entity.GetTranscriptRequest) (*entity.Transcript, error) {
	return u.storage.GetTranscript(ctx, req.ID)
}

func (u *usecase) ListTranscripts(ctx context.Context) ([]*entity.Transcript, error) {
	return u.storage.ListTranscripts(ctx)
}

func (u *usecase) ReplaceText(ctx context.Context, req *entity.ReplaceTextRequest) (*entity.Transcript, error) {
	if len(req.Text) > consts.MaxTranscriptSize {
		return nil, fmt.Errorf("transcript text exceeds %d bytes", consts.MaxTranscriptSize)
	}
	if err := u.storage.UpdateBody(ctx, req.ID, req.Text); err != nil {
		return nil, err
	}
	return u.storage.GetTranscript(ctx, req.ID)
}

// AppendText adds a block of text to the end of the transcript body,
// separated by a newline. Inserting a file-boundary separator line ahead of
// the block is the caller's concern; the service treats body as opaque text.
func (u *usecase) AppendText(ctx context.Context, req *entity.AppendTextRequest) (*entity.Transcript, error) {
	t, err := u.storage.GetTranscript(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	body := req.Text
	if t.Body != "" {
		body = t.Body + "\n" + req.Text
	}
	if len(body) > consts.MaxTranscriptSize {
		return nil, fmt.Errorf("transcript text exceeds %d bytes", consts.MaxTranscriptSize)
	}
	if err := u.storage.UpdateBody(ctx, req.ID, body); err != nil {
		return nil, err
	}
	return u.storage.GetTranscript(ctx, req.ID)
}

func (u *usecase) DeleteTranscript(ctx context.Context, req *entity.DeleteTranscriptRequest) error {
	return u.storage.DeleteTranscript(ctx, req.ID)
}
