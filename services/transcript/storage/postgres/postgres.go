package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/echoscribe/backend/services/transcript/entity"
	"github.com/echoscribe/backend/services/transcript/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS transcripts (
	id         UUID PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	body       TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

type Storage struct {
	db *sql.DB
}

// New opens a Postgres connection and ensures the transcripts table exists.
func New(ctx context.Context, dsn string) (*Storage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create transcripts table: %w", err)
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) CreateTranscript(ctx context.Context, t *entity.Transcript) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transcripts (id, title, body, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.Title, t.Body, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transcript: %w", err)
	}
	return nil
}

func (s *Storage) GetTranscript(ctx context.Context, id string) (*entity.Transcript, error) {
	var t entity.Transcript
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, body, created_at, updated_at FROM transcripts WHERE id = $1`, id,
	).Scan(&t.ID, &t.Title, &t.Body, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select transcript: %w", err)
	}
	return &t, nil
}

func (s *Storage) ListTranscripts(ctx context.Context) ([]*entity.Transcript, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, body, created_at, updated_at FROM transcripts ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transcripts: %w", err)
	}
	defer rows.Close()

	var out []*entity.Transcript
	for rows.Next() {
		var t entity.Transcript
		if err := rows.Scan(&t.ID, &t.Title, &t.Body, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transcript: %w", err)
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transcripts: %w", err)
	}
	return out, nil
}

func (s *Storage) UpdateBody(ctx context.Context, id, body string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transcripts SET body = $2, updated_at = NOW() WHERE id = $1`, id, body,
	)
	if err != nil {
		return fmt.Errorf("failed to update transcript body: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Storage) DeleteTranscript(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transcripts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transcript: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

var _ storage.Storage = (*Storage)(nil)
