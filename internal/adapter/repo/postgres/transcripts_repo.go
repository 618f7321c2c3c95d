// Package postgres persists interview transcripts in PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"

	"github.com/smarthire/ai-interviewer/internal/domain"
)

// PgxPool is the minimal pool surface the repo needs; *pgxpool.Pool
// satisfies it and tests substitute a fake.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TranscriptRepo implements domain.TranscriptStore on PostgreSQL. One
// row per session; each persist replaces the previous log.
type TranscriptRepo struct{ Pool PgxPool }

// NewTranscriptRepo constructs a TranscriptRepo with the given pool.
func NewTranscriptRepo(p PgxPool) *TranscriptRepo { return &TranscriptRepo{Pool: p} }

// Persist upserts the masked log as JSONB keyed by session id. The raw
// system prompt never reaches storage.
func (r *TranscriptRepo) Persist(ctx domain.Context, sessionID string, log []domain.Message) error {
	tracer := otel.Tracer("repo.transcripts")
	ctx, span := tracer.Start(ctx, "transcripts.Persist")
	defer span.End()

	payload, err := json.Marshal(domain.MaskSystem(log))
	if err != nil {
		return fmt.Errorf("op=transcript.persist: %w", err)
	}
	q := `INSERT INTO transcripts (session_id, messages, updated_at) VALUES ($1,$2,$3)
	      ON CONFLICT (session_id) DO UPDATE SET messages = EXCLUDED.messages, updated_at = EXCLUDED.updated_at`
	if _, err := r.Pool.Exec(ctx, q, sessionID, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("op=transcript.persist: %w", err)
	}
	return nil
}

// Load reads the persisted masked log for a session.
func (r *TranscriptRepo) Load(ctx domain.Context, sessionID string) ([]domain.Message, error) {
	tracer := otel.Tracer("repo.transcripts")
	ctx, span := tracer.Start(ctx, "transcripts.Load")
	defer span.End()

	q := `SELECT messages FROM transcripts WHERE session_id=$1`
	var payload []byte
	if err := r.Pool.QueryRow(ctx, q, sessionID).Scan(&payload); err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("op=transcript.load: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("op=transcript.load: %w", err)
	}
	var log []domain.Message
	if err := json.Unmarshal(payload, &log); err != nil {
		return nil, fmt.Errorf("op=transcript.load: %w", err)
	}
	return log, nil
}
