// Package filestore writes interview transcripts as JSON files, the
// zero-dependency default when no database is configured.
package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smarthire/ai-interviewer/internal/domain"
)

// TranscriptStore implements domain.TranscriptStore on the local
// filesystem. One file per session, replaced on every persist.
type TranscriptStore struct {
	dir string
}

// New constructs a TranscriptStore rooted at dir, creating it if needed.
func New(dir string) (*TranscriptStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("op=filestore.new: %w", err)
	}
	return &TranscriptStore{dir: dir}, nil
}

type transcriptFile struct {
	SessionID string           `json:"session_id"`
	UpdatedAt time.Time        `json:"updated_at"`
	Messages  []domain.Message `json:"messages"`
}

// Persist writes the masked log to <dir>/<session_id>.json via a
// temp-file rename so readers never observe a partial transcript.
func (s *TranscriptStore) Persist(ctx domain.Context, sessionID string, log []domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(transcriptFile{
		SessionID: sessionID,
		UpdatedAt: time.Now().UTC(),
		Messages:  domain.MaskSystem(log),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("op=filestore.persist: %w", err)
	}

	final := filepath.Join(s.dir, sessionID+".json")
	tmp, err := os.CreateTemp(s.dir, sessionID+".*.tmp")
	if err != nil {
		return fmt.Errorf("op=filestore.persist: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("op=filestore.persist: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("op=filestore.persist: %w", err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("op=filestore.persist: %w", err)
	}
	return nil
}

// Load reads a persisted transcript.
func (s *TranscriptStore) Load(ctx domain.Context, sessionID string) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(filepath.Join(s.dir, sessionID+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("op=filestore.load: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("op=filestore.load: %w", err)
	}
	var f transcriptFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("op=filestore.load: %w", err)
	}
	return f.Messages, nil
}
