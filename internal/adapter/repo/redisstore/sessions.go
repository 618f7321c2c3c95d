// Package redisstore keeps active interview sessions in Redis so turns
// survive process restarts and multiple replicas share state.
package redisstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/smarthire/ai-interviewer/internal/domain"
)

const keyPrefix = "interview:session:"

// SessionRepo implements domain.SessionRepository on Redis. Sessions
// are stored as JSON under a TTL; an expired session reads as not
// found, which ends the interview cleanly.
type SessionRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

// New constructs a SessionRepo.
func New(rdb *redis.Client, ttl time.Duration) *SessionRepo {
	return &SessionRepo{rdb: rdb, ttl: ttl}
}

// Get loads a session by id.
func (r *SessionRepo) Get(ctx domain.Context, id string) (domain.Session, error) {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.Get")
	defer span.End()

	b, err := r.rdb.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Session{}, fmt.Errorf("op=session.get: %w", domain.ErrNotFound)
		}
		return domain.Session{}, fmt.Errorf("op=session.get: %w", err)
	}
	var s domain.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return domain.Session{}, fmt.Errorf("op=session.get: %w", err)
	}
	return s, nil
}

// Save stores the session and refreshes its TTL.
func (r *SessionRepo) Save(ctx domain.Context, s domain.Session) error {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.Save")
	defer span.End()

	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("op=session.save: %w", err)
	}
	if err := r.rdb.Set(ctx, keyPrefix+s.ID, b, r.ttl).Err(); err != nil {
		return fmt.Errorf("op=session.save: %w", err)
	}
	return nil
}

// Delete removes a session. Deleting an absent session is not an error.
func (r *SessionRepo) Delete(ctx domain.Context, id string) error {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.Delete")
	defer span.End()

	if err := r.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("op=session.delete: %w", err)
	}
	return nil
}
