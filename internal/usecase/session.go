// Package usecase contains the interview session and scoring services.
package usecase

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/smarthire/ai-interviewer/internal/domain"
	"github.com/smarthire/ai-interviewer/internal/observability"
)

// SessionService drives interview sessions: it seeds the log, processes
// candidate turns start-to-finish, and decides termination. One turn is
// fully processed before the next input is accepted; each turn mutates a
// working copy of the session and saves only on success, so a failed
// model or analysis call leaves the stored log unchanged and the same
// turn can be retried.
type SessionService struct {
	Sessions    domain.SessionRepository
	Transcripts domain.TranscriptStore
	Chat        domain.ChatModel
	Analyzer    Analyzer
	Gate        ToneGate
	Prompts     PromptBuilder
}

// NewSessionService constructs a SessionService with its dependencies.
func NewSessionService(repo domain.SessionRepository, ts domain.TranscriptStore, chat domain.ChatModel, an Analyzer, pb PromptBuilder) SessionService {
	return SessionService{Sessions: repo, Transcripts: ts, Chat: chat, Analyzer: an, Prompts: pb}
}

// Start seeds a new session with the system prompt and the opening
// assistant message. It fails with ErrConflict when the session already
// has a log, and with ErrInvalidArgument for unknown roles or levels.
// An empty id gets a generated one.
func (s SessionService) Start(ctx domain.Context, id, role, level string) (domain.Session, error) {
	tracer := otel.Tracer("usecase.session")
	ctx, span := tracer.Start(ctx, "session.Start")
	defer span.End()

	if _, ok := s.Prompts.Catalog.Role(role); !ok {
		return domain.Session{}, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidArgument, role)
	}
	if !ValidLevel(level) {
		return domain.Session{}, fmt.Errorf("%w: unknown level %q", domain.ErrInvalidArgument, level)
	}
	if id == "" {
		id = uuid.New().String()
	}
	if existing, err := s.Sessions.Get(ctx, id); err == nil && existing.Active() {
		return domain.Session{}, fmt.Errorf("%w: session %s already active", domain.ErrConflict, id)
	}

	now := time.Now().UTC()
	sess := domain.Session{
		ID:        id,
		JobRole:   role,
		Level:     level,
		CreatedAt: now,
		UpdatedAt: now,
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: s.Prompts.BuildSystemPrompt(role, level)},
			{Role: domain.RoleAssistant, Content: OpeningMessage},
		},
	}
	s.persistTranscript(ctx, sess)
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return domain.Session{}, fmt.Errorf("op=session.start: %w", err)
	}
	return sess, nil
}

// SubmitAnswer processes one candidate turn end to end: tone gating with
// the poor-answer counter, the model reply, answer analysis, and both
// termination paths. Termination clears log, counter, and score history
// together; a cleared session can be started again.
func (s SessionService) SubmitAnswer(ctx domain.Context, id, text string) (domain.TurnResult, error) {
	tracer := otel.Tracer("usecase.session")
	ctx, span := tracer.Start(ctx, "session.SubmitAnswer")
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return domain.TurnResult{}, fmt.Errorf("%w: empty answer", domain.ErrInvalidArgument)
	}
	sess, err := s.Sessions.Get(ctx, id)
	if err != nil {
		return domain.TurnResult{}, fmt.Errorf("op=session.submit: %w", err)
	}
	if !sess.Active() {
		return domain.TurnResult{}, fmt.Errorf("%w: session %s has no active log", domain.ErrNotFound, id)
	}

	sess.Messages = append(sess.Messages, domain.Message{Role: domain.RoleUser, Content: text})
	userIdx := len(sess.Messages) - 1

	if s.Gate.IsUnclear(text) {
		sess.PoorAnswers++
	} else {
		sess.PoorAnswers = 0
	}
	if sess.PoorAnswers >= domain.MaxPoorAnswers {
		// Close out without another model call.
		sess.Messages = append(sess.Messages, domain.Message{Role: domain.RoleAssistant, Content: ClosingMessage})
		s.persistTranscript(ctx, sess)
		if err := s.Sessions.Delete(ctx, id); err != nil {
			return domain.TurnResult{}, fmt.Errorf("op=session.terminate: %w", err)
		}
		return domain.TurnResult{Terminated: true, Reason: domain.TerminationDisengagement, Reply: ClosingMessage}, nil
	}

	reply, err := s.Chat.Generate(ctx, sess.Messages)
	if err != nil {
		// Stored log is unchanged; the caller may retry this turn.
		return domain.TurnResult{}, fmt.Errorf("op=session.generate: %w", err)
	}
	sess.Messages = append(sess.Messages, domain.Message{Role: domain.RoleAssistant, Content: reply})

	question := sess.QuestionBefore(userIdx)
	analysis, err := s.Analyzer.Analyze(ctx, question, text)
	if err != nil {
		return domain.TurnResult{}, fmt.Errorf("op=session.analyze: %w", err)
	}
	report := BuildReport(analysis)
	sess.Scores = append(sess.Scores, report.Score)

	if strings.Contains(strings.ToLower(reply), strings.ToLower(domain.TerminationPhrase)) {
		s.persistTranscript(ctx, sess)
		if err := s.Sessions.Delete(ctx, id); err != nil {
			return domain.TurnResult{}, fmt.Errorf("op=session.terminate: %w", err)
		}
		return domain.TurnResult{Terminated: true, Reason: domain.TerminationCompleted, Reply: reply, Report: &report}, nil
	}

	sess.UpdatedAt = time.Now().UTC()
	s.persistTranscript(ctx, sess)
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return domain.TurnResult{}, fmt.Errorf("op=session.submit: %w", err)
	}
	return domain.TurnResult{Reply: reply, Report: &report}, nil
}

// Abort ends a session between turns: the transcript is persisted as-is
// and all session state is cleared.
func (s SessionService) Abort(ctx domain.Context, id string) error {
	tracer := otel.Tracer("usecase.session")
	ctx, span := tracer.Start(ctx, "session.Abort")
	defer span.End()

	sess, err := s.Sessions.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("op=session.abort: %w", err)
	}
	if !sess.Active() {
		return fmt.Errorf("%w: session %s has no active log", domain.ErrNotFound, id)
	}
	s.persistTranscript(ctx, sess)
	if err := s.Sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("op=session.abort: %w", err)
	}
	return nil
}

// Snapshot returns the current session state for display.
func (s SessionService) Snapshot(ctx domain.Context, id string) (domain.Session, error) {
	sess, err := s.Sessions.Get(ctx, id)
	if err != nil {
		return domain.Session{}, fmt.Errorf("op=session.snapshot: %w", err)
	}
	return sess, nil
}

// persistTranscript records the log after every turn. A write failure
// is a warning, not a turn failure: losing a transcript must not abort
// the interview.
func (s SessionService) persistTranscript(ctx domain.Context, sess domain.Session) {
	if s.Transcripts == nil {
		return
	}
	if err := s.Transcripts.Persist(ctx, sess.ID, sess.Messages); err != nil {
		observability.LoggerFromContext(ctx).Warn("transcript persist failed",
			slog.String("session_id", sess.ID),
			slog.Any("error", err))
	}
}
