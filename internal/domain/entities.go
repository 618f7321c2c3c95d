// Package domain holds the interview entities, ports, and error taxonomy.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrRateLimited       = errors.New("rate limited")
	ErrUpstreamTimeout   = errors.New("upstream timeout")
	ErrUpstreamRateLimit = errors.New("upstream rate limit")
	ErrInternal          = errors.New("internal error")
)

// Role discriminates message authorship. It is set explicitly at
// construction and never inferred from the value's shape.
type Role string

// Message roles.
const (
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// Message is one turn in the interview log.
// Invariant: immutable once appended to a session.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TerminationPhrase is the fixed string the system prompt instructs the
// model to emit when the interview is over. Matched case-insensitively.
const TerminationPhrase = "Interview Ended"

// SystemPlaceholder replaces system prompt content in persisted
// transcripts so the instructional prompt is never re-exposed.
const SystemPlaceholder = "[System Prompt Hidden]"

// MaxPoorAnswers is the number of consecutive unclear answers that ends
// the interview with a disengagement result.
const MaxPoorAnswers = 3

// Session owns the ordered message log, the running poor-answer counter,
// and the score history for one interview.
// Invariants: the first message, if present, is the system prompt;
// termination clears log, counter, and scores together.
type Session struct {
	ID          string    `json:"id"`
	JobRole     string    `json:"job_role"`
	Level       string    `json:"level"`
	Messages    []Message `json:"messages"`
	PoorAnswers int       `json:"poor_answers"`
	Scores      []int     `json:"scores"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Active reports whether the session has a seeded log.
func (s *Session) Active() bool { return len(s.Messages) > 0 }

// QuestionBefore returns the content of the most recent assistant message
// strictly before index i, skipping the system prompt. Empty when no
// assistant message precedes i.
func (s *Session) QuestionBefore(i int) string {
	if i > len(s.Messages) {
		i = len(s.Messages)
	}
	for j := i - 1; j >= 0; j-- {
		if s.Messages[j].Role == RoleAssistant {
			return s.Messages[j].Content
		}
	}
	return ""
}

// ToneResult pairs a tone label with the classifier's confidence in [0,1].
type ToneResult struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Entity is a named-entity span extracted from an answer.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// LabelScore is one ranked zero-shot classification outcome.
type LabelScore struct {
	Label string
	Score float64
}

// Analysis is the per-answer score breakdown. Relevance, Depth, and
// Clarity are in [0,100]; it is consumed immediately to produce a
// ScoreReport and never persisted on its own.
type Analysis struct {
	Relevance float64    `json:"relevance"`
	Depth     float64    `json:"depth"`
	Clarity   float64    `json:"clarity"`
	Tone      ToneResult `json:"tone"`
	Entities  []Entity   `json:"entities"`
	Concepts  []string   `json:"concepts"`
}

// ScoreReport is the scalar score in [0,100] plus ordered suggestions
// shown to the candidate after each evaluated answer.
type ScoreReport struct {
	Score       int      `json:"score"`
	Analysis    Analysis `json:"analysis"`
	Suggestions []string `json:"suggestions"`
}

// TerminationReason says why a session ended.
type TerminationReason string

// Termination reasons.
const (
	TerminationCompleted     TerminationReason = "completed"
	TerminationDisengagement TerminationReason = "disengagement"
)

// TurnResult is the discriminated outcome of one submitted answer:
// either the interview continues with a reply and report, or it
// terminated and the session state has been cleared.
type TurnResult struct {
	Terminated bool
	Reason     TerminationReason
	Reply      string
	Report     *ScoreReport
}

// Ports

// ChatModel generates the interviewer's next reply from the full log.
type ChatModel interface {
	Generate(ctx Context, messages []Message) (string, error)
}

// Embedder returns fixed-length embedding vectors for texts.
type Embedder interface {
	Embed(ctx Context, texts []string) ([][]float32, error)
}

// ToneClassifier assigns text to one of an arbitrary label set,
// highest score first.
type ToneClassifier interface {
	Classify(ctx Context, text string, labels []string) ([]LabelScore, error)
}

// GrammarChecker returns the number of flagged grammar issues in text.
type GrammarChecker interface {
	Check(ctx Context, text string) (int, error)
}

// PhraseExtractor returns named entities and noun phrases found in text.
type PhraseExtractor interface {
	Extract(ctx Context, text string) ([]Entity, []string, error)
}

// TranscriptStore durably records a session's log, replacing any prior
// record for the same session.
type TranscriptStore interface {
	Persist(ctx Context, sessionID string, log []Message) error
}

// MaskSystem copies the log with every system message's content
// replaced by SystemPlaceholder. Transcript stores persist the masked
// form; the input is never mutated.
func MaskSystem(log []Message) []Message {
	masked := make([]Message, len(log))
	for i, m := range log {
		if m.Role == RoleSystem {
			m.Content = SystemPlaceholder
		}
		masked[i] = m
	}
	return masked
}

// SessionRepository stores active sessions. Implementations must not
// share mutable session state between callers.
type SessionRepository interface {
	Get(ctx Context, id string) (Session, error)
	Save(ctx Context, s Session) error
	Delete(ctx Context, id string) error
}

// Context aliases context.Context so domain signatures stay compact;
// adapters and usecases pass context.Context straight through.
type Context = context.Context
