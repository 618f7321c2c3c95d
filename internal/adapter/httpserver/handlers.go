package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/smarthire/ai-interviewer/internal/adapter/observability"
	"github.com/smarthire/ai-interviewer/internal/config"
	"github.com/smarthire/ai-interviewer/internal/domain"
	"github.com/smarthire/ai-interviewer/internal/usecase"
	"github.com/smarthire/ai-interviewer/pkg/textx"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg        config.Config
	Interviews usecase.SessionService
}

// NewServer constructs an HTTP server with all handlers wired.
func NewServer(cfg config.Config, interviews usecase.SessionService) *Server {
	return &Server{Cfg: cfg, Interviews: interviews}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

type startRequest struct {
	SessionID string `json:"session_id" validate:"omitempty,max=128"`
	JobRole   string `json:"job_role" validate:"required,max=128"`
	Level     string `json:"level" validate:"required,max=32"`
}

type messageView struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type sessionResponse struct {
	SessionID string        `json:"session_id"`
	JobRole   string        `json:"job_role"`
	Level     string        `json:"level"`
	Messages  []messageView `json:"messages"`
	Scores    []int         `json:"scores,omitempty"`
}

// viewMessages converts a log for API responses, hiding the system
// prompt the same way persisted transcripts do.
func viewMessages(log []domain.Message) []messageView {
	out := make([]messageView, 0, len(log))
	for _, m := range domain.MaskSystem(log) {
		out = append(out, messageView{Role: string(m.Role), Content: m.Content})
	}
	return out
}

// StartHandler seeds a new interview session.
func (s *Server) StartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json body", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}

		sess, err := s.Interviews.Start(r.Context(), req.SessionID, req.JobRole, req.Level)
		if err != nil {
			LoggerFrom(r).Warn("start interview failed", "error", err)
			writeError(w, r, err, nil)
			return
		}
		observability.InterviewsStartedTotal.WithLabelValues(sess.JobRole, sess.Level).Inc()
		writeJSON(w, http.StatusCreated, sessionResponse{
			SessionID: sess.ID,
			JobRole:   sess.JobRole,
			Level:     sess.Level,
			Messages:  viewMessages(sess.Messages),
		})
	}
}

type answerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

type turnResponse struct {
	Reply      string              `json:"reply"`
	Terminated bool                `json:"terminated"`
	Reason     string              `json:"reason,omitempty"`
	Report     *domain.ScoreReport `json:"report,omitempty"`
}

// AnswerHandler processes one candidate answer.
func (s *Server) AnswerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req answerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json body", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: answer required", domain.ErrInvalidArgument), nil)
			return
		}
		if max := s.Cfg.MaxAnswerChars; max > 0 && len(req.Answer) > max {
			writeError(w, r, fmt.Errorf("%w: answer exceeds %d characters", domain.ErrInvalidArgument, max), map[string]int{"max_chars": max})
			return
		}

		res, err := s.Interviews.SubmitAnswer(r.Context(), id, textx.SanitizeText(req.Answer))
		if err != nil {
			LoggerFrom(r).Warn("submit answer failed", "session_id", id, "error", err)
			writeError(w, r, err, nil)
			return
		}

		observability.TurnsProcessedTotal.Inc()
		if res.Report != nil {
			observability.AnswerScoreHistogram.Observe(float64(res.Report.Score))
		}
		if res.Terminated {
			observability.TerminationsTotal.WithLabelValues(string(res.Reason)).Inc()
		}
		writeJSON(w, http.StatusOK, turnResponse{
			Reply:      res.Reply,
			Terminated: res.Terminated,
			Reason:     string(res.Reason),
			Report:     res.Report,
		})
	}
}

// AbortHandler ends a session between turns.
func (s *Server) AbortHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := s.Interviews.Abort(r.Context(), id); err != nil {
			writeError(w, r, err, nil)
			return
		}
		observability.TerminationsTotal.WithLabelValues("aborted").Inc()
		w.WriteHeader(http.StatusNoContent)
	}
}

// GetHandler returns the current session state with the system prompt
// hidden.
func (s *Server) GetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		sess, err := s.Interviews.Snapshot(r.Context(), id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{
			SessionID: sess.ID,
			JobRole:   sess.JobRole,
			Level:     sess.Level,
			Messages:  viewMessages(sess.Messages),
			Scores:    sess.Scores,
		})
	}
}
