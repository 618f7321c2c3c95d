package usecase_test

import (
	"errors"
	"fmt"
	"sync"

	"github.com/smarthire/ai-interviewer/internal/domain"
)

// Hand-written port fakes shared by the usecase tests.

type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (f *fakeEmbedder) Embed(_ domain.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := f.vectors[t]; ok {
			out[i] = v
		} else {
			out[i] = []float32{1, 0, 0}
		}
	}
	return out, nil
}

type fakeGrammar struct {
	issues int
	err    error
}

func (f *fakeGrammar) Check(_ domain.Context, _ string) (int, error) {
	return f.issues, f.err
}

type fakeTone struct {
	ranked []domain.LabelScore
	err    error
}

func (f *fakeTone) Classify(_ domain.Context, _ string, labels []string) ([]domain.LabelScore, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.ranked != nil {
		return f.ranked, nil
	}
	out := make([]domain.LabelScore, 0, len(labels))
	for i, l := range labels {
		out = append(out, domain.LabelScore{Label: l, Score: 0.9 - 0.1*float64(i)})
	}
	return out, nil
}

type fakeExtractor struct {
	entities []domain.Entity
	concepts []string
	err      error
}

func (f *fakeExtractor) Extract(_ domain.Context, _ string) ([]domain.Entity, []string, error) {
	return f.entities, f.concepts, f.err
}

type fakeChat struct {
	replies []string
	err     error
	calls   int
}

func (f *fakeChat) Generate(_ domain.Context, _ []domain.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	i := f.calls
	f.calls++
	if i >= len(f.replies) {
		return "Interesting! Tell me more about that.", nil
	}
	return f.replies[i], nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: map[string]domain.Session{}}
}

func (r *memSessionRepo) Get(_ domain.Context, id string) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, fmt.Errorf("op=mem.get: %w", domain.ErrNotFound)
	}
	cp := s
	cp.Messages = append([]domain.Message(nil), s.Messages...)
	cp.Scores = append([]int(nil), s.Scores...)
	return cp, nil
}

func (r *memSessionRepo) Save(_ domain.Context, s domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := s
	cp.Messages = append([]domain.Message(nil), s.Messages...)
	cp.Scores = append([]int(nil), s.Scores...)
	r.sessions[s.ID] = cp
	return nil
}

func (r *memSessionRepo) Delete(_ domain.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

type recordingTranscripts struct {
	mu       sync.Mutex
	persists int
	last     []domain.Message
	err      error
}

func (r *recordingTranscripts) Persist(_ domain.Context, _ string, log []domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.persists++
	r.last = append([]domain.Message(nil), log...)
	return nil
}

var errBackendDown = errors.New("backend down")
