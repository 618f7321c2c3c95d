package usecase

import (
	"fmt"
	"math"
	"strings"

	"go.opentelemetry.io/otel"

	"github.com/smarthire/ai-interviewer/internal/domain"
	"github.com/smarthire/ai-interviewer/pkg/textx"
)

// toneLabels is the label set used to rate answer tone.
var toneLabels = []string{"confident", "uncertain", "professional", "casual"}

// depthFullWords is the word count at which depth saturates. Longer
// answers score full depth regardless of content quality.
const depthFullWords = 50

// suggestionThreshold is the sub-score below which an improvement
// suggestion is emitted for that axis.
const suggestionThreshold = 60

// Fixed suggestion strings, emitted in relevance, depth, clarity order.
const (
	suggestRelevance = "Focus more on answering the question directly."
	suggestDepth     = "Provide more detailed examples."
	suggestClarity   = "Improve clarity or sentence structure."
	suggestAffirm    = "Well done! Keep going."
)

// Analyzer scores a question/answer pair along independent axes. Each
// sub-score is computed on its own; aggregation happens in BuildReport.
type Analyzer struct {
	Embeddings domain.Embedder
	Grammar    domain.GrammarChecker
	Tone       domain.ToneClassifier
	Extractor  domain.PhraseExtractor
}

// NewAnalyzer constructs an Analyzer with its service dependencies.
func NewAnalyzer(e domain.Embedder, g domain.GrammarChecker, t domain.ToneClassifier, x domain.PhraseExtractor) Analyzer {
	return Analyzer{Embeddings: e, Grammar: g, Tone: t, Extractor: x}
}

// Analyze produces the per-answer score breakdown. A failing NLP call
// fails the whole analysis so the caller can retry the turn; an empty
// question only zeroes relevance (depth and clarity remain computable).
func (a Analyzer) Analyze(ctx domain.Context, question, answer string) (domain.Analysis, error) {
	tracer := otel.Tracer("usecase.analyzer")
	ctx, span := tracer.Start(ctx, "analyzer.Analyze")
	defer span.End()

	var out domain.Analysis

	rel, err := a.scoreRelevance(ctx, question, answer)
	if err != nil {
		return domain.Analysis{}, err
	}
	out.Relevance = rel
	out.Depth = scoreDepth(answer)

	clarity, err := a.scoreClarity(ctx, answer)
	if err != nil {
		return domain.Analysis{}, err
	}
	out.Clarity = clarity

	tone, err := a.rateTone(ctx, answer)
	if err != nil {
		return domain.Analysis{}, err
	}
	out.Tone = tone

	ents, concepts, err := a.Extractor.Extract(ctx, answer)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("op=analyzer.extract: %w", err)
	}
	out.Entities = ents
	out.Concepts = concepts
	return out, nil
}

// scoreRelevance embeds question and answer and scales their cosine
// similarity to [0,100], rounding the similarity to 2 decimals first.
func (a Analyzer) scoreRelevance(ctx domain.Context, question, answer string) (float64, error) {
	if strings.TrimSpace(question) == "" {
		// No prior question to compare against; relevance is undefined
		// and reported as 0 rather than failing the analysis.
		return 0, nil
	}
	vecs, err := a.Embeddings.Embed(ctx, []string{question, answer})
	if err != nil {
		return 0, fmt.Errorf("op=analyzer.relevance: %w", err)
	}
	if len(vecs) < 2 {
		return 0, fmt.Errorf("op=analyzer.relevance: short embed response: %w", domain.ErrInternal)
	}
	sim := cosine(vecs[0], vecs[1])
	if sim < 0 {
		sim = 0
	}
	return round2(sim) * 100, nil
}

// scoreDepth maps word count onto [0,100], saturating at depthFullWords.
func scoreDepth(answer string) float64 {
	wc := float64(textx.WordCount(answer))
	return round2(math.Min(wc/depthFullWords, 1.0)) * 100
}

// scoreClarity is 1 minus the grammar-error rate per word, clamped to
// [0,1] and scaled. The word-count floor of 1 avoids division by zero
// on empty answers.
func (a Analyzer) scoreClarity(ctx domain.Context, answer string) (float64, error) {
	issues, err := a.Grammar.Check(ctx, answer)
	if err != nil {
		return 0, fmt.Errorf("op=analyzer.clarity: %w", err)
	}
	words := textx.WordCount(answer)
	if words < 1 {
		words = 1
	}
	rate := math.Min(float64(issues)/float64(words), 1.0)
	return round2(1-rate) * 100, nil
}

// rateTone returns the best-scoring tone label with its confidence.
func (a Analyzer) rateTone(ctx domain.Context, answer string) (domain.ToneResult, error) {
	ranked, err := a.Tone.Classify(ctx, answer, toneLabels)
	if err != nil {
		return domain.ToneResult{}, fmt.Errorf("op=analyzer.tone: %w", err)
	}
	if len(ranked) == 0 {
		return domain.ToneResult{}, fmt.Errorf("op=analyzer.tone: empty ranking: %w", domain.ErrInternal)
	}
	return domain.ToneResult{Label: ranked[0].Label, Confidence: round2(ranked[0].Score)}, nil
}

// Score folds an analysis into the scalar answer score: the floor of
// the mean of relevance, depth, and clarity, never negative.
func Score(a domain.Analysis) int {
	s := int((a.Relevance + a.Depth + a.Clarity) / 3)
	if s < 0 {
		s = 0
	}
	return s
}

// Suggestions emits one fixed improvement string per axis below the
// threshold, in relevance, depth, clarity order, or a single affirming
// message when nothing triggered.
func Suggestions(a domain.Analysis) []string {
	var out []string
	if a.Relevance < suggestionThreshold {
		out = append(out, suggestRelevance)
	}
	if a.Depth < suggestionThreshold {
		out = append(out, suggestDepth)
	}
	if a.Clarity < suggestionThreshold {
		out = append(out, suggestClarity)
	}
	if len(out) == 0 {
		out = []string{suggestAffirm}
	}
	return out
}

// BuildReport assembles the ephemeral per-answer report.
func BuildReport(a domain.Analysis) domain.ScoreReport {
	return domain.ScoreReport{Score: Score(a), Analysis: a, Suggestions: Suggestions(a)}
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
