package usecase

import (
	"strings"

	"github.com/smarthire/ai-interviewer/internal/domain"
)

// unclearMarkers are hedging/non-answer fragments that flag a candidate
// turn as unclear without a classifier call. Matching is substring-based
// on the lowercased text; evasive answers that dodge these exact markers
// pass through, which is accepted.
var unclearMarkers = []string{"idk", "no idea", "not sure", "maybe", "nothing", "na", "don't know"}

// unclearLabels is the label set used when gating candidate turns.
var unclearLabels = []string{"unclear", "incomplete", "confused", "irrelevant"}

// unclearThreshold is the confidence above which a gated turn counts
// as a poor answer.
const unclearThreshold = 0.6

// ToneGate is the deterministic, low-cost stand-in for a zero-shot
// classification call on the turn-gating path.
type ToneGate struct{}

// Classify returns (labels[0], 0.9) when text contains an unclear
// marker, and ("clear", 0.1) otherwise, for any candidate label set.
func (ToneGate) Classify(text string, labels []string) domain.ToneResult {
	lower := strings.ToLower(text)
	for _, m := range unclearMarkers {
		if strings.Contains(lower, m) {
			label := "unclear"
			if len(labels) > 0 {
				label = labels[0]
			}
			return domain.ToneResult{Label: label, Confidence: 0.9}
		}
	}
	return domain.ToneResult{Label: "clear", Confidence: 0.1}
}

// IsUnclear applies Classify against the gating label set with the
// 0.6 confidence threshold.
func (g ToneGate) IsUnclear(text string) bool {
	res := g.Classify(text, unclearLabels)
	for _, l := range unclearLabels {
		if res.Label == l {
			return res.Confidence > unclearThreshold
		}
	}
	return false
}
