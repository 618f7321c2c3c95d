package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smarthire/ai-interviewer/internal/usecase"
)

func TestToneGate_Classify_MarkerHit(t *testing.T) {
	t.Parallel()
	var g usecase.ToneGate
	labels := []string{"unclear", "incomplete", "confused", "irrelevant"}
	for _, text := range []string{
		"idk",
		"IDK really",
		"I have no idea about that",
		"not sure, sorry",
		"Maybe something with pointers?",
		"nothing comes to mind",
		"I don't know",
	} {
		res := g.Classify(text, labels)
		assert.Equal(t, "unclear", res.Label, text)
		assert.Equal(t, 0.9, res.Confidence, text)
	}
}

func TestToneGate_Classify_Clear(t *testing.T) {
	t.Parallel()
	var g usecase.ToneGate
	res := g.Classify("A closure captures variables from its enclosing scope.", []string{"unclear"})
	assert.Equal(t, "clear", res.Label)
	assert.Equal(t, 0.1, res.Confidence)
}

func TestToneGate_Classify_AnyLabelSet(t *testing.T) {
	t.Parallel()
	var g usecase.ToneGate
	res := g.Classify("idk", []string{"vague", "other"})
	assert.Equal(t, "vague", res.Label)
	assert.Equal(t, 0.9, res.Confidence)

	// An empty label set still reports a marker hit.
	res = g.Classify("idk", nil)
	assert.Equal(t, 0.9, res.Confidence)
}

func TestToneGate_IsUnclear(t *testing.T) {
	t.Parallel()
	var g usecase.ToneGate
	assert.True(t, g.IsUnclear("idk"))
	assert.True(t, g.IsUnclear("No idea, not my area"))
	assert.False(t, g.IsUnclear("Inheritance lets a type reuse behavior of another."))
}
