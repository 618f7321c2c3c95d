package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smarthire/ai-interviewer/internal/domain"
	"github.com/smarthire/ai-interviewer/internal/usecase"
)

func TestBuildSystemPrompt_ContainsRoleAndStages(t *testing.T) {
	t.Parallel()
	pb := usecase.NewPromptBuilder(usecase.DefaultCatalog())
	prompt := pb.BuildSystemPrompt("Frontend Developer", "Senior")

	assert.Contains(t, prompt, "Senior Frontend Developer")
	assert.Contains(t, prompt, "INTERVIEW FLOW")
	assert.Contains(t, prompt, "OOP BASICS")
	assert.Contains(t, prompt, "LANGUAGE FUNDAMENTALS (JavaScript / React)")
	assert.Contains(t, prompt, "What are closures in JavaScript?")
	assert.Contains(t, prompt, "What are React hooks? Name and explain a few.")
	assert.Contains(t, prompt, "PROJECT / BEHAVIORAL QUESTIONS")
	assert.Contains(t, prompt, `End with: "`+domain.TerminationPhrase+`"`)
}

func TestBuildSystemPrompt_RoleSpecificQuestions(t *testing.T) {
	t.Parallel()
	pb := usecase.NewPromptBuilder(usecase.DefaultCatalog())

	ds := pb.BuildSystemPrompt("Data Scientist", "Mid")
	assert.Contains(t, ds, "LANGUAGE FUNDAMENTALS (Python)")
	assert.Contains(t, ds, "How do you handle overfitting in a model?")
	assert.NotContains(t, ds, "virtual DOM")

	mobile := pb.BuildSystemPrompt("Mobile Developer", "Junior")
	assert.Contains(t, mobile, "hot reload")
}

func TestClosingMessage_CarriesTerminationPhrase(t *testing.T) {
	t.Parallel()
	assert.Contains(t, usecase.ClosingMessage, domain.TerminationPhrase)
}
