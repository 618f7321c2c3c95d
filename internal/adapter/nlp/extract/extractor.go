// Package extract implements in-process entity and key-phrase
// extraction with the prose NLP library. It keeps answer analysis free
// of another network hop: tokenization, tagging, and NER all run
// locally.
package extract

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"

	"github.com/smarthire/ai-interviewer/internal/domain"
)

// Extractor implements domain.PhraseExtractor.
type Extractor struct{}

// New constructs an Extractor.
func New() Extractor { return Extractor{} }

// Extract returns named entities and noun-phrase concepts found in the
// text. Concepts are consecutive adjective/noun token runs, lowercased
// and deduplicated in order of first appearance.
func (Extractor) Extract(ctx domain.Context, text string) ([]domain.Entity, []string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, nil, fmt.Errorf("op=extract.parse: %w", err)
	}

	var entities []domain.Entity
	for _, ent := range doc.Entities() {
		entities = append(entities, domain.Entity{Text: ent.Text, Label: ent.Label})
	}

	return entities, nounPhrases(doc.Tokens()), nil
}

// nounPhrases chunks tagged tokens into adjective+noun runs. A run must
// contain at least one noun to count as a concept.
func nounPhrases(tokens []prose.Token) []string {
	var (
		out     []string
		seen    = map[string]bool{}
		current []string
		hasNoun bool
	)
	flush := func() {
		if hasNoun && len(current) > 0 {
			phrase := strings.ToLower(strings.Join(current, " "))
			if !seen[phrase] {
				seen[phrase] = true
				out = append(out, phrase)
			}
		}
		current = current[:0]
		hasNoun = false
	}
	for _, tok := range tokens {
		switch {
		case strings.HasPrefix(tok.Tag, "NN"):
			current = append(current, tok.Text)
			hasNoun = true
		case tok.Tag == "JJ":
			current = append(current, tok.Text)
		default:
			flush()
		}
	}
	flush()
	return out
}
