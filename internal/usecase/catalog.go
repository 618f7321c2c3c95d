package usecase

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Levels enumerates supported seniority levels.
var Levels = []string{"Junior", "Mid", "Senior"}

// RoleProfile describes one interviewable role: the language track for
// the fundamentals stage and example questions for the role-depth stage.
type RoleProfile struct {
	Name           string   `yaml:"name"`
	Language       string   `yaml:"language"`
	Fundamentals   []string `yaml:"fundamentals"`
	DepthQuestions []string `yaml:"depth_questions"`
}

// Catalog is the set of roles the interviewer can run sessions for.
type Catalog struct {
	Roles []RoleProfile `yaml:"roles"`
}

// Role looks a profile up by its display name.
func (c Catalog) Role(name string) (RoleProfile, bool) {
	for _, r := range c.Roles {
		if r.Name == name {
			return r, true
		}
	}
	return RoleProfile{}, false
}

// RoleNames returns the role display names in catalog order.
func (c Catalog) RoleNames() []string {
	out := make([]string, 0, len(c.Roles))
	for _, r := range c.Roles {
		out = append(out, r.Name)
	}
	return out
}

// ValidLevel reports whether level is a supported seniority level.
func ValidLevel(level string) bool {
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
}

// LoadCatalog reads a role catalog from a YAML file; an empty path
// returns the compiled-in default catalog.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("op=catalog.load: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Catalog{}, fmt.Errorf("op=catalog.parse: %w", err)
	}
	if len(c.Roles) == 0 {
		return Catalog{}, fmt.Errorf("op=catalog.parse: no roles defined")
	}
	return c, nil
}

// DefaultCatalog returns the built-in role set.
func DefaultCatalog() Catalog {
	return Catalog{Roles: []RoleProfile{
		{
			Name:     "Data Scientist",
			Language: "Python",
			Fundamentals: []string{
				"What are Python's key features?",
				"How are lists different from tuples?",
				"Explain list comprehension.",
			},
			DepthQuestions: []string{
				"How do you handle overfitting in a model?",
				"What is the difference between supervised and unsupervised learning?",
			},
		},
		{
			Name:     "ML Engineer",
			Language: "Python",
			Fundamentals: []string{
				"What are Python's key features?",
				"How are lists different from tuples?",
				"Explain list comprehension.",
			},
			DepthQuestions: []string{
				"How do you handle overfitting in a model?",
				"What is the difference between supervised and unsupervised learning?",
			},
		},
		{
			Name:     "Frontend Developer",
			Language: "JavaScript / React",
			Fundamentals: []string{
				"What are closures in JavaScript?",
				"What is the difference between let, var, and const?",
				"What is the virtual DOM in React?",
			},
			DepthQuestions: []string{
				"What are React hooks? Name and explain a few.",
				"How do you handle shared state across components?",
			},
		},
		{
			Name:     "React Developer",
			Language: "JavaScript / React",
			Fundamentals: []string{
				"What are closures in JavaScript?",
				"What is the difference between let, var, and const?",
				"What is the virtual DOM in React?",
			},
			DepthQuestions: []string{
				"What are React hooks? Name and explain a few.",
				"How do you handle shared state across components?",
			},
		},
		{
			Name:     "Mobile Developer",
			Language: "Flutter / Kotlin / Swift",
			Fundamentals: []string{
				"What is the difference between hot reload and hot restart in Flutter?",
				"How does state management work in Flutter?",
			},
			DepthQuestions: []string{
				"Tell me about a mobile app you shipped. What was the hardest part?",
				"How do you keep UI responsive while doing heavy work?",
			},
		},
	}}
}
