package usecase_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarthire/ai-interviewer/internal/usecase"
)

func TestLoadCatalog_EmptyPathUsesDefault(t *testing.T) {
	t.Parallel()
	c, err := usecase.LoadCatalog("")
	require.NoError(t, err)
	assert.Contains(t, c.RoleNames(), "Frontend Developer")
	assert.Contains(t, c.RoleNames(), "Data Scientist")
}

func TestLoadCatalog_FromYAML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "roles.yaml")
	doc := `roles:
  - name: Backend Developer
    language: Go
    fundamentals:
      - "What is a goroutine?"
    depth_questions:
      - "How do you design a retry policy?"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := usecase.LoadCatalog(path)
	require.NoError(t, err)
	profile, ok := c.Role("Backend Developer")
	require.True(t, ok)
	assert.Equal(t, "Go", profile.Language)
	assert.Equal(t, []string{"What is a goroutine?"}, profile.Fundamentals)
}

func TestLoadCatalog_Errors(t *testing.T) {
	t.Parallel()
	_, err := usecase.LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("roles: []\n"), 0o600))
	_, err = usecase.LoadCatalog(empty)
	require.Error(t, err)
}

func TestCatalog_RoleLookup(t *testing.T) {
	t.Parallel()
	c := usecase.DefaultCatalog()
	_, ok := c.Role("Astronaut")
	assert.False(t, ok)
	p, ok := c.Role("React Developer")
	require.True(t, ok)
	assert.Equal(t, "JavaScript / React", p.Language)
}

func TestValidLevel(t *testing.T) {
	t.Parallel()
	for _, l := range []string{"Junior", "Mid", "Senior"} {
		assert.True(t, usecase.ValidLevel(l), l)
	}
	assert.False(t, usecase.ValidLevel("junior"))
	assert.False(t, usecase.ValidLevel("Principal"))
}
