package memstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarthire/ai-interviewer/internal/adapter/repo/memstore"
	"github.com/smarthire/ai-interviewer/internal/domain"
)

func TestSaveGetDelete(t *testing.T) {
	t.Parallel()
	repo := memstore.New()

	s := domain.Session{ID: "s1", JobRole: "ML Engineer", Messages: []domain.Message{{Role: domain.RoleSystem, Content: "sys"}}}
	require.NoError(t, repo.Save(context.Background(), s))

	got, err := repo.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "ML Engineer", got.JobRole)

	require.NoError(t, repo.Delete(context.Background(), "s1"))
	_, err = repo.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, repo.Delete(context.Background(), "s1"))
}

func TestGet_ReturnsCopy(t *testing.T) {
	t.Parallel()
	repo := memstore.New()
	require.NoError(t, repo.Save(context.Background(), domain.Session{
		ID:       "s1",
		Messages: []domain.Message{{Role: domain.RoleAssistant, Content: "Hi!"}},
		Scores:   []int{50},
	}))

	got, err := repo.Get(context.Background(), "s1")
	require.NoError(t, err)
	got.Messages[0].Content = "mutated"
	got.Scores[0] = 0

	fresh, err := repo.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Hi!", fresh.Messages[0].Content)
	assert.Equal(t, []int{50}, fresh.Scores)
}

func TestSave_CopiesInput(t *testing.T) {
	t.Parallel()
	repo := memstore.New()
	msgs := []domain.Message{{Role: domain.RoleUser, Content: "original"}}
	require.NoError(t, repo.Save(context.Background(), domain.Session{ID: "s1", Messages: msgs}))

	msgs[0].Content = "mutated"

	got, err := repo.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "original", got.Messages[0].Content)
}
