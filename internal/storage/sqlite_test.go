package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/gamecatalog/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGetGames_InsertionOrder(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.BulkCreateGames([]models.Game{
		{ID: "z", Title: "Zeta"},
		{ID: "a", Title: "Alpha", Tags: []string{"retro"}},
	}))
	require.NoError(t, store.CreateGame(&models.Game{ID: "m", Title: "Mid", Features: []string{"Online Play"}}))

	games, err := store.GetGames()
	require.NoError(t, err)
	require.Len(t, games, 3)

	assert.Equal(t, "z", games[0].ID)
	assert.Equal(t, "a", games[1].ID)
	assert.Equal(t, "m", games[2].ID)
	assert.Equal(t, []string{"retro"}, games[1].Tags)
	assert.Equal(t, []string{"Online Play"}, games[2].Features)
	assert.False(t, games[0].CreatedAt.IsZero())
}

func TestBulkCreateGames_ReplaceKeepsPosition(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.BulkCreateGames([]models.Game{
		{ID: "one", Title: "One"},
		{ID: "two", Title: "Two"},
	}))
	require.NoError(t, store.BulkCreateGames([]models.Game{
		{ID: "one", Title: "One Remastered"},
	}))

	games, err := store.GetGames()
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "One Remastered", games[0].Title)
	assert.Equal(t, "two", games[1].ID)

	n, err := store.CountGames()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestGetGame_NotFound(t *testing.T) {
	store := newTestStore(t)

	g, err := store.GetGame("missing")
	require.NoError(t, err)
	assert.Nil(t, g)
}

func TestGetGame_Found(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateGame(&models.Game{
		ID:         "arena",
		Title:      "Online Arena",
		Genre:      "Action",
		PreviewURL: "https://cdn.example/arena.mp4",
		Players:    1200,
	}))

	g, err := store.GetGame("arena")
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, "Online Arena", g.Title)
	assert.Equal(t, "Action", g.Genre)
	assert.Equal(t, "https://cdn.example/arena.mp4", g.PreviewURL)
	assert.Equal(t, 1200, g.Players)
	assert.Empty(t, g.Tags)
}
