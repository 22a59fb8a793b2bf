package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/gamecatalog/internal/catalog"
	"github.com/meur/gamecatalog/internal/models"
)

func arenaGames() []models.Game {
	return []models.Game{
		{ID: "1", Title: "Online Arena"},
		{ID: "2", Title: "Puzzle Garden"},
		{ID: "3", Title: "Arena Legends"},
		{ID: "4", Title: "Kart Racer"},
	}
}

func TestMachine_BeginEntersLoading(t *testing.T) {
	var m Machine

	tk := m.Begin("arena")
	s := m.Snapshot()
	assert.Equal(t, Loading, s.State)
	assert.Equal(t, "arena", s.Query)
	assert.Empty(t, s.Games)
	assert.Equal(t, tk.Seq, s.Seq)
}

func TestMachine_PopulatedInCollectionOrder(t *testing.T) {
	var m Machine
	games := arenaGames()

	tk := m.Begin("arena")
	require.True(t, m.Resolve(tk, catalog.Search(tk.Query, games)))

	s := m.Snapshot()
	assert.Equal(t, Populated, s.State)
	require.Len(t, s.Games, 2)
	assert.Equal(t, "1", s.Games[0].ID)
	assert.Equal(t, "3", s.Games[1].ID)
	assert.Empty(t, s.Actions)
}

func TestMachine_EmptyOffersRecovery(t *testing.T) {
	var m Machine

	tk := m.Begin("zzzznotfound")
	require.True(t, m.Resolve(tk, catalog.Search(tk.Query, arenaGames())))

	s := m.Snapshot()
	assert.Equal(t, Empty, s.State)
	assert.Empty(t, s.Games)
	require.Len(t, s.Actions, 2)
	assert.Equal(t, ActionBack, s.Actions[0].Kind)
	assert.Equal(t, ActionBrowse, s.Actions[1].Kind)
	assert.Equal(t, BrowsePath, s.Actions[1].Path)
}

func TestMachine_StaleResolveDiscarded(t *testing.T) {
	var m Machine
	games := arenaGames()

	first := m.Begin("puzzle")
	second := m.Begin("arena")

	// the older evaluation finishes last and must not win
	assert.True(t, m.Resolve(second, catalog.Search(second.Query, games)))
	assert.False(t, m.Resolve(first, catalog.Search(first.Query, games)))

	s := m.Snapshot()
	assert.Equal(t, "arena", s.Query)
	assert.Len(t, s.Games, 2)
}

func TestMachine_StaleResolveWhileLoading(t *testing.T) {
	var m Machine

	first := m.Begin("arena")
	m.Begin("arena")

	assert.False(t, m.Resolve(first, arenaGames()))
	assert.Equal(t, Loading, m.Snapshot().State)
}

func TestMachine_IdenticalResubmitReentersLoading(t *testing.T) {
	var m Machine

	tk := m.Begin("arena")
	require.True(t, m.Resolve(tk, arenaGames()[:1]))

	again := m.Begin("arena")
	assert.Greater(t, again.Seq, tk.Seq)
	assert.Equal(t, Loading, m.Snapshot().State)
}

func TestMachine_ResolveTwiceIgnored(t *testing.T) {
	var m Machine

	tk := m.Begin("arena")
	require.True(t, m.Resolve(tk, arenaGames()[:1]))
	assert.False(t, m.Resolve(tk, nil))
	assert.Equal(t, Populated, m.Snapshot().State)
}

func TestMachine_SnapshotIsCopy(t *testing.T) {
	var m Machine
	tk := m.Begin("")
	require.True(t, m.Resolve(tk, arenaGames()))

	s := m.Snapshot()
	s.Games[0].Title = "mutated"
	assert.Equal(t, "Online Arena", m.Snapshot().Games[0].Title)
}

type recordingNavigator struct {
	backs int
	paths []string
}

func (n *recordingNavigator) Back()                { n.backs++ }
func (n *recordingNavigator) Navigate(path string) { n.paths = append(n.paths, path) }

func TestPerform(t *testing.T) {
	nav := &recordingNavigator{}

	for _, a := range RecoveryActions() {
		Perform(a, nav)
	}

	assert.Equal(t, 1, nav.backs)
	assert.Equal(t, []string{"/browse"}, nav.paths)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "empty", Empty.String())
	assert.Equal(t, "populated", Populated.String())
	assert.Equal(t, "unknown", State(42).String())

	text, err := Populated.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "populated", string(text))
}
