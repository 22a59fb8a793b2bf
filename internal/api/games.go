package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meur/gamecatalog/internal/feature"
	"github.com/meur/gamecatalog/internal/models"
	"github.com/meur/gamecatalog/internal/results"
)

// gameCard is a game with its classified feature badges
type gameCard struct {
	models.Game
	Badges []feature.Badge `json:"badges"`
}

func cards(games []models.Game) []gameCard {
	out := make([]gameCard, 0, len(games))
	for _, g := range games {
		out = append(out, gameCard{Game: g, Badges: feature.Badges(g.Features)})
	}
	return out
}

// handleGetGames returns all available games
func (s *Server) handleGetGames(w http.ResponseWriter, r *http.Request) {
	games := s.catalog.All()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":       cards(games),
		"total_count": len(games),
	})
}

// handleGetGame returns a single game by ID
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	game, ok := s.catalog.Get(gameID)
	if !ok {
		respondError(w, http.StatusNotFound, "Game not found")
		return
	}

	respondJSON(w, http.StatusOK, cards([]models.Game{game})[0])
}

// evaluate runs one results cycle for the query and returns the settled snapshot
func (s *Server) evaluate(query string) results.Snapshot {
	var m results.Machine
	t := m.Begin(query)
	m.Resolve(t, s.catalog.Search(t.Query))
	return m.Snapshot()
}

// handleSearch filters the catalog by the q parameter
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	snap := s.evaluate(r.URL.Query().Get("q"))

	resp := map[string]interface{}{
		"query":       snap.Query,
		"state":       snap.State,
		"items":       cards(snap.Games),
		"total_count": len(snap.Games),
	}
	// recovery actions only accompany the empty state
	if len(snap.Actions) > 0 {
		resp["actions"] = snap.Actions
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleClassifyFeature returns the display category for a feature label
func (s *Server) handleClassifyFeature(w http.ResponseWriter, r *http.Request) {
	label := r.URL.Query().Get("label")
	if label == "" {
		respondError(w, http.StatusBadRequest, "label is required")
		return
	}

	c := feature.Classify(label)
	respondJSON(w, http.StatusOK, feature.Badge{Label: label, Category: c, Icon: c.Icon()})
}
