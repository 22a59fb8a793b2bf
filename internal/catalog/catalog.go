// Package catalog holds the immutable in-memory game collection and the
// keyword query engine that filters it.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/meur/gamecatalog/internal/models"
)

// ErrDuplicateID is returned when two records share an identifier.
var ErrDuplicateID = errors.New("duplicate game id")

// Source supplies the records a Catalog is built from.
type Source interface {
	GetGames() ([]models.Game, error)
}

// Catalog is a read-only game collection. It is safe for concurrent use.
type Catalog struct {
	games []models.Game
	byID  map[string]int
}

var validate = validator.New()

// New builds a Catalog from games, keeping their order.
func New(games []models.Game) (*Catalog, error) {
	c := &Catalog{
		games: make([]models.Game, len(games)),
		byID:  make(map[string]int, len(games)),
	}
	for i, g := range games {
		if err := validate.Struct(g); err != nil {
			return nil, fmt.Errorf("game %d (%q): %w", i, g.ID, err)
		}
		if _, dup := c.byID[g.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, g.ID)
		}
		g.Tags = slices.Clone(g.Tags)
		g.Features = slices.Clone(g.Features)
		c.games[i] = g
		c.byID[g.ID] = i
	}
	return c, nil
}

// Load builds a Catalog from src.
func Load(src Source) (*Catalog, error) {
	games, err := src.GetGames()
	if err != nil {
		return nil, fmt.Errorf("load games: %w", err)
	}
	return New(games)
}

// ReadFile decodes a JSON array of games. Records without an ID get a
// stable one derived from their title.
func ReadFile(path string) ([]models.Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var games []models.Game
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i := range games {
		if games[i].ID == "" && games[i].Title != "" {
			games[i].ID = StableID(games[i].Title)
		}
	}
	return games, nil
}

// LoadFile builds a Catalog from a JSON file.
func LoadFile(path string) (*Catalog, error) {
	games, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(games)
}

// StableID derives a deterministic identifier from a title.
func StableID(title string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("gamecatalog:"+title)).String()
}

// All returns every game in collection order.
func (c *Catalog) All() []models.Game {
	return slices.Clone(c.games)
}

// Get returns the game with id, or false.
func (c *Catalog) Get(id string) (models.Game, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Game{}, false
	}
	return c.games[i], true
}

// Search filters the catalog by query.
func (c *Catalog) Search(query string) []models.Game {
	return Search(query, c.games)
}

// Len returns the number of games.
func (c *Catalog) Len() int {
	return len(c.games)
}
