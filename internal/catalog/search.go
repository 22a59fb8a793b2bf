package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/meur/gamecatalog/internal/models"
)

// Normalize prepares text for matching: surrounding whitespace is trimmed,
// the text is NFC-normalized and case folded.
func Normalize(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

// Matches reports whether game has a searchable field containing query,
// case-insensitively. An empty query matches every game.
func Matches(query string, game models.Game) bool {
	return matchNormalized(Normalize(query), game)
}

func matchNormalized(q string, game models.Game) bool {
	if q == "" {
		return true
	}
	for _, field := range game.SearchFields() {
		if strings.Contains(Normalize(field), q) {
			return true
		}
	}
	return false
}

// Search returns the games matching query in their original order.
// A blank query returns every game. The result never shares a backing
// array with games.
func Search(query string, games []models.Game) []models.Game {
	q := Normalize(query)
	out := make([]models.Game, 0, len(games))
	for _, g := range games {
		if matchNormalized(q, g) {
			out = append(out, g)
		}
	}
	return out
}
