package models

import (
	"time"
)

// Game represents a catalog entry
type Game struct {
	ID          string    `json:"id" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Genre       string    `json:"genre"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Features    []string  `json:"features"`    // Free-text feature labels, classified for badges
	Thumbnail   string    `json:"thumbnail"`   // Card image URL
	PreviewURL  string    `json:"preview_url"` // Media preview video URL
	Players     int       `json:"players"`     // Player count, display only
	CreatedAt   time.Time `json:"created_at"`
}

// SearchFields returns the text fields eligible for search matching
func (g Game) SearchFields() []string {
	fields := make([]string, 0, 3+len(g.Tags))
	fields = append(fields, g.Title, g.Genre, g.Description)
	return append(fields, g.Tags...)
}
