// Package feature maps free-text feature labels to display categories.
package feature

import "strings"

// Category is the display classification of a feature label.
type Category string

const (
	Multiplayer  Category = "multiplayer"
	Smart        Category = "smart"
	Competitive  Category = "competitive"
	VisualEffect Category = "visual-effect"
	Generic      Category = "generic"
)

// rule matches when the lowercased label contains any keyword.
type rule struct {
	keywords []string
	category Category
}

// rules are evaluated top-down; the first match wins.
var rules = []rule{
	{keywords: []string{"multiplayer", "online"}, category: Multiplayer},
	{keywords: []string{"ai", "smart"}, category: Smart},
	{keywords: []string{"tournament", "score"}, category: Competitive},
	{keywords: []string{"effect", "visual"}, category: VisualEffect},
}

// Classify returns the category for a feature label. Unmatched labels are Generic.
func Classify(label string) Category {
	l := strings.ToLower(label)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(l, kw) {
				return r.category
			}
		}
	}
	return Generic
}

// Badge is a classified feature label ready for rendering.
type Badge struct {
	Label    string   `json:"label"`
	Category Category `json:"category"`
	Icon     string   `json:"icon"`
}

// Badges classifies each label, preserving order.
func Badges(labels []string) []Badge {
	badges := make([]Badge, 0, len(labels))
	for _, label := range labels {
		c := Classify(label)
		badges = append(badges, Badge{Label: label, Category: c, Icon: c.Icon()})
	}
	return badges
}

// Icon returns the CSS icon class for the category.
func (c Category) Icon() string {
	switch c {
	case Multiplayer:
		return "icon-users"
	case Smart:
		return "icon-brain"
	case Competitive:
		return "icon-trophy"
	case VisualEffect:
		return "icon-sparkles"
	default:
		return "icon-gamepad"
	}
}

// Glyph returns a terminal-friendly symbol for the category.
func (c Category) Glyph() string {
	switch c {
	case Multiplayer:
		return "👥"
	case Smart:
		return "🧠"
	case Competitive:
		return "🏆"
	case VisualEffect:
		return "✨"
	default:
		return "🎮"
	}
}
