package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/meur/gamecatalog/internal/feature"
	"github.com/meur/gamecatalog/internal/models"
	"github.com/meur/gamecatalog/internal/results"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212"))

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	cardStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.HiddenBorder())

	selectedCardStyle = cardStyle.
				BorderStyle(lipgloss.ThickBorder()).
				BorderForeground(lipgloss.Color("212"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	s := m.snap
	switch s.State {
	case results.Loading:
		b.WriteString(m.spinner.View())
		b.WriteString(" Searching…\n")
	case results.Empty:
		b.WriteString(m.emptyView(s))
	case results.Populated:
		b.WriteString(m.listView(s))
	}

	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) emptyView(s results.Snapshot) string {
	var b strings.Builder
	if s.Query != "" {
		fmt.Fprintf(&b, "No games found for “%s”.\n", s.Query)
	} else {
		b.WriteString("The catalog is empty.\n")
	}
	b.WriteString(mutedStyle.Render("Try another keyword or look through the whole catalog."))
	b.WriteString("\n\n")

	hints := make([]string, 0, len(s.Actions))
	for _, a := range s.Actions {
		switch a.Kind {
		case results.ActionBack:
			hints = append(hints, keyStyle.Render("ctrl+b")+" "+a.Label)
		case results.ActionBrowse:
			hints = append(hints, keyStyle.Render("ctrl+a")+" "+a.Label)
		}
	}
	b.WriteString(strings.Join(hints, "   "))
	b.WriteString("\n")
	return b.String()
}

func (m Model) listView(s results.Snapshot) string {
	var b strings.Builder
	noun := english.PluralWord(len(s.Games), "game", "")
	b.WriteString(mutedStyle.Render(humanize.Comma(int64(len(s.Games))) + " " + noun))
	b.WriteString("\n\n")

	// keep the cursor on screen; each card takes about three lines
	start, end := window(len(s.Games), m.cursor, m.visibleCards())
	for i := start; i < end; i++ {
		b.WriteString(m.card(s.Games[i], i == m.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) visibleCards() int {
	if m.height <= 0 {
		return 10
	}
	return max((m.height-6)/4, 1)
}

// window returns the [start, end) slice of n items that shows cursor.
func window(n, cursor, size int) (int, int) {
	if n <= size {
		return 0, n
	}
	start := cursor - size/2
	start = max(start, 0)
	start = min(start, n-size)
	return start, start + size
}

func (m Model) card(g models.Game, selected bool) string {
	title := titleStyle.Render(g.Title)
	style := cardStyle
	if selected {
		title = selectedTitleStyle.Render(g.Title)
		style = selectedCardStyle
	}

	lines := []string{title}
	meta := []string{}
	if g.Genre != "" {
		meta = append(meta, g.Genre)
	}
	if g.Players > 0 {
		meta = append(meta, humanize.Comma(int64(g.Players))+" players")
	}
	if g.PreviewURL != "" {
		meta = append(meta, "preview")
	}
	if len(meta) > 0 {
		lines = append(lines, mutedStyle.Render(strings.Join(meta, " · ")))
	}
	if len(g.Features) > 0 {
		badges := make([]string, 0, len(g.Features))
		for _, badge := range feature.Badges(g.Features) {
			badges = append(badges, badge.Category.Glyph()+" "+badge.Label)
		}
		lines = append(lines, strings.Join(badges, "  "))
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) footer() string {
	parts := []string{
		keyStyle.Render("enter") + " search",
		keyStyle.Render("↑/↓") + " select",
	}
	if m.player.Attached() {
		st := m.player.State()
		parts = append(parts,
			keyStyle.Render("ctrl+p")+" "+st.PlayIcon(),
			keyStyle.Render("ctrl+o")+" "+st.MuteIcon(),
			keyStyle.Render("ctrl+f")+" ⛶",
		)
	}
	parts = append(parts, keyStyle.Render("esc")+" quit")
	return mutedStyle.Render(strings.Join(parts, "  "))
}
