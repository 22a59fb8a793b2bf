package main

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meur/gamecatalog/internal/feature"
	"github.com/meur/gamecatalog/internal/media"
	"github.com/meur/gamecatalog/internal/models"
	"github.com/meur/gamecatalog/internal/results"
	"github.com/meur/gamecatalog/internal/tui"
)

func (a *app) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query...]",
		Short: "Print the games matching a keyword",
		Example: `  catalog search arena
  catalog search "online arena" --catalog ./seeds/games.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.open()
			if err != nil {
				return err
			}

			var m results.Machine
			t := m.Begin(strings.Join(args, " "))
			m.Resolve(t, cat.Search(t.Query))
			snap := m.Snapshot()

			a.logger.Debug("search evaluated",
				zap.String("query", snap.Query),
				zap.Stringer("state", snap.State),
				zap.Int("results", len(snap.Games)),
			)
			printSnapshot(cmd.OutOrStdout(), snap)
			return nil
		},
	}
}

func (a *app) classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <label...>",
		Short: "Show the badge category of feature labels",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, b := range feature.Badges(args) {
				fmt.Fprintf(out, "%s %-12s %s\n", b.Category.Glyph(), b.Category, b.Label)
			}
			return nil
		},
	}
}

func (a *app) browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [query]",
		Short: "Open the interactive results view",
		Long: `browse opens the terminal results view. When media.mpv_socket is set,
previews of the selected game are loaded into that mpv instance.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.open()
			if err != nil {
				return err
			}

			// the terminal belongs to the view; diagnostics only with --verbose
			logger := zap.NewNop()
			if a.verbose {
				logger = a.logger
			}

			opts := tui.Options{
				Delay:  a.cfg.Search.LoadingDelay,
				Logger: logger,
			}
			if len(args) == 1 {
				opts.Query = args[0]
			}
			if sock := a.cfg.Media.MPVSocket; sock != "" {
				mpv := media.NewMPV(sock)
				defer mpv.Close()
				opts.Player = media.NewController(mpv, logger)
				opts.Load = mpv.Load
			}

			model := tui.New(cat, opts)
			defer model.Close()

			p := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("results view: %w", err)
			}
			return nil
		},
	}
}

func printSnapshot(w io.Writer, snap results.Snapshot) {
	if snap.State == results.Empty {
		if snap.Query != "" {
			fmt.Fprintf(w, "No games found for %q.\n", snap.Query)
		} else {
			fmt.Fprintln(w, "The catalog is empty.")
		}
		for _, act := range snap.Actions {
			switch act.Kind {
			case results.ActionBack:
				fmt.Fprintf(w, "  %s: search again with your previous keyword\n", act.Label)
			case results.ActionBrowse:
				fmt.Fprintf(w, "  %s: catalog browse\n", act.Label)
			}
		}
		return
	}

	n := len(snap.Games)
	if snap.Query != "" {
		fmt.Fprintf(w, "%s %s for %q\n", humanize.Comma(int64(n)), english.PluralWord(n, "result", ""), snap.Query)
	} else {
		fmt.Fprintf(w, "%s %s\n", humanize.Comma(int64(n)), english.PluralWord(n, "game", ""))
	}
	for i, g := range snap.Games {
		fmt.Fprintf(w, "%3d. %s\n", i+1, describe(g))
		if len(g.Features) > 0 {
			badges := make([]string, 0, len(g.Features))
			for _, b := range feature.Badges(g.Features) {
				badges = append(badges, b.Category.Glyph()+" "+b.Label)
			}
			fmt.Fprintf(w, "     %s\n", strings.Join(badges, "  "))
		}
	}
}

func describe(g models.Game) string {
	parts := []string{g.Title}
	if g.Genre != "" {
		parts = append(parts, g.Genre)
	}
	if g.Players > 0 {
		parts = append(parts, humanize.Comma(int64(g.Players))+" players")
	}
	return strings.Join(parts, " · ")
}
