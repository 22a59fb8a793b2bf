package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meur/gamecatalog/internal/catalog"
	"github.com/meur/gamecatalog/internal/config"
	"github.com/meur/gamecatalog/internal/logging"
	"github.com/meur/gamecatalog/internal/storage"
)

// app carries state shared by every subcommand.
type app struct {
	// Global flags
	configPath  string
	dbPath      string
	catalogFile string
	verbose     bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "catalog",
		Short: "Search and browse the game catalog",
		Long: `catalog queries the game catalog from the terminal.

Records come from a JSON catalog file when one is configured, otherwise
from the SQLite database filled by the seed command.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			o := config.Overrides{DBPath: a.dbPath, CatalogFile: a.catalogFile}
			if a.verbose {
				o.LogLevel = "debug"
			}
			cfg, err := config.Load(a.configPath, o)
			if err != nil {
				return err
			}
			a.cfg = cfg

			logger, err := logging.New(cfg.Log.Level, "console")
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "TOML config file (default ./config.toml if present)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database path")
	root.PersistentFlags().StringVar(&a.catalogFile, "catalog", "", "JSON catalog file, used instead of the database")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(a.searchCmd())
	root.AddCommand(a.classifyCmd())
	root.AddCommand(a.browseCmd())
	return root
}

// open loads the catalog from the configured source.
func (a *app) open() (*catalog.Catalog, error) {
	if a.cfg.Storage.CatalogFile != "" {
		return catalog.LoadFile(a.cfg.Storage.CatalogFile)
	}

	store, err := storage.New(a.cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize storage: %w", err)
	}
	defer store.Close()
	return catalog.Load(store)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
