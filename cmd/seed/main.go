package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/meur/gamecatalog/internal/catalog"
	"github.com/meur/gamecatalog/internal/logging"
	"github.com/meur/gamecatalog/internal/models"
	"github.com/meur/gamecatalog/internal/storage"
)

func main() {
	dbPath := flag.String("db", "./gamecatalog.db", "SQLite database path")
	seedsDir := flag.String("seeds", "./seeds", "Seeds directory")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	logger, err := logging.New(*logLevel, "console")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := storage.New(*dbPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer store.Close()

	files, err := filepath.Glob(filepath.Join(*seedsDir, "*.json"))
	if err != nil {
		logger.Fatal("bad seeds pattern", zap.Error(err))
	}
	sort.Strings(files)

	var games []models.Game
	for _, path := range files {
		batch, err := catalog.ReadFile(path)
		if err != nil {
			logger.Warn("skipping seed file", zap.String("file", path), zap.Error(err))
			continue
		}
		games = append(games, batch...)
		logger.Info("read seed file", zap.String("file", filepath.Base(path)), zap.Int("games", len(batch)))
	}

	// validate as a whole so duplicates across files are caught before writing
	if _, err := catalog.New(games); err != nil {
		logger.Fatal("invalid seed data", zap.Error(err))
	}
	if err := store.BulkCreateGames(games); err != nil {
		logger.Fatal("failed to seed games", zap.Error(err))
	}

	total, err := store.CountGames()
	if err != nil {
		logger.Fatal("failed to count games", zap.Error(err))
	}
	logger.Info("seeding complete", zap.Int("seeded", len(games)), zap.Int("total", total))
}
