package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/meur/gamecatalog/internal/models"
)

// Store handles all database operations
type Store struct {
	db *sql.DB
}

// New creates a new Store with SQLite
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs database migrations
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			genre TEXT,
			description TEXT,
			tags TEXT,
			features TEXT,
			thumbnail TEXT,
			preview_url TEXT,
			players INTEGER DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_games_position ON games(position)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

const gameColumns = `id, title, genre, description, tags, features, thumbnail, preview_url, players, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (models.Game, error) {
	var g models.Game
	var genre, description, tags, features, thumbnail, previewURL sql.NullString
	err := row.Scan(&g.ID, &g.Title, &genre, &description, &tags, &features,
		&thumbnail, &previewURL, &g.Players, &g.CreatedAt)
	if err != nil {
		return g, err
	}
	g.Genre = genre.String
	g.Description = description.String
	g.Thumbnail = thumbnail.String
	g.PreviewURL = previewURL.String
	if err := decodeList(tags.String, &g.Tags); err != nil {
		return g, fmt.Errorf("decode tags for %s: %w", g.ID, err)
	}
	if err := decodeList(features.String, &g.Features); err != nil {
		return g, fmt.Errorf("decode features for %s: %w", g.ID, err)
	}
	return g, nil
}

func decodeList(raw string, dst *[]string) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}

// --- Games ---

// GetGames returns all games in insertion order
func (s *Store) GetGames() ([]models.Game, error) {
	rows, err := s.db.Query(`SELECT ` + gameColumns + ` FROM games ORDER BY position, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// GetGame returns a game by ID
func (s *Store) GetGame(id string) (*models.Game, error) {
	g, err := scanGame(s.db.QueryRow(`SELECT `+gameColumns+` FROM games WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// CountGames returns the number of stored games
func (s *Store) CountGames() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM games`).Scan(&n)
	return n, err
}

// CreateGame appends a game after the existing ones
func (s *Store) CreateGame(g *models.Game) error {
	return s.BulkCreateGames([]models.Game{*g})
}

// BulkCreateGames upserts games in a transaction. New games are positioned
// after existing ones in slice order; replaced games keep their position
func (s *Store) BulkCreateGames(games []models.Game) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRow(`SELECT COALESCE(MAX(position), -1) + 1 FROM games`).Scan(&next); err != nil {
		return fmt.Errorf("read next position: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO games (id, position, title, genre, description, tags, features, thumbnail, preview_url, players, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			genre = excluded.genre,
			description = excluded.description,
			tags = excluded.tags,
			features = excluded.features,
			thumbnail = excluded.thumbnail,
			preview_url = excluded.preview_url,
			players = excluded.players
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, g := range games {
		tags, _ := json.Marshal(nonNil(g.Tags))
		features, _ := json.Marshal(nonNil(g.Features))
		createdAt := g.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		_, err := stmt.Exec(g.ID, next, g.Title, g.Genre, g.Description, string(tags), string(features),
			g.Thumbnail, g.PreviewURL, g.Players, createdAt)
		if err != nil {
			return fmt.Errorf("insert game %s: %w", g.ID, err)
		}
		next++
	}

	return tx.Commit()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
