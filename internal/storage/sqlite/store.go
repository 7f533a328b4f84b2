// Package sqlite persists the tension lexicon in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dotcommander/plotarc/internal/lexicon"
	"github.com/dotcommander/plotarc/internal/storage/sqlite/migrations"
)

// FileName is the database file created inside the data directory
const FileName = "plotarc.db"

// Store provides SQLite-backed lexicon persistence. It implements
// lexicon.Repository.
type Store struct {
	sqlDB *sql.DB
}

// Open opens and migrates a lexicon SQLite store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("Opened lexicon database", "path", cleanPath)
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Load returns the saved lexicon, or lexicon.ErrNotFound when nothing has
// been saved yet.
func (s *Store) Load(ctx context.Context) (lexicon.Lists, error) {
	if s == nil || s.sqlDB == nil {
		return lexicon.Lists{}, fmt.Errorf("storage is not configured")
	}

	var savedAt int64
	err := s.sqlDB.QueryRowContext(ctx, `SELECT saved_at FROM lexicon_meta WHERE id = 1`).Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return lexicon.Lists{}, lexicon.ErrNotFound
	}
	if err != nil {
		return lexicon.Lists{}, fmt.Errorf("read lexicon meta: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT category, word FROM lexicon_words ORDER BY category, position`)
	if err != nil {
		return lexicon.Lists{}, fmt.Errorf("query lexicon words: %w", err)
	}
	defer rows.Close()

	words := map[lexicon.Category][]string{}
	for rows.Next() {
		var category, word string
		if err := rows.Scan(&category, &word); err != nil {
			return lexicon.Lists{}, fmt.Errorf("scan lexicon word: %w", err)
		}
		cat, err := lexicon.ParseCategory(category)
		if err != nil {
			return lexicon.Lists{}, fmt.Errorf("stored word %q: %w", word, err)
		}
		words[cat] = append(words[cat], word)
	}
	if err := rows.Err(); err != nil {
		return lexicon.Lists{}, fmt.Errorf("iterate lexicon words: %w", err)
	}

	return lexicon.Lists{
		High:   nonNil(words[lexicon.High]),
		Medium: nonNil(words[lexicon.Medium]),
		Low:    nonNil(words[lexicon.Low]),
	}, nil
}

// Save replaces the stored lexicon in a single transaction.
func (s *Store) Save(ctx context.Context, lists lexicon.Lists) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin lexicon save: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM lexicon_words`); err != nil {
		return fmt.Errorf("clear lexicon words: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO lexicon_words (category, position, word) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare lexicon insert: %w", err)
	}
	defer stmt.Close()

	for _, cat := range lexicon.Categories {
		for i, word := range wordsOf(lists, cat) {
			if _, err := stmt.ExecContext(ctx, string(cat), i, word); err != nil {
				return fmt.Errorf("insert %s word %q: %w", cat, word, err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO lexicon_meta (id, saved_at) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at`,
		time.Now().UTC().UnixMilli(),
	); err != nil {
		return fmt.Errorf("update lexicon meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit lexicon save: %w", err)
	}
	return nil
}

func wordsOf(lists lexicon.Lists, cat lexicon.Category) []string {
	switch cat {
	case lexicon.High:
		return lists.High
	case lexicon.Medium:
		return lists.Medium
	default:
		return lists.Low
	}
}

func nonNil(words []string) []string {
	if words == nil {
		return []string{}
	}
	return words
}

const migrationTable = "schema_migrations"

// applyMigrations executes the embedded .sql files in name order, each at
// most once.
func applyMigrations(sqlDB *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := sqlDB.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`, migrationTable)); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		var applied int
		if err := sqlDB.QueryRow(
			fmt.Sprintf("SELECT COUNT(1) FROM %s WHERE name = ?", migrationTable), file,
		).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if applied > 0 {
			continue
		}

		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		tx, err := sqlDB.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", file, err)
		}
		if _, err := tx.Exec(upSection(string(content))); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", file, err)
		}
		if _, err := tx.Exec(
			fmt.Sprintf("INSERT INTO %s (name, applied_at) VALUES (?, ?)", migrationTable),
			file, time.Now().UTC().UnixMilli(),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
		slog.Debug("Applied migration", "name", file)
	}
	return nil
}

// upSection returns the SQL between the Up and Down markers
func upSection(content string) string {
	const up, down = "-- +migrate Up", "-- +migrate Down"
	if i := strings.Index(content, up); i >= 0 {
		content = content[i+len(up):]
	}
	if i := strings.Index(content, down); i >= 0 {
		content = content[:i]
	}
	return content
}
