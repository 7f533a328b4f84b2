package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dotcommander/plotarc/internal/storage"
)

const sessionsDir = "sessions"

var ErrSessionNotFound = errors.New("session not found")

// Archiver stores analyses as session directories on a Storage
type Archiver struct {
	store  storage.Storage
	naming storage.SessionNamingStrategy
}

func NewArchiver(store storage.Storage, naming storage.SessionNamingStrategy) *Archiver {
	return &Archiver{store: store, naming: naming}
}

// Save writes the JSON and text renderings of a plus a README into a new
// session directory and returns that directory, relative to the store.
func (ar *Archiver) Save(ctx context.Context, a *Analysis) (string, error) {
	sessionID := storage.NewSessionID()
	dir := storage.CreateSessionPath("", sessionID, a.Title, ar.naming)

	files := []struct {
		name   string
		format Format
	}{
		{"report.json", FormatJSON},
		{"report.txt", FormatText},
	}
	for _, f := range files {
		var buf bytes.Buffer
		if err := Render(&buf, a, f.format); err != nil {
			return "", fmt.Errorf("rendering %s: %w", f.name, err)
		}
		if err := ar.store.Save(ctx, filepath.Join(dir, f.name), buf.Bytes()); err != nil {
			return "", fmt.Errorf("saving %s: %w", f.name, err)
		}
	}

	readme := storage.SessionMetadata(sessionID, a.Title, len(a.Points))
	if err := ar.store.Save(ctx, filepath.Join(dir, "README.md"), readme); err != nil {
		return "", fmt.Errorf("saving session metadata: %w", err)
	}

	slog.Info("Analysis archived", "session_id", sessionID, "path", dir)
	return dir, nil
}

// Sessions lists archived session names, oldest first for the timestamp
// and descriptive naming strategies
func (ar *Archiver) Sessions(ctx context.Context) ([]string, error) {
	dirs, err := ar.store.List(ctx, filepath.Join(sessionsDir, "*"))
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	names := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		names = append(names, filepath.Base(dir))
	}
	return names, nil
}

// Remove deletes the session called name and every file in it
func (ar *Archiver) Remove(ctx context.Context, name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\*?[]`) {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, name)
	}
	dir := filepath.Join(sessionsDir, name)
	if !ar.store.Exists(ctx, dir) {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, name)
	}

	files, err := ar.store.List(ctx, filepath.Join(dir, "*"))
	if err != nil {
		return fmt.Errorf("listing session files: %w", err)
	}
	for _, f := range files {
		if err := ar.store.Delete(ctx, f); err != nil {
			return err
		}
	}
	if err := ar.store.Delete(ctx, dir); err != nil {
		return err
	}
	slog.Info("Session removed", "session", name)
	return nil
}
