package storage

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/plotarc/internal/lexicon"
)

// LexiconFileName is where the YAML lexicon lives inside the data directory
const LexiconFileName = "lexicon.yaml"

const lexiconFileVersion = 1

type lexiconDocument struct {
	Version       int `yaml:"version"`
	lexicon.Lists `yaml:",inline"`
}

// LexiconFile persists the lexicon as a YAML document on a Storage
type LexiconFile struct {
	store Storage
	path  string
}

// NewLexiconFile stores the lexicon at LexiconFileName on store
func NewLexiconFile(store Storage) *LexiconFile {
	return &LexiconFile{store: store, path: LexiconFileName}
}

// Load implements lexicon.Repository
func (f *LexiconFile) Load(ctx context.Context) (lexicon.Lists, error) {
	if !f.store.Exists(ctx, f.path) {
		return lexicon.Lists{}, lexicon.ErrNotFound
	}

	data, err := f.store.Load(ctx, f.path)
	if err != nil {
		return lexicon.Lists{}, fmt.Errorf("loading lexicon: %w", err)
	}

	var doc lexiconDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return lexicon.Lists{}, fmt.Errorf("parsing %s: %w", f.path, err)
	}
	if doc.Version > lexiconFileVersion {
		slog.Warn("Lexicon file written by a newer version",
			"path", f.path,
			"file_version", doc.Version,
			"supported_version", lexiconFileVersion,
		)
	}
	return doc.Lists, nil
}

// Save implements lexicon.Repository
func (f *LexiconFile) Save(ctx context.Context, lists lexicon.Lists) error {
	data, err := yaml.Marshal(lexiconDocument{Version: lexiconFileVersion, Lists: lists})
	if err != nil {
		return fmt.Errorf("marshaling lexicon: %w", err)
	}
	if err := f.store.Save(ctx, f.path, data); err != nil {
		return fmt.Errorf("saving lexicon: %w", err)
	}
	slog.Debug("Lexicon saved", "path", f.path, "bytes", len(data))
	return nil
}
