package lexicon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Repository persists the lexicon between runs
type Repository interface {
	// Load returns ErrNotFound when nothing has been saved yet
	Load(ctx context.Context) (Lists, error)
	Save(ctx context.Context, lists Lists) error
}

// OpResult is what every edit use case returns. Edits never panic or
// return errors to the presentation layer; failures carry a readable message.
type OpResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// Err is the underlying cause for callers that want errors.Is
	Err error `json:"-"`
}

func ok(format string, args ...any) OpResult {
	return OpResult{Success: true, Message: fmt.Sprintf(format, args...)}
}

func failed(err error) OpResult {
	return OpResult{Success: false, Message: err.Error(), Err: err}
}

// WordError describes a rejected vocabulary edit
type WordError struct {
	Word     string
	Category Category
	// Existing is set when the word is already stored elsewhere
	Existing Category
	Err      error
}

func (e *WordError) Error() string {
	if e.Existing != "" {
		return fmt.Sprintf("%q already exists in %s", e.Word, e.Existing)
	}
	return fmt.Sprintf("%s %q: %v", e.Category, e.Word, e.Err)
}

func (e *WordError) Unwrap() error {
	return e.Err
}

// Service implements the lexicon edit use cases on top of a Store and
// persists after every successful mutation.
type Service struct {
	// editMu serializes edits so snapshots reach the repository in the
	// order they were installed
	editMu sync.Mutex
	store  *Store
	repo   Repository
}

// NewService wires a store to a repository. A nil repository keeps the
// lexicon in memory only.
func NewService(store *Store, repo Repository) *Service {
	return &Service{store: store, repo: repo}
}

// Store exposes the underlying snapshot holder for scorers
func (s *Service) Store() *Store {
	return s.store
}

// Snapshot is shorthand for Store().Snapshot()
func (s *Service) Snapshot() *Lexicon {
	return s.store.Snapshot()
}

// Load reads the persisted lexicon. When nothing is stored yet the
// defaults are installed and saved.
func (s *Service) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	s.editMu.Lock()
	defer s.editMu.Unlock()

	lists, err := s.repo.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		slog.Info("No saved lexicon, installing defaults")
		defaults := Default()
		s.store.Replace(defaults)
		if err := s.repo.Save(ctx, defaults.Lists()); err != nil {
			return fmt.Errorf("saving default lexicon: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading lexicon: %w", err)
	}

	lex := New(lists)
	s.store.Replace(lex)
	slog.Debug("Lexicon loaded",
		"high_count", len(lex.Words(High)),
		"medium_count", len(lex.Words(Medium)),
		"low_count", len(lex.Words(Low)),
	)
	return nil
}

// AddWord appends word to category. A word may only live in one category.
func (s *Service) AddWord(ctx context.Context, category, word string) OpResult {
	cat, err := ParseCategory(category)
	if err != nil {
		return failed(err)
	}
	w := NormalizeWord(word)
	if w == "" {
		return failed(&WordError{Word: word, Category: cat, Err: ErrEmptyWord})
	}
	// commas and brackets would not survive an export round trip
	if strings.ContainsAny(w, ",[]") || strings.HasPrefix(w, "#") {
		return failed(&WordError{Word: w, Category: cat, Err: ErrInvalidWord})
	}

	s.editMu.Lock()
	defer s.editMu.Unlock()

	prev, next, err := s.store.update(func(l *Lists) error {
		if existing, found := l.categoryOf(w); found {
			return &WordError{Word: w, Category: cat, Existing: existing, Err: ErrDuplicateWord}
		}
		l.set(cat, append(l.get(cat), w))
		return nil
	})
	if err != nil {
		slog.Debug("Rejected lexicon word", "word", w, "category", cat, "error", err)
		return failed(err)
	}
	if err := s.persist(ctx, prev, next); err != nil {
		return failed(err)
	}
	return ok("%q added to %s", w, cat)
}

// RemoveWord deletes the word at index in category
func (s *Service) RemoveWord(ctx context.Context, category string, index int) OpResult {
	cat, err := ParseCategory(category)
	if err != nil {
		return failed(err)
	}

	s.editMu.Lock()
	defer s.editMu.Unlock()

	var removed string
	prev, next, err := s.store.update(func(l *Lists) error {
		words := l.get(cat)
		if index < 0 || index >= len(words) {
			return fmt.Errorf("%w: %s has %d words, got index %d", ErrIndexOutOfRange, cat, len(words), index)
		}
		removed = words[index]
		rest := make([]string, 0, len(words)-1)
		rest = append(rest, words[:index]...)
		rest = append(rest, words[index+1:]...)
		l.set(cat, rest)
		return nil
	})
	if err != nil {
		return failed(err)
	}
	if err := s.persist(ctx, prev, next); err != nil {
		return failed(err)
	}
	return ok("%q removed from %s", removed, cat)
}

// ResetToDefault restores the shipped vocabulary
func (s *Service) ResetToDefault(ctx context.Context) OpResult {
	s.editMu.Lock()
	defer s.editMu.Unlock()

	defaults := Default()
	prev := s.store.Replace(defaults)
	if err := s.persist(ctx, prev, defaults); err != nil {
		return failed(err)
	}
	return ok("lexicon reset to defaults (%d words)", defaults.Len())
}

// ExportLexicon renders the current lexicon in the hand-editable text format
func (s *Service) ExportLexicon() (string, OpResult) {
	lex := s.store.Snapshot()
	return Export(lex), ok("exported %d words", lex.Len())
}

// ImportLexicon replaces the lexicon with the contents of an export.
// Words repeated across categories keep their first occurrence.
func (s *Service) ImportLexicon(ctx context.Context, text string) OpResult {
	lists, skipped, err := ParseExport(text)
	if err != nil {
		return failed(err)
	}
	s.editMu.Lock()
	defer s.editMu.Unlock()

	next := New(lists)
	prev := s.store.Replace(next)
	if err := s.persist(ctx, prev, next); err != nil {
		return failed(err)
	}
	if skipped > 0 {
		return ok("imported %d words, skipped %d duplicates", next.Len(), skipped)
	}
	return ok("imported %d words", next.Len())
}

// persist saves next, rolling the store back to prev on failure. Callers
// hold editMu.
func (s *Service) persist(ctx context.Context, prev, next *Lexicon) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Save(ctx, next.Lists()); err != nil {
		s.store.restore(prev, next)
		slog.Error("Failed to persist lexicon", "error", err)
		return fmt.Errorf("saving lexicon: %w", err)
	}
	return nil
}
