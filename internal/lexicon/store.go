package lexicon

import "sync"

// Store is the shared, mutable holder of the current lexicon. Readers take
// a Snapshot and keep it for a whole scoring pass; writers swap in a new
// snapshot, so a pass never sees a half-edited word list.
type Store struct {
	mu      sync.RWMutex
	current *Lexicon
}

// NewStore starts from initial, or from the defaults when initial is nil
func NewStore(initial *Lexicon) *Store {
	if initial == nil {
		initial = Default()
	}
	return &Store{current: initial}
}

// Snapshot returns the current immutable lexicon
func (s *Store) Snapshot() *Lexicon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Replace installs next and returns the snapshot it replaced
func (s *Store) Replace(next *Lexicon) *Lexicon {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.current
	s.current = next
	return prev
}

// update applies fn to a copy of the current lists under the write lock.
// When fn fails nothing changes.
func (s *Store) update(fn func(*Lists) error) (prev, next *Lexicon, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists := s.current.Lists()
	if err := fn(&lists); err != nil {
		return s.current, s.current, err
	}
	prev = s.current
	s.current = New(lists)
	return prev, s.current, nil
}

// restore puts prev back only if nobody replaced next in the meantime
func (s *Store) restore(prev, next *Lexicon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == next {
		s.current = prev
	}
}
