// internal/devserver/store.go
//
// In-memory tournament store for the development service.
//
// Context
//   The development service stands in for the real tournament backend so
//   the client can be exercised end to end without a database.  State lives
//   in process memory and is lost on restart.  Tournament ids are sequential
//   integers, matching the numeric ids the forms submit.  Registration ids
//   are UUIDs.
//
//------------------------------------------------------------------------------

package devserver

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Errors carry the exact text the service reports to the client.
var (
	ErrNotFound = errors.New("Tournament not found")
	ErrFull     = errors.New("Tournament is full")
)

// Tournament is one scheduled event.
type Tournament struct {
	ID          int64
	Name        string
	Description string
	Date        string // YYYY-MM-DD
	Time        string // HH:MM
	Location    string
	MaxEntrants int
}

// Registration is one player's entry.
type Registration struct {
	ID           string
	FirstName    string
	Surname      string
	Email        string
	TournamentID int64
	CreatedAt    time.Time
}

// Summary is a tournament plus its entry count, for listings.
type Summary struct {
	Tournament
	Entries int
}

// Full reports whether no more registrations are accepted.
func (s Summary) Full() bool { return s.Entries >= s.MaxEntrants }

// Store is safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	nextID      int64
	tournaments map[int64]Tournament
	entries     map[int64][]Registration
	now         func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		nextID:      1,
		tournaments: make(map[int64]Tournament),
		entries:     make(map[int64][]Registration),
		now:         time.Now,
	}
}

// Create assigns an id and stores t.
func (s *Store) Create(t Tournament) Tournament {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextID
	s.nextID++
	s.tournaments[t.ID] = t
	return t
}

// Get returns one tournament.
func (s *Store) Get(id int64) (Tournament, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tournaments[id]
	return t, ok
}

// Update replaces every editable field of tournament id.
func (s *Store) Update(id int64, t Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tournaments[id]; !ok {
		return ErrNotFound
	}
	t.ID = id
	s.tournaments[id] = t
	return nil
}

// Delete removes a tournament and its registrations.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tournaments[id]; !ok {
		return ErrNotFound
	}
	delete(s.tournaments, id)
	delete(s.entries, id)
	return nil
}

// Register adds an entry unless the tournament is missing or full.
func (s *Store) Register(r Registration) (Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tournaments[r.TournamentID]
	if !ok {
		return Registration{}, ErrNotFound
	}
	if len(s.entries[t.ID]) >= t.MaxEntrants {
		return Registration{}, ErrFull
	}
	r.ID = uuid.NewString()
	r.CreatedAt = s.now().UTC()
	s.entries[t.ID] = append(s.entries[t.ID], r)
	return r, nil
}

// Entries lists the registrations of one tournament in arrival order.
func (s *Store) Entries(id int64) []Registration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Registration(nil), s.entries[id]...)
}

// List returns every tournament ordered by date, time, then id.
func (s *Store) List() []Summary {
	s.mu.RLock()
	out := make([]Summary, 0, len(s.tournaments))
	for _, t := range s.tournaments {
		out = append(out, Summary{Tournament: t, Entries: len(s.entries[t.ID])})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.ID < b.ID
	})
	return out
}

// Open lists the tournaments still accepting registrations.
func (s *Store) Open() []Summary {
	all := s.List()
	out := all[:0]
	for _, t := range all {
		if !t.Full() {
			out = append(out, t)
		}
	}
	return out
}

// Seed inserts a few upcoming tournaments relative to now.
func (s *Store) Seed(now time.Time) {
	day := func(n int) string { return now.AddDate(0, 0, n).UTC().Format("2006-01-02") }
	s.Create(Tournament{Name: "Club Singles", Description: "Open singles, best of five", Date: day(7), Time: "18:30", Location: "Main hall", MaxEntrants: 16})
	s.Create(Tournament{Name: "Doubles Cup", Description: "Mixed doubles knockout", Date: day(14), Time: "10:00", Location: "Sports centre", MaxEntrants: 8})
	s.Create(Tournament{Name: "Junior Open", Description: "Under-16 round robin", Date: day(21), Time: "09:30", Location: "School gym", MaxEntrants: 2})
}
