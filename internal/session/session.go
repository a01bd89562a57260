// Package session keeps per-browser-session working state in memory.
//
// Each session owns its datasets, the manual remap dictionary, the registry
// editor state and the last lyrics result. Nothing is shared between
// sessions. Callers hold the session lock for the whole request, so at most
// one request mutates a session at a time.
package session

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/JonMunkholm/toolbox/internal/lyrics"
	"github.com/JonMunkholm/toolbox/internal/societary"
	"github.com/JonMunkholm/toolbox/internal/table"
)

var (
	ErrDatasetExists   = errors.New("dataset already exists")
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrTooManyDatasets = errors.New("too many datasets in session")
	ErrEmptyName       = errors.New("dataset name is required")
	ErrNoSource        = errors.New("original file is not available")
)

// RemapEntry is one manual from/to pair.
type RemapEntry struct {
	From string
	To   string
}

// RegistryState is the working state of the registry editor.
type RegistryState struct {
	Original *societary.Record
	Views    societary.Views
	Source   string // "upload", "paste" or "sample"
	Modified []byte // last saved export
}

// Session is the state of one browser session.
type Session struct {
	ID      string
	Created time.Time

	mu          sync.Mutex
	lastSeen    time.Time
	maxDatasets int

	datasets map[string]*Dataset
	order    []string

	Remap    []RemapEntry
	Registry *RegistryState
	Lyrics   *lyrics.Result

	// Current selections in the UI.
	Module  string
	Current string
}

func newSession(id string, now time.Time, maxDatasets int) *Session {
	return &Session{
		ID:          id,
		Created:     now,
		lastSeen:    now,
		maxDatasets: maxDatasets,
		datasets:    make(map[string]*Dataset),
	}
}

// Lock acquires exclusive access to the session.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// Add stores a new dataset. Names are unique within the session.
func (s *Session) Add(d *Dataset) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return ErrEmptyName
	}
	if _, exists := s.datasets[d.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDatasetExists, d.Name)
	}
	if s.maxDatasets > 0 && len(s.datasets) >= s.maxDatasets {
		return fmt.Errorf("%w (max %d)", ErrTooManyDatasets, s.maxDatasets)
	}
	s.datasets[d.Name] = d
	s.order = append(s.order, d.Name)
	if s.Current == "" {
		s.Current = d.Name
	}
	return nil
}

// Get returns the named dataset.
func (s *Session) Get(name string) (*Dataset, error) {
	d, ok := s.datasets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDatasetNotFound, name)
	}
	return d, nil
}

// Table returns the current table of the named dataset.
func (s *Session) Table(name string) (*table.Table, error) {
	d, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	return d.Data, nil
}

// Remove deletes the named dataset.
func (s *Session) Remove(name string) error {
	if _, ok := s.datasets[name]; !ok {
		return fmt.Errorf("%w: %q", ErrDatasetNotFound, name)
	}
	delete(s.datasets, name)
	s.order = slices.DeleteFunc(s.order, func(n string) bool { return n == name })
	if s.Current == name {
		s.Current = ""
		if len(s.order) > 0 {
			s.Current = s.order[0]
		}
	}
	return nil
}

// Names lists datasets in insertion order.
func (s *Session) Names() []string {
	return slices.Clone(s.order)
}

// Datasets lists datasets in insertion order.
func (s *Session) Datasets() []*Dataset {
	out := make([]*Dataset, len(s.order))
	for i, n := range s.order {
		out[i] = s.datasets[n]
	}
	return out
}

// Len is the number of datasets.
func (s *Session) Len() int { return len(s.datasets) }

// RemapDictionary returns the manual entries as a dictionary. Later entries
// for the same source value win.
func (s *Session) RemapDictionary() table.Dictionary {
	d := make(table.Dictionary, len(s.Remap))
	for _, e := range s.Remap {
		d[e.From] = e.To
	}
	return d
}

// ResetRegistry clears the registry editor state.
func (s *Session) ResetRegistry() { s.Registry = nil }
