package painlog

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotFound      = errors.New("entry not found")
	ErrAlreadyExists = errors.New("entry already exists")
)

// Repository is the storage contract the analytics engine depends on.
// Implementations must return entries in insertion order; chronological
// ordering is the engine's own responsibility.
type Repository interface {
	ListEntries(ctx context.Context, userID string) ([]Entry, error)
	GetEntry(ctx context.Context, userID, entryID string) (*Entry, error)
	AppendEntry(ctx context.Context, userID string, entry Entry) error
	ReplaceEntry(ctx context.Context, userID string, entry Entry) error
	DeleteEntry(ctx context.Context, userID, entryID string) error
}

// MemoryStore is an in-memory Repository used by tests and demo seeding
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]Entry // userID -> insertion-ordered entries
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]Entry),
	}
}

// ListEntries returns a copy of the user's entries in insertion order
func (s *MemoryStore) ListEntries(ctx context.Context, userID string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.entries[userID]
	out := make([]Entry, len(stored))
	copy(out, stored)
	return out, nil
}

// GetEntry returns a single entry by ID
func (s *MemoryStore) GetEntry(ctx context.Context, userID, entryID string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries[userID] {
		if e.ID == entryID {
			found := e
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

// AppendEntry stores a new entry
func (s *MemoryStore) AppendEntry(ctx context.Context, userID string, entry Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries[userID] {
		if e.ID == entry.ID {
			return ErrAlreadyExists
		}
	}
	s.entries[userID] = append(s.entries[userID], entry)
	return nil
}

// ReplaceEntry swaps an existing entry for a new version with the same ID
func (s *MemoryStore) ReplaceEntry(ctx context.Context, userID string, entry Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries[userID] {
		if e.ID == entry.ID {
			s.entries[userID][i] = entry
			return nil
		}
	}
	return ErrNotFound
}

// DeleteEntry removes an entry by ID
func (s *MemoryStore) DeleteEntry(ctx context.Context, userID, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.entries[userID]
	for i, e := range stored {
		if e.ID == entryID {
			s.entries[userID] = append(stored[:i], stored[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
