package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"datachat-resultview/internal/resultview"
)

var (
	ErrResultNotFound = errors.New("result not found")
	ErrEmptyResultID  = errors.New("result id is empty")
)

// ResultStore keeps one result view controller per displayed answer.
type ResultStore interface {
	Put(ctx context.Context, resultID string, view *resultview.Controller) error
	Get(ctx context.Context, resultID string) (*resultview.Controller, error)
	Delete(ctx context.Context, resultID string) error
	EvictIdle(ctx context.Context, ttl time.Duration) []string
	Len() int
}

type entry struct {
	view       *resultview.Controller
	lastAccess time.Time
}

type inMemoryResultStore struct {
	store map[string]*entry // map[resultId]entry
	mu    sync.RWMutex
	now   func() time.Time
}

func NewInMemoryResultStore() ResultStore {
	return &inMemoryResultStore{
		store: make(map[string]*entry),
		now:   time.Now,
	}
}

// Put registers view under resultID, replacing any previous view.
func (s *inMemoryResultStore) Put(ctx context.Context, resultID string, view *resultview.Controller) error {
	if resultID == "" {
		return ErrEmptyResultID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.store[resultID]; ok && old.view != view {
		old.view.Close()
	}
	s.store[resultID] = &entry{view: view, lastAccess: s.now()}
	return nil
}

// Get also marks the view as used.
func (s *inMemoryResultStore) Get(ctx context.Context, resultID string) (*resultview.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.store[resultID]; ok {
		e.lastAccess = s.now()
		return e.view, nil
	}
	return nil, ErrResultNotFound
}

func (s *inMemoryResultStore) Delete(ctx context.Context, resultID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.store[resultID]; ok {
		e.view.Close()
		delete(s.store, resultID)
		return nil
	}
	return ErrResultNotFound
}

// EvictIdle drops every view not used within ttl and returns their ids.
func (s *inMemoryResultStore) EvictIdle(ctx context.Context, ttl time.Duration) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-ttl)
	var evicted []string
	for id, e := range s.store {
		if e.lastAccess.Before(cutoff) {
			e.view.Close()
			delete(s.store, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

func (s *inMemoryResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.store)
}
