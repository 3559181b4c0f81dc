// Package cache holds the last-loaded snapshot of each collection. Reads go
// through the snapshot when present; every successful write must invalidate
// the collections it touched, which is the only consistency mechanism here.
package cache

import (
	"sync"
)

const (
	Documents = "documentos"
	Records   = "registros"
	Personnel = "personal"
	StatusLog = "log_estados"
)

type Store struct {
	mu        sync.RWMutex
	snapshots map[string]any
}

func New() *Store {
	return &Store{
		snapshots: make(map[string]any),
	}
}

func (s *Store) Get(collection string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.snapshots[collection]
	return snapshot, ok
}

func (s *Store) Put(collection string, snapshot any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[collection] = snapshot
}

func (s *Store) Invalidate(collections ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, collection := range collections {
		delete(s.snapshots, collection)
	}
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots = make(map[string]any)
}
