// ABOUTME: Keeps the most recent optimization results in memory by id
// ABOUTME: Evicts the oldest result once the store is full

package server

import (
	"sync"

	"github.com/google/uuid"

	"harmonic-sorter/optimizer"
)

// maxStoredResults bounds memory held by recent results
const maxStoredResults = 64

// resultStore is a fixed-size FIFO of results, safe for concurrent use
type resultStore struct {
	mu      sync.Mutex
	results map[uuid.UUID]*optimizer.Result
	order   []uuid.UUID
	limit   int
}

func newResultStore(limit int) *resultStore {
	return &resultStore{
		results: make(map[uuid.UUID]*optimizer.Result, limit),
		limit:   limit,
	}
}

// Put stores result under a new id and returns the id
func (s *resultStore) Put(result *optimizer.Result) uuid.UUID {
	id := uuid.New()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.order) >= s.limit {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.results, oldest)
	}

	s.results[id] = result
	s.order = append(s.order, id)

	return id
}

// Get returns the result for id, if still held
func (s *resultStore) Get(id uuid.UUID) (*optimizer.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, ok := s.results[id]
	return result, ok
}
