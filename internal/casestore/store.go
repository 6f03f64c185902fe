// Package casestore provides the in-memory store of flagged transactions.
package casestore

import (
	"fmt"
	"sync"

	"github.com/ledgerline/riskline/internal/common"
	"github.com/ledgerline/riskline/internal/model"
)

// Store holds cases for the lifetime of the process. Safe for concurrent
// use by request handlers.
type Store struct {
	cases map[string]model.Case
	order []string
	mu    sync.RWMutex
}

// New creates an empty case store.
func New() *Store {
	return &Store{cases: make(map[string]model.Case)}
}

// Add inserts a case. Duplicate IDs are rejected.
func (s *Store) Add(c model.Case) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid case: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cases[c.ID]; ok {
		return fmt.Errorf("case %s already exists", c.ID)
	}
	s.cases[c.ID] = c
	s.order = append(s.order, c.ID)
	return nil
}

// Get returns the case with the given ID.
func (s *Store) Get(id string) (model.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cases[id]
	if !ok {
		return model.Case{}, fmt.Errorf("case %s: %w", id, common.ErrNotFound)
	}
	return c, nil
}

// List returns all cases in insertion order.
func (s *Store) List() []model.Case {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Case, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.cases[id])
	}
	return out
}

// ByIDs returns the cases matching the given IDs, skipping unknown ones.
func (s *Store) ByIDs(ids []string) []model.Case {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Case, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.cases[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Open returns all cases whose status is not resolved, in insertion order.
func (s *Store) Open() []model.Case {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Case
	for _, id := range s.order {
		if c := s.cases[id]; c.Status != model.StatusResolved {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of stored cases.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cases)
}

// MarkExplained records that an explanation was generated for a case.
func (s *Store) MarkExplained(id, modelVersion string, tokensUsed int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cases[id]
	if !ok {
		return fmt.Errorf("case %s: %w", id, common.ErrNotFound)
	}
	c.ExplanationGenerated = true
	c.ModelVersion = modelVersion
	c.TokensUsed = tokensUsed
	s.cases[id] = c
	return nil
}

// SetStatus moves a case to a new review status.
func (s *Store) SetStatus(id string, status model.CaseStatus) error {
	switch status {
	case model.StatusNew, model.StatusReviewing, model.StatusResolved:
	default:
		return fmt.Errorf("invalid status: %q", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cases[id]
	if !ok {
		return fmt.Errorf("case %s: %w", id, common.ErrNotFound)
	}
	c.Status = status
	s.cases[id] = c
	return nil
}
