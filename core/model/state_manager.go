package model

import (
	"sync"
)

// StateManager tracks how far a model has been trained in a thread-safe
// manner. Models hold it by composition.
type StateManager struct {
	mu sync.RWMutex

	// Public for gob encoding
	Fitted      bool
	NFeatures   int
	NClasses    int
	NIterations int
	NSamples    int
}

// NewStateManager creates a StateManager for a model of the given shape.
func NewStateManager(nFeatures, nClasses int) *StateManager {
	return &StateManager{
		NFeatures: nFeatures,
		NClasses:  nClasses,
	}
}

// IsFitted reports whether at least one training step has been recorded.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Fitted
}

// RecordStep registers one successful training step over nSamples examples.
func (s *StateManager) RecordStep(nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = true
	s.NIterations++
	s.NSamples += nSamples
}

// Iterations returns the number of recorded training steps.
func (s *StateManager) Iterations() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.NIterations
}

// ModelState represents the complete state of a model.
// This can be used for serialization and debugging.
type ModelState struct {
	Fitted      bool `json:"fitted"`
	NFeatures   int  `json:"n_features"`
	NClasses    int  `json:"n_classes"`
	NIterations int  `json:"n_iterations,omitempty"`
	NSamples    int  `json:"n_samples,omitempty"`
}

// GetState returns the current state as a ModelState struct.
func (s *StateManager) GetState() ModelState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ModelState{
		Fitted:      s.Fitted,
		NFeatures:   s.NFeatures,
		NClasses:    s.NClasses,
		NIterations: s.NIterations,
		NSamples:    s.NSamples,
	}
}

// SetState sets the state from a ModelState struct.
func (s *StateManager) SetState(state ModelState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Fitted = state.Fitted
	s.NFeatures = state.NFeatures
	s.NClasses = state.NClasses
	s.NIterations = state.NIterations
	s.NSamples = state.NSamples
}
