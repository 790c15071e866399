package model

import (
	"sync"

	"github.com/YuminosukeSato/pricefactor/pkg/errors"
)

// StateManager manages the fitted state of a model in a thread-safe manner.
type StateManager struct {
	Fitted bool // Public for gob encoding
	mu     sync.RWMutex

	// Dimensions seen during the last successful fit.
	NUsers   int
	NItems   int
	NSamples int
}

// NewStateManager creates a new StateManager instance.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted returns whether the model has been fitted.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Fitted
}

// SetFitted marks the model as fitted and records the shape of the training data.
func (s *StateManager) SetFitted(nUsers, nItems, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = true
	s.NUsers = nUsers
	s.NItems = nItems
	s.NSamples = nSamples
}

// Reset resets the fitted state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = false
	s.NUsers = 0
	s.NItems = 0
	s.NSamples = 0
}

// GetDimensions returns the number of users, items and rows seen during fitting.
func (s *StateManager) GetDimensions() (nUsers, nItems, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.NUsers, s.NItems, s.NSamples
}

// RequireFitted returns errors.ErrNotFitted if the model has not been fitted.
func (s *StateManager) RequireFitted() error {
	if !s.IsFitted() {
		return errors.WithStack(errors.ErrNotFitted)
	}
	return nil
}

// ModelState is a point-in-time copy of the manager, used by summaries and debugging.
type ModelState struct {
	Fitted   bool `json:"fitted"`
	NUsers   int  `json:"n_users,omitempty"`
	NItems   int  `json:"n_items,omitempty"`
	NSamples int  `json:"n_samples,omitempty"`
}

// GetState returns the current state as a ModelState struct.
func (s *StateManager) GetState() ModelState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ModelState{
		Fitted:   s.Fitted,
		NUsers:   s.NUsers,
		NItems:   s.NItems,
		NSamples: s.NSamples,
	}
}

// SetState sets the state from a ModelState struct.
func (s *StateManager) SetState(state ModelState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Fitted = state.Fitted
	s.NUsers = state.NUsers
	s.NItems = state.NItems
	s.NSamples = state.NSamples
}
