package input

import (
	"sync"

	"github.com/Carmen-Shannon/wayfare/common"
)

// inputService is the implementation of the Service interface.
type inputService struct {
	mu      sync.RWMutex
	pressed map[common.Key]struct{}
}

// Service tracks which keys are currently held. One instance is created per running game
// and handed to the window callbacks that feed it and the systems that read it.
type Service interface {
	// Press marks a key as held.
	Press(key common.Key)

	// Release marks a key as no longer held.
	Release(key common.Key)

	// IsKeyDown reports whether a key is currently held.
	//
	// Parameters:
	//   - key: the key to check
	//
	// Returns:
	//   - bool: true if the key was pressed and not yet released
	IsKeyDown(key common.Key) bool

	// Reset releases every key, e.g. when the window loses focus.
	Reset()
}

var _ Service = &inputService{}

// NewService creates an input service with no keys held.
//
// Returns:
//   - Service: the input service
func NewService() Service {
	return &inputService{pressed: make(map[common.Key]struct{})}
}

func (s *inputService) Press(key common.Key) {
	s.mu.Lock()
	s.pressed[key] = struct{}{}
	s.mu.Unlock()
}

func (s *inputService) Release(key common.Key) {
	s.mu.Lock()
	delete(s.pressed, key)
	s.mu.Unlock()
}

func (s *inputService) IsKeyDown(key common.Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.pressed[key]
	return ok
}

func (s *inputService) Reset() {
	s.mu.Lock()
	clear(s.pressed)
	s.mu.Unlock()
}
