package game

import (
	"fmt"
	"strings"
	"sync"

	"digdug/server/models"
)

// InputSlot holds the single pending command. A newer command replaces an
// older one that has not been consumed yet.
type InputSlot struct {
	mu  sync.Mutex
	key string
}

// Put stores key, replacing any pending command
func (s *InputSlot) Put(key string) {
	s.mu.Lock()
	s.key = key
	s.mu.Unlock()
}

// Take returns the pending command and empties the slot
func (s *InputSlot) Take() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.key
	s.key = ""
	return key
}

const (
	moveKeys   = "wasd"
	actionKeys = "AB"
	// upper case movement keys are accepted but do nothing
	idleKeys = "WSD"
)

// ValidateKey checks a command against the input alphabet. The empty string
// means no input.
func ValidateKey(key string) error {
	if key == "" {
		return nil
	}
	if len(key) == 1 && strings.Contains(moveKeys+actionKeys+idleKeys, key) {
		return nil
	}
	return fmt.Errorf("%w <%s>, valid keys: w,a,s,d A B", ErrInvalidKey, key)
}

func keyDirection(key string) (models.Direction, bool) {
	switch key {
	case "w":
		return models.North, true
	case "a":
		return models.West, true
	case "s":
		return models.South, true
	case "d":
		return models.East, true
	}
	return 0, false
}

func isAction(key string) bool {
	return len(key) == 1 && strings.Contains(actionKeys, key)
}
