// Package state holds the latest poll result for the UI. The previous good
// reading is retained across failed polls so a transient error never blanks
// the display.
package state

import (
	"sync"
	"time"

	"github.com/kyosol/kyosol/internal/solar"
)

// Latest represents the newest data available to the renderer.
type Latest struct {
	Reading             solar.Snapshot
	Estimate            solar.Estimate
	HasReading          bool
	Raw                 []byte
	LastError           error
	LastUpdated         time.Time
	ConsecutiveFailures int
}

// IsOffline returns true when polling has failed repeatedly.
func (l Latest) IsOffline() bool {
	return l.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the latest result.
type Store struct {
	mu     sync.RWMutex
	latest Latest
}

// SetResult records a successful poll, replacing any previous error state.
func (s *Store) SetResult(reading solar.Snapshot, estimate solar.Estimate, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest.Reading = reading
	s.latest.Estimate = estimate
	s.latest.HasReading = true
	s.latest.Raw = append([]byte(nil), raw...)
	s.latest.LastError = nil
	s.latest.LastUpdated = time.Now()
	s.latest.ConsecutiveFailures = 0
}

// SetError records a failed poll. The previous reading is kept so the UI can
// continue showing it alongside the error.
func (s *Store) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest.LastError = err
	s.latest.LastUpdated = time.Now()
	s.latest.ConsecutiveFailures++
}

// Latest returns a copy of the current result.
func (s *Store) Latest() Latest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := s.latest
	latest.Raw = append([]byte(nil), s.latest.Raw...)
	return latest
}
