package cache

import (
	"sync"
	"time"

	"github.com/sidelinehq/courtside/internal/domain"
	"github.com/sidelinehq/courtside/internal/logger"
)

// DefaultSaveWait is the debounce window for scheduled saves.
const DefaultSaveWait = 500 * time.Millisecond

// Saver coalesces snapshot writes. Every Schedule call replaces the
// pending snapshot and re-arms the timer, so a burst of mutations
// costs one disk write, of the final state, once things calm down.
//
// Disk failures are logged and swallowed: the cache is an optimization
// and must never fail a mutation that the remote store accepted.
type Saver struct {
	store *Store
	wait  time.Duration
	log   logger.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending []domain.CalendarItem
	has     bool
	stopped bool
}

func NewSaver(store *Store, wait time.Duration, log logger.Logger) *Saver {
	if wait <= 0 {
		wait = DefaultSaveWait
	}
	return &Saver{
		store: store,
		wait:  wait,
		log:   log,
	}
}

// Schedule queues items to be written once the debounce window closes.
// The slice is stored as-is and must not be mutated afterwards; the
// repository always hands over a freshly published slice.
func (s *Saver) Schedule(items []domain.CalendarItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	s.pending = items
	s.has = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.wait, s.fire)
}

func (s *Saver) fire() {
	if err := s.Flush(); err != nil {
		s.log.Warn("cache save failed", logger.Error(err))
	}
}

// Flush writes the pending snapshot now, if there is one. Used by the
// timer, by shutdown, and by anything that just rebuilt the full state
// and wants it on disk before carrying on.
func (s *Saver) Flush() error {
	s.mu.Lock()
	if !s.has {
		s.mu.Unlock()
		return nil
	}
	items := s.pending
	s.pending = nil
	s.has = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	// Write outside the lock: a slow disk must not stall Schedule.
	return s.store.Save(items)
}

// Stop flushes whatever is pending and refuses further schedules.
func (s *Saver) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	if err := s.Flush(); err != nil {
		s.log.Warn("cache save on shutdown failed", logger.Error(err))
	}
}
