// Package cache persists full calendar snapshots to local disk so a
// restart inside the freshness window costs zero remote reads.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sidelinehq/courtside/internal/domain"
	"github.com/sidelinehq/courtside/internal/logger"
)

// DefaultTTL is the snapshot freshness window.
const DefaultTTL = 24 * time.Hour

// snapshot is the on-disk envelope.
type snapshot struct {
	// SavedAt is epoch milliseconds, the same unit the documents use
	// for their legacy timestamps.
	SavedAt int64                 `json:"savedAt"`
	Items   []domain.CalendarItem `json:"items"`
}

// Store reads and writes the snapshot file. A Store with an empty path
// is disabled: loads miss, saves are dropped.
type Store struct {
	path string
	ttl  time.Duration
	log  logger.Logger

	// now is swapped by tests.
	now func() time.Time
}

func NewStore(path string, ttl time.Duration, log logger.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		path: path,
		ttl:  ttl,
		log:  log,
		now:  time.Now,
	}
}

// Load returns the snapshot items and their age. ok is false whenever
// the snapshot cannot be served: missing file, unreadable content, or
// age past the freshness window. A bad snapshot is never an error for
// the caller, it just means the remote store has to be asked.
func (s *Store) Load() ([]domain.CalendarItem, time.Duration, bool) {
	if s.path == "" {
		return nil, 0, false
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("cache snapshot unreadable, ignoring",
				logger.String("path", s.path),
				logger.Error(err))
		}
		return nil, 0, false
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.log.Warn("cache snapshot corrupt, ignoring",
			logger.String("path", s.path),
			logger.Error(err))
		return nil, 0, false
	}

	age := s.now().Sub(time.UnixMilli(snap.SavedAt))
	if age < 0 || age > s.ttl {
		s.log.Debug("cache snapshot expired",
			logger.String("path", s.path),
			logger.Duration("age", age),
			logger.Duration("ttl", s.ttl))
		return nil, age, false
	}

	items := snap.Items
	if items == nil {
		items = []domain.CalendarItem{}
	}
	return items, age, true
}

// Save writes a fresh snapshot atomically: a temp file in the same
// directory, then a rename over the target. Readers never see a
// half-written file.
func (s *Store) Save(items []domain.CalendarItem) error {
	if s.path == "" {
		return nil
	}

	snap := snapshot{
		SavedAt: s.now().UnixMilli(),
		Items:   items,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	return nil
}
