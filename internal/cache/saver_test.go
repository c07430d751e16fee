package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sidelinehq/courtside/internal/domain"
	"github.com/sidelinehq/courtside/internal/logger"
)

func TestSaverCoalescesBursts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar-cache.json")
	store := NewStore(path, time.Hour, logger.Nop())
	saver := NewSaver(store, 50*time.Millisecond, logger.Nop())
	defer saver.Stop()

	// A burst of mutations, each publishing a new snapshot.
	saver.Schedule([]domain.CalendarItem{{ID: "v1", Date: "2026-03-14", Themes: []string{"x"}}})
	saver.Schedule([]domain.CalendarItem{{ID: "v2", Date: "2026-03-14", Themes: []string{"x"}}})
	saver.Schedule([]domain.CalendarItem{{ID: "v3", Date: "2026-03-14", Themes: []string{"x"}}})

	// Still inside the debounce window, nothing on disk yet.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("Snapshot written before the debounce window closed")
	}

	time.Sleep(200 * time.Millisecond)

	items, _, ok := store.Load()
	if !ok {
		t.Fatal("Load() ok = false after debounce window")
	}
	if len(items) != 1 || items[0].ID != "v3" {
		t.Errorf("Expected only the last scheduled snapshot, got %+v", items)
	}
}

func TestSaverFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar-cache.json")
	store := NewStore(path, time.Hour, logger.Nop())
	saver := NewSaver(store, time.Minute, logger.Nop())
	defer saver.Stop()

	saver.Schedule([]domain.CalendarItem{{ID: "a", Date: "2026-03-14", Themes: []string{"x"}}})

	// Flush skips the (long) debounce window entirely.
	if err := saver.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	items, _, ok := store.Load()
	if !ok || len(items) != 1 || items[0].ID != "a" {
		t.Errorf("Flush() did not persist the pending snapshot: %+v", items)
	}

	// Nothing pending anymore.
	if err := saver.Flush(); err != nil {
		t.Errorf("Second Flush() error = %v", err)
	}
}

func TestSaverStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar-cache.json")
	store := NewStore(path, time.Hour, logger.Nop())
	saver := NewSaver(store, time.Minute, logger.Nop())

	saver.Schedule([]domain.CalendarItem{{ID: "a", Date: "2026-03-14", Themes: []string{"x"}}})
	saver.Stop()

	// Stop flushed the pending snapshot.
	items, _, ok := store.Load()
	if !ok || len(items) != 1 || items[0].ID != "a" {
		t.Fatalf("Stop() did not flush the pending snapshot: %+v", items)
	}

	// Schedules after Stop are dropped.
	saver.Schedule([]domain.CalendarItem{{ID: "late", Date: "2026-03-15", Themes: []string{"x"}}})
	if err := saver.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	items, _, _ = store.Load()
	if items[0].ID != "a" {
		t.Errorf("Schedule after Stop was persisted: %+v", items)
	}
}
