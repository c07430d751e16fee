package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sidelinehq/courtside/internal/domain"
	"github.com/sidelinehq/courtside/internal/logger"
)

func testItems() []domain.CalendarItem {
	return []domain.CalendarItem{
		{ID: "a", Date: "2026-03-14", Type: domain.TypeContent, Title: "Matchday graphic"},
		{ID: "b", Date: "2026-03-15", Themes: []string{"derby week"}},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar-cache.json")
	store := NewStore(path, time.Hour, logger.Nop())

	if err := store.Save(testItems()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	items, age, ok := store.Load()
	if !ok {
		t.Fatal("Load() ok = false, want true")
	}
	if len(items) != 2 {
		t.Fatalf("Load() returned %d items, want 2", len(items))
	}
	if items[0].ID != "a" || items[1].ID != "b" {
		t.Errorf("Load() items = %v, %v", items[0].ID, items[1].ID)
	}
	if age < 0 || age > time.Minute {
		t.Errorf("Load() age = %v, want close to zero", age)
	}
}

func TestStoreLoad_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.json")
	store := NewStore(path, time.Hour, logger.Nop())

	if _, _, ok := store.Load(); ok {
		t.Error("Load() ok = true for a missing file")
	}
}

func TestStoreLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar-cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	store := NewStore(path, time.Hour, logger.Nop())
	if _, _, ok := store.Load(); ok {
		t.Error("Load() ok = true for a corrupt file")
	}
}

func TestStoreLoad_Expired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar-cache.json")
	store := NewStore(path, time.Hour, logger.Nop())

	if err := store.Save(testItems()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Move the clock past the freshness window.
	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if _, _, ok := store.Load(); ok {
		t.Error("Load() ok = true for an expired snapshot")
	}
}

func TestStoreLoad_UpgradesLegacyPosts(t *testing.T) {
	// A snapshot written before the multi-URL migration: the post is
	// the bare {url, dateAdded} shape. Loading must upgrade it.
	raw := map[string]any{
		"savedAt": time.Now().UnixMilli(),
		"items": []map[string]any{
			{
				"id": "a", "date": "2026-03-14", "type": "sponsored", "title": "Launch",
				"isSponsored": true,
				"obligations": map[string]any{
					"story": map[string]any{
						"required": 1,
						"posts": []map[string]any{
							{"url": "https://instagram.com/p/old", "dateAdded": 1700000000000},
						},
					},
				},
			},
		},
	}
	data, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "calendar-cache.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	store := NewStore(path, time.Hour, logger.Nop())
	items, _, ok := store.Load()
	if !ok {
		t.Fatal("Load() ok = false")
	}

	posts := items[0].Obligations["story"].Posts
	if len(posts) != 1 {
		t.Fatalf("Expected 1 post, got %d", len(posts))
	}
	if posts[0].ID != "post-1700000000000" {
		t.Errorf("Legacy post not upgraded, id = %q", posts[0].ID)
	}
	if posts[0].URLs[0].Platform != domain.PlatformInstagram {
		t.Errorf("Platform = %v, want %v", posts[0].URLs[0].Platform, domain.PlatformInstagram)
	}
	if got := posts[0].DateCompleted.UnixMilli(); got != 1700000000000 {
		t.Errorf("DateCompleted = %d, want the legacy dateAdded 1700000000000", got)
	}
}

func TestStoreSave_ReplacesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar-cache.json")
	store := NewStore(path, time.Hour, logger.Nop())

	if err := store.Save(testItems()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save([]domain.CalendarItem{{ID: "only", Date: "2026-04-01", Themes: []string{"x"}}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	items, _, ok := store.Load()
	if !ok {
		t.Fatal("Load() ok = false")
	}
	if len(items) != 1 || items[0].ID != "only" {
		t.Errorf("Load() = %+v, want the second snapshot", items)
	}

	// No leftover temp file.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temp file left behind after save")
	}
}

func TestStoreDisabled(t *testing.T) {
	store := NewStore("", time.Hour, logger.Nop())

	if err := store.Save(testItems()); err != nil {
		t.Errorf("Save() error = %v on a disabled store", err)
	}
	if _, _, ok := store.Load(); ok {
		t.Error("Load() ok = true on a disabled store")
	}
}
