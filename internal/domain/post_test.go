package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPostUnmarshal_LegacyShape(t *testing.T) {
	// The retired shape: one bare URL and an epoch-millis timestamp.
	raw := `{"url": "https://www.instagram.com/p/abc123/", "dateAdded": 1710403200000}`

	var p Post
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if p.ID != "post-1710403200000" {
		t.Errorf("Expected derived id post-1710403200000, got %q", p.ID)
	}
	if len(p.URLs) != 1 {
		t.Fatalf("Expected 1 url, got %d", len(p.URLs))
	}
	if p.URLs[0].Platform != PlatformInstagram {
		t.Errorf("Expected platform %v, got %v", PlatformInstagram, p.URLs[0].Platform)
	}
	if p.URLs[0].URL != "https://www.instagram.com/p/abc123/" {
		t.Errorf("Unexpected url %q", p.URLs[0].URL)
	}
	if got := p.URLs[0].DateAdded.UnixMilli(); got != 1710403200000 {
		t.Errorf("Expected dateAdded 1710403200000, got %d", got)
	}
	// The legacy timestamp doubles as the completion date.
	if got := p.DateCompleted.UnixMilli(); got != 1710403200000 {
		t.Errorf("Expected dateCompleted 1710403200000, got %d", got)
	}
}

func TestPostUnmarshal_LegacyShapeIsStableAcrossReads(t *testing.T) {
	raw := `{"url": "https://x.com/club/status/1", "dateAdded": 1710403200000}`

	var first Post
	if err := json.Unmarshal([]byte(raw), &first); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	// Writing the upgraded post and reading it back must keep the same
	// identity, otherwise every reload would fork new posts.
	data, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var second Post
	if err := json.Unmarshal(data, &second); err != nil {
		t.Fatalf("Unmarshal() round trip error = %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("Post identity changed across reads: %q -> %q", first.ID, second.ID)
	}
	if len(second.URLs) != 1 || second.URLs[0].URL != first.URLs[0].URL {
		t.Errorf("URLs changed across reads: %+v -> %+v", first.URLs, second.URLs)
	}
	if !second.DateCompleted.Equal(first.DateCompleted) {
		t.Errorf("Completion date changed across reads: %v -> %v", first.DateCompleted, second.DateCompleted)
	}
}

func TestPostUnmarshal_CurrentShape(t *testing.T) {
	raw := `{
		"id": "p1",
		"urls": [
			{"platform": "Instagram", "url": "https://instagram.com/p/1", "dateAdded": "2026-03-14T10:00:00Z"},
			{"url": "https://www.tiktok.com/@club/video/2", "dateAdded": 1710412200000}
		],
		"dateCompleted": "2026-03-15T09:00:00Z"
	}`

	var p Post
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if p.ID != "p1" {
		t.Errorf("Expected id p1, got %q", p.ID)
	}
	if len(p.URLs) != 2 {
		t.Fatalf("Expected 2 urls, got %d", len(p.URLs))
	}
	// Missing platform is detected from the url.
	if p.URLs[1].Platform != PlatformTikTok {
		t.Errorf("Expected platform %v, got %v", PlatformTikTok, p.URLs[1].Platform)
	}
	// Epoch-millis timestamps are accepted inside the current shape too.
	if got := p.URLs[1].DateAdded.UnixMilli(); got != 1710412200000 {
		t.Errorf("Expected dateAdded 1710412200000, got %d", got)
	}
	want := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	if !p.DateCompleted.Equal(want) {
		t.Errorf("Expected dateCompleted %v, got %v", want, p.DateCompleted)
	}
}

func TestNormalizePost(t *testing.T) {
	added := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		post       Post
		expectID   string
		expectPlat Platform
	}{
		{
			name: "fills id and platform",
			post: Post{URLs: []PlatformURL{{URL: "https://youtu.be/x", DateAdded: added}}},
			// Derived from the first url timestamp.
			expectID:   "post-1768046400000",
			expectPlat: PlatformYouTube,
		},
		{
			name: "already normalized is unchanged",
			post: Post{
				ID:   "p9",
				URLs: []PlatformURL{{Platform: PlatformFacebook, URL: "https://fb.com/1", DateAdded: added}},
			},
			expectID:   "p9",
			expectPlat: PlatformFacebook,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePost(tt.post)
			if got.ID != tt.expectID {
				t.Errorf("NormalizePost() id = %q, want %q", got.ID, tt.expectID)
			}
			if got.URLs[0].Platform != tt.expectPlat {
				t.Errorf("NormalizePost() platform = %v, want %v", got.URLs[0].Platform, tt.expectPlat)
			}

			// Idempotent.
			again := NormalizePost(got)
			if again.ID != got.ID || again.URLs[0].Platform != got.URLs[0].Platform {
				t.Errorf("NormalizePost() is not idempotent: %+v -> %+v", got, again)
			}
		})
	}
}

func TestNormalizePost_CompletionDate(t *testing.T) {
	added := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	explicit := time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		post     Post
		expected time.Time
	}{
		{
			name:     "derived from the first url",
			post:     Post{ID: "p1", URLs: []PlatformURL{{Platform: PlatformInstagram, URL: "https://instagram.com/p/1", DateAdded: added}}},
			expected: added,
		},
		{
			name: "explicit value is kept",
			post: Post{
				ID:            "p2",
				URLs:          []PlatformURL{{Platform: PlatformInstagram, URL: "https://instagram.com/p/2", DateAdded: added}},
				DateCompleted: explicit,
			},
			expected: explicit,
		},
		{
			name:     "nothing to derive from",
			post:     Post{ID: "p3"},
			expected: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePost(tt.post)
			if !got.DateCompleted.Equal(tt.expected) {
				t.Errorf("NormalizePost() dateCompleted = %v, want %v", got.DateCompleted, tt.expected)
			}

			// Idempotent.
			again := NormalizePost(got)
			if !again.DateCompleted.Equal(got.DateCompleted) {
				t.Errorf("NormalizePost() moved dateCompleted on a second pass: %v -> %v", got.DateCompleted, again.DateCompleted)
			}
		})
	}
}

func TestNormalizePost_DoesNotMutateInput(t *testing.T) {
	added := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	in := Post{URLs: []PlatformURL{{URL: "https://instagram.com/p/1", DateAdded: added}}}

	_ = NormalizePost(in)

	if in.ID != "" {
		t.Errorf("Input id was mutated to %q", in.ID)
	}
	if in.URLs[0].Platform != "" {
		t.Errorf("Input platform was mutated to %v", in.URLs[0].Platform)
	}
	if !in.DateCompleted.IsZero() {
		t.Errorf("Input dateCompleted was mutated to %v", in.DateCompleted)
	}
}

func TestObligationUnmarshal_UpgradesLegacyPosts(t *testing.T) {
	raw := `{
		"required": 2,
		"posts": [
			{"url": "https://instagram.com/p/old", "dateAdded": 1700000000000},
			{"id": "p2", "urls": [{"platform": "TikTok", "url": "https://tiktok.com/@club/video/2"}]}
		]
	}`

	var o Obligation
	if err := json.Unmarshal([]byte(raw), &o); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if len(o.Posts) != 2 {
		t.Fatalf("Expected 2 posts, got %d", len(o.Posts))
	}
	if o.Posts[0].ID != "post-1700000000000" {
		t.Errorf("Legacy post was not upgraded, id = %q", o.Posts[0].ID)
	}
	if o.Posts[1].ID != "p2" {
		t.Errorf("Current post was rewritten, id = %q", o.Posts[1].ID)
	}

	got := ObligationProgress(o)
	if got.Completed != 2 || got.Percentage != 100 {
		t.Errorf("Mixed-shape obligation progress = %+v, want 2/2 at 100%%", got)
	}
}
