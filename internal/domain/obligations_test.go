package domain

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func sampleObligations() map[string]Obligation {
	return map[string]Obligation{
		"story": {
			Required: 2,
			Posts: []Post{
				{
					ID: "p1",
					URLs: []PlatformURL{
						{Platform: PlatformInstagram, URL: "https://instagram.com/p/1", DateAdded: testNow},
					},
					DateCompleted: testNow,
				},
			},
		},
		"reel": {Required: 1},
	}
}

func TestSponsoredItems(t *testing.T) {
	items := []CalendarItem{
		{ID: "a", IsSponsored: true},
		{ID: "b"},
		{ID: "c", IsSponsored: true},
		{ID: "d", Themes: []string{"derby"}},
	}

	got := SponsoredItems(items)

	if len(got) != 2 {
		t.Fatalf("Expected 2 sponsored items, got %d", len(got))
	}
	if got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("Order not preserved: %v, %v", got[0].ID, got[1].ID)
	}
}

func TestSetObligation(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		required int
		wantErr  bool
	}{
		{name: "new kind", kind: "takeover", required: 1},
		{name: "replace existing", kind: "story", required: 5},
		{name: "empty kind", kind: "  ", required: 1, wantErr: true},
		{name: "zero required", kind: "story", required: 0, wantErr: true},
		{name: "negative required", kind: "story", required: -2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleObligations()
			out, err := SetObligation(in, tt.kind, tt.required)

			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("SetObligation() error = %v, want *ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetObligation() error = %v", err)
			}
			if out[tt.kind].Required != tt.required {
				t.Errorf("Required = %d, want %d", out[tt.kind].Required, tt.required)
			}
		})
	}
}

func TestSetObligation_PreservesRecordedPosts(t *testing.T) {
	in := sampleObligations()

	out, err := SetObligation(in, "story", 6)
	if err != nil {
		t.Fatalf("SetObligation() error = %v", err)
	}

	if len(out["story"].Posts) != 1 || out["story"].Posts[0].ID != "p1" {
		t.Errorf("Recorded posts were lost: %+v", out["story"].Posts)
	}
	if out["story"].Required != 6 {
		t.Errorf("Required = %d, want 6", out["story"].Required)
	}
}

func TestSetObligation_NilMap(t *testing.T) {
	out, err := SetObligation(nil, "story", 2)
	if err != nil {
		t.Fatalf("SetObligation() error = %v", err)
	}
	if out["story"].Required != 2 {
		t.Errorf("Required = %d, want 2", out["story"].Required)
	}
}

func TestDeleteObligation(t *testing.T) {
	in := sampleObligations()

	out, err := DeleteObligation(in, "reel")
	if err != nil {
		t.Fatalf("DeleteObligation() error = %v", err)
	}
	if _, ok := out["reel"]; ok {
		t.Error("Obligation still present after delete")
	}
	if _, ok := out["story"]; !ok {
		t.Error("Unrelated obligation was dropped")
	}

	if _, err := DeleteObligation(in, "takeover"); !errors.Is(err, ErrObligationNotFound) {
		t.Errorf("Expected ErrObligationNotFound, got %v", err)
	}
}

func TestAddPost(t *testing.T) {
	in := sampleObligations()

	out, err := AddPost(in, "reel", "  https://www.tiktok.com/@club/video/9  ", testNow)
	if err != nil {
		t.Fatalf("AddPost() error = %v", err)
	}

	posts := out["reel"].Posts
	if len(posts) != 1 {
		t.Fatalf("Expected 1 post, got %d", len(posts))
	}
	if posts[0].ID == "" {
		t.Error("New post has no id")
	}
	if len(posts[0].URLs) != 1 {
		t.Fatalf("Expected 1 url, got %d", len(posts[0].URLs))
	}
	if posts[0].URLs[0].URL != "https://www.tiktok.com/@club/video/9" {
		t.Errorf("URL not trimmed: %q", posts[0].URLs[0].URL)
	}
	if posts[0].URLs[0].Platform != PlatformTikTok {
		t.Errorf("Platform = %v, want %v", posts[0].URLs[0].Platform, PlatformTikTok)
	}
	if !posts[0].URLs[0].DateAdded.Equal(testNow) {
		t.Errorf("DateAdded = %v, want %v", posts[0].URLs[0].DateAdded, testNow)
	}
	// The first URL completes the post.
	if !posts[0].DateCompleted.Equal(testNow) {
		t.Errorf("DateCompleted = %v, want %v", posts[0].DateCompleted, testNow)
	}
}

func TestAddPost_Errors(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		url     string
		wantErr error
	}{
		{name: "unknown kind", kind: "takeover", url: "https://x.com/1", wantErr: ErrObligationNotFound},
		{name: "blank url", kind: "story", url: "   ", wantErr: nil}, // ValidationError, checked below
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AddPost(sampleObligations(), tt.kind, tt.url, testNow)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("AddPost() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("AddPost() error = %v, want *ValidationError", err)
				}
			}
		})
	}
}

func TestAddPostURL(t *testing.T) {
	in := sampleObligations()
	later := testNow.Add(time.Hour)

	out, err := AddPostURL(in, "story", "p1", "https://twitter.com/club/status/7", later)
	if err != nil {
		t.Fatalf("AddPostURL() error = %v", err)
	}

	urls := out["story"].Posts[0].URLs
	if len(urls) != 2 {
		t.Fatalf("Expected 2 urls, got %d", len(urls))
	}
	if urls[1].Platform != PlatformTwitter {
		t.Errorf("Platform = %v, want %v", urls[1].Platform, PlatformTwitter)
	}

	// Still one delivered post, completed when its first URL landed.
	if got := ObligationProgress(out["story"]); got.Completed != 1 {
		t.Errorf("Completed = %d, want 1", got.Completed)
	}
	if got := out["story"].Posts[0].DateCompleted; !got.Equal(testNow) {
		t.Errorf("DateCompleted moved to %v, want %v", got, testNow)
	}
}

func TestAddPostURL_DuplicateAllowed(t *testing.T) {
	in := sampleObligations()
	dup := in["story"].Posts[0].URLs[0].URL

	out, err := AddPostURL(in, "story", "p1", dup, testNow)
	if err != nil {
		t.Fatalf("AddPostURL() error = %v", err)
	}
	if len(out["story"].Posts[0].URLs) != 2 {
		t.Errorf("Duplicate url was rejected, got %d urls", len(out["story"].Posts[0].URLs))
	}
}

func TestAddPostURL_Errors(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		postID  string
		wantErr error
	}{
		{name: "unknown kind", kind: "takeover", postID: "p1", wantErr: ErrObligationNotFound},
		{name: "unknown post", kind: "story", postID: "nope", wantErr: ErrPostNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AddPostURL(sampleObligations(), tt.kind, tt.postID, "https://x.com/1", testNow)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddPostURL() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDeletePostURL(t *testing.T) {
	in := sampleObligations()
	withTwo, err := AddPostURL(in, "story", "p1", "https://x.com/club/status/7", testNow)
	if err != nil {
		t.Fatalf("AddPostURL() error = %v", err)
	}

	out, err := DeletePostURL(withTwo, "story", "p1", "https://x.com/club/status/7")
	if err != nil {
		t.Fatalf("DeletePostURL() error = %v", err)
	}
	if len(out["story"].Posts[0].URLs) != 1 {
		t.Fatalf("Expected 1 url left, got %d", len(out["story"].Posts[0].URLs))
	}

	// Removing the last url removes the post itself.
	out, err = DeletePostURL(out, "story", "p1", "https://instagram.com/p/1")
	if err != nil {
		t.Fatalf("DeletePostURL() error = %v", err)
	}
	if len(out["story"].Posts) != 0 {
		t.Errorf("Expected post removed with its last url, got %+v", out["story"].Posts)
	}
	if got := ObligationProgress(out["story"]); got.Completed != 0 {
		t.Errorf("Completed = %d, want 0 after last url removal", got.Completed)
	}
}

func TestDeletePostURL_Errors(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		postID  string
		url     string
		wantErr error
	}{
		{name: "unknown kind", kind: "takeover", postID: "p1", url: "https://instagram.com/p/1", wantErr: ErrObligationNotFound},
		{name: "unknown post", kind: "story", postID: "nope", url: "https://instagram.com/p/1", wantErr: ErrPostNotFound},
		{name: "unknown url", kind: "story", postID: "p1", url: "https://instagram.com/p/unknown", wantErr: ErrURLNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeletePostURL(sampleObligations(), tt.kind, tt.postID, tt.url)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DeletePostURL() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMutatorsDoNotTouchInput(t *testing.T) {
	in := sampleObligations()

	if _, err := SetObligation(in, "story", 9); err != nil {
		t.Fatalf("SetObligation() error = %v", err)
	}
	if _, err := AddPost(in, "story", "https://fb.com/1", testNow); err != nil {
		t.Fatalf("AddPost() error = %v", err)
	}
	if _, err := AddPostURL(in, "story", "p1", "https://fb.com/2", testNow); err != nil {
		t.Fatalf("AddPostURL() error = %v", err)
	}
	if _, err := DeletePostURL(in, "story", "p1", "https://instagram.com/p/1"); err != nil {
		t.Fatalf("DeletePostURL() error = %v", err)
	}

	want := sampleObligations()
	if in["story"].Required != want["story"].Required {
		t.Error("Input required was mutated")
	}
	if len(in["story"].Posts) != 1 {
		t.Errorf("Input posts were mutated: %d posts", len(in["story"].Posts))
	}
	if len(in["story"].Posts[0].URLs) != 1 {
		t.Errorf("Input urls were mutated: %d urls", len(in["story"].Posts[0].URLs))
	}
}
