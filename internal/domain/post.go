package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// PlatformURL is one published location of a post.
type PlatformURL struct {
	// Platform is filled by DetectPlatform when absent.
	Platform Platform `json:"platform"`

	// URL is the published link, stored as submitted.
	URL string `json:"url"`

	// DateAdded records when the link was attached to the post.
	DateAdded time.Time `json:"dateAdded,omitzero"`
}

// Post is one delivered piece of sponsored content. A post may live on
// several platforms at once (the same reel on Instagram and TikTok)
// and still counts once toward an obligation.
type Post struct {
	ID   string        `json:"id"`
	URLs []PlatformURL `json:"urls"`

	// DateCompleted marks when the post first went live: the
	// timestamp of its first URL.
	DateCompleted time.Time `json:"dateCompleted,omitzero"`
}

// Clone returns a deep copy of the post.
func (p Post) Clone() Post {
	out := p
	if p.URLs != nil {
		out.URLs = make([]PlatformURL, len(p.URLs))
		copy(out.URLs, p.URLs)
	}
	return out
}

// flexTime decodes both RFC 3339 strings and epoch milliseconds.
// Documents written before the multi-URL migration carry bare numbers.
type flexTime struct {
	time.Time
}

func (t *flexTime) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		return t.Time.UnmarshalJSON(data)
	}
	ms, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("failed to parse timestamp %s: %w", s, err)
	}
	t.Time = time.UnixMilli(int64(ms)).UTC()
	return nil
}

// UnmarshalJSON accepts both post shapes:
//
//	current: {"id": "...", "urls": [{"platform": ..., "url": ..., "dateAdded": ...}]}
//	retired: {"url": "...", "dateAdded": 1710403200000}
//
// The retired single-URL shape predates multi-platform posts and still
// exists in old documents and snapshots. It is upgraded on the spot, so
// everything past the decode boundary only ever sees the current shape.
func (p *Post) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID            string        `json:"id"`
		URLs          []PlatformURL `json:"urls"`
		DateCompleted flexTime      `json:"dateCompleted"`
		LegacyURL     string        `json:"url"`
		LegacyAdded   flexTime      `json:"dateAdded"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("failed to decode post: %w", err)
	}

	p.ID = aux.ID
	p.URLs = aux.URLs
	p.DateCompleted = aux.DateCompleted.Time
	if len(p.URLs) == 0 && aux.LegacyURL != "" {
		p.URLs = []PlatformURL{{
			Platform:  DetectPlatform(aux.LegacyURL),
			URL:       aux.LegacyURL,
			DateAdded: aux.LegacyAdded.Time,
		}}
	}
	*p = NormalizePost(*p)
	return nil
}

func (u *PlatformURL) UnmarshalJSON(data []byte) error {
	var aux struct {
		Platform  Platform `json:"platform"`
		URL       string   `json:"url"`
		DateAdded flexTime `json:"dateAdded"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("failed to decode platform url: %w", err)
	}
	u.Platform = aux.Platform
	u.URL = aux.URL
	u.DateAdded = aux.DateAdded.Time
	return nil
}

// NormalizePost fills in whatever an upgraded or hand-built post is
// missing: a stable ID, a platform on every URL, and the completion
// date, taken from the first URL. Idempotent, and the input is never
// mutated.
func NormalizePost(p Post) Post {
	out := p.Clone()
	if out.ID == "" {
		out.ID = derivePostID(out)
	}
	if out.DateCompleted.IsZero() && len(out.URLs) > 0 {
		out.DateCompleted = out.URLs[0].DateAdded
	}
	for n := range out.URLs {
		if out.URLs[n].Platform == "" {
			out.URLs[n].Platform = DetectPlatform(out.URLs[n].URL)
		}
	}
	return out
}

// derivePostID builds a deterministic ID from the first URL timestamp,
// so re-reading the same legacy document never forks a new identity.
func derivePostID(p Post) string {
	if len(p.URLs) > 0 && !p.URLs[0].DateAdded.IsZero() {
		return fmt.Sprintf("post-%d", p.URLs[0].DateAdded.UnixMilli())
	}
	return uuid.New().String()
}
