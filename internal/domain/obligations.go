package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sentinels for obligation edits that referenced something that is not
// there. Callers map these to their own not-found handling.
var (
	ErrObligationNotFound = errors.New("obligation not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrURLNotFound        = errors.New("url not found")
)

// SponsoredItems filters the sponsored entries, preserving order.
// The returned slice is fresh, the items are shared.
func SponsoredItems(items []CalendarItem) []CalendarItem {
	out := make([]CalendarItem, 0)
	for _, it := range items {
		if it.IsSponsored {
			out = append(out, it)
		}
	}
	return out
}

// The mutators below never touch their input: they deep-copy, apply
// the edit, and return the new map. Callers swap the result into the
// item themselves, which keeps these functions trivial to test and
// safe to call on shared state.

// SetObligation adds or replaces the promised count for a deliverable
// kind. Posts already recorded under that kind are kept.
func SetObligation(obs map[string]Obligation, kind string, required int) (map[string]Obligation, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return nil, &ValidationError{Field: "kind", Reason: "required"}
	}
	if required < 1 {
		return nil, &ValidationError{Field: "required", Reason: "must be at least 1"}
	}

	out := CloneObligations(obs)
	if out == nil {
		out = make(map[string]Obligation, 1)
	}
	o := out[kind]
	o.Required = required
	out[kind] = o
	return out, nil
}

// DeleteObligation removes a deliverable kind and everything recorded
// under it.
func DeleteObligation(obs map[string]Obligation, kind string) (map[string]Obligation, error) {
	if _, ok := obs[kind]; !ok {
		return nil, ErrObligationNotFound
	}
	out := CloneObligations(obs)
	delete(out, kind)
	return out, nil
}

// AddPost records a new delivered post with its first URL. A post's
// completion date is the timestamp of its first URL, so both carry now.
func AddPost(obs map[string]Obligation, kind, url string, now time.Time) (map[string]Obligation, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, &ValidationError{Field: "url", Reason: "required"}
	}
	if _, ok := obs[kind]; !ok {
		return nil, ErrObligationNotFound
	}

	out := CloneObligations(obs)
	o := out[kind]
	o.Posts = append(o.Posts, Post{
		ID: uuid.New().String(),
		URLs: []PlatformURL{{
			Platform:  DetectPlatform(url),
			URL:       url,
			DateAdded: now,
		}},
		DateCompleted: now,
	})
	out[kind] = o
	return out, nil
}

// AddPostURL attaches another platform URL to an already recorded
// post. The post still counts once; duplicates are allowed, the squad
// sometimes reposts the same link.
func AddPostURL(obs map[string]Obligation, kind, postID, url string, now time.Time) (map[string]Obligation, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, &ValidationError{Field: "url", Reason: "required"}
	}
	if _, ok := obs[kind]; !ok {
		return nil, ErrObligationNotFound
	}

	out := CloneObligations(obs)
	o := out[kind]
	for n := range o.Posts {
		if o.Posts[n].ID != postID {
			continue
		}
		o.Posts[n].URLs = append(o.Posts[n].URLs, PlatformURL{
			Platform:  DetectPlatform(url),
			URL:       url,
			DateAdded: now,
		})
		out[kind] = o
		return out, nil
	}
	return nil, ErrPostNotFound
}

// DeletePostURL removes one URL occurrence from a post. Removing the
// last URL removes the post itself, and with it the delivery credit.
func DeletePostURL(obs map[string]Obligation, kind, postID, url string) (map[string]Obligation, error) {
	if _, ok := obs[kind]; !ok {
		return nil, ErrObligationNotFound
	}

	out := CloneObligations(obs)
	o := out[kind]
	for n := range o.Posts {
		if o.Posts[n].ID != postID {
			continue
		}
		at := -1
		for u, pu := range o.Posts[n].URLs {
			if pu.URL == url {
				at = u
				break
			}
		}
		if at == -1 {
			return nil, ErrURLNotFound
		}
		o.Posts[n].URLs = append(o.Posts[n].URLs[:at], o.Posts[n].URLs[at+1:]...)
		if len(o.Posts[n].URLs) == 0 {
			o.Posts = append(o.Posts[:n], o.Posts[n+1:]...)
		}
		out[kind] = o
		return out, nil
	}
	return nil, ErrPostNotFound
}
