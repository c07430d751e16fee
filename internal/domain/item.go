package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar day format used everywhere an item date
// travels as a string (documents, cache snapshots, API payloads).
const DateLayout = "2006-01-02"

// ItemType classifies a calendar entry.
type ItemType string

const (
	TypeHome        ItemType = "home"
	TypeAway        ItemType = "away"
	TypeOutOfOffice ItemType = "outofoffice"
	TypeContent     ItemType = "content"
	TypeEvent       ItemType = "event"
	TypePromo       ItemType = "promo"
	TypeSponsored   ItemType = "sponsored"
	TypeBirthday    ItemType = "birthday"
)

// Valid reports whether the type is one of the known values.
// The empty string is handled separately: it marks a theme-only item.
func (t ItemType) Valid() bool {
	switch t {
	case TypeHome, TypeAway, TypeOutOfOffice, TypeContent, TypeEvent, TypePromo, TypeSponsored, TypeBirthday:
		return true
	}
	return false
}

// ItemStatus tracks an entry through the editorial workflow.
type ItemStatus string

const (
	StatusPlanned    ItemStatus = "planned"
	StatusInProgress ItemStatus = "in-progress"
	StatusReview     ItemStatus = "review"
	StatusCompleted  ItemStatus = "completed"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusReview, StatusCompleted:
		return true
	}
	return false
}

// Obligation is one deliverable line of a sponsorship deal: how many
// posts of a given kind were promised, and the posts recorded against it.
type Obligation struct {
	// Required is the promised number of posts. Always >= 1.
	Required int `json:"required"`

	// Posts holds the recorded deliveries, in the order they were added.
	// Each Post counts once toward Required no matter how many platform
	// URLs it carries.
	Posts []Post `json:"posts"`
}

// CalendarItem represents one entry of the editorial calendar.
//
// It is the canonical in-memory and wire shape: remote documents, cache
// snapshots and API payloads all marshal this struct directly.
//
// An item is uniquely identified by its ID.
type CalendarItem struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier, assigned by the store
	// on creation.
	ID string `json:"id"`

	// ─────────────────────────────
	// Placement
	// ─────────────────────────────

	// Date is the calendar day, formatted as DateLayout.
	// Example: 2026-03-14
	Date string `json:"date"`

	// Order sorts items within the same day. Zero-based, gaps allowed.
	Order int `json:"order"`

	// ─────────────────────────────
	// Editorial content
	// ─────────────────────────────

	// Type classifies the entry. Empty is legal only for theme-only
	// markers (see Themes).
	Type ItemType `json:"type,omitempty"`

	// Title is the display headline. Required whenever Type is set.
	Title string `json:"title,omitempty"`

	// Assignees lists the squad members responsible for the entry.
	Assignees []string `json:"assignees,omitempty"`

	// Status tracks workflow progress. Empty means StatusPlanned.
	Status ItemStatus `json:"status,omitempty"`

	// Notes is free-form production detail.
	Notes string `json:"notes,omitempty"`

	// Links are reference URLs (briefs, assets, published posts).
	Links []string `json:"links,omitempty"`

	// Themes tags the day (e.g. "derby week"). An item carrying only
	// themes, with no Type, is a day marker and stays out of the
	// title/type listings.
	Themes []string `json:"themes,omitempty"`

	// ─────────────────────────────
	// Sponsorship
	// ─────────────────────────────

	// IsSponsored marks the entry as part of a paid campaign.
	IsSponsored bool `json:"isSponsored,omitempty"`

	// SponsorName is the campaign partner. Example: "Fjord Energy"
	SponsorName string `json:"sponsorName,omitempty"`

	// SponsorType is the deal category. Example: "kit sponsor"
	SponsorType string `json:"sponsorType,omitempty"`

	// Obligations maps a free-text deliverable kind ("story", "reel")
	// to its promised and recorded posts.
	Obligations map[string]Obligation `json:"obligations,omitempty"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is set when the item is first written.
	CreatedAt time.Time `json:"createdAt,omitzero"`

	// UpdatedAt is bumped on any mutation.
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// ValidationError reports a rejected item or obligation edit.
// Nothing has been written when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ThemeOnly reports whether the item is a day marker: no type, at
// least one theme.
func (i *CalendarItem) ThemeOnly() bool {
	return i.Type == "" && len(i.Themes) > 0
}

// Day parses the item date. Returns the zero time when Date is not a
// valid DateLayout string.
func (i *CalendarItem) Day() time.Time {
	t, err := time.Parse(DateLayout, i.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Validate checks the invariants every stored item must satisfy.
// The first violation is returned as a *ValidationError.
func (i *CalendarItem) Validate() error {
	if strings.TrimSpace(i.Date) == "" {
		return &ValidationError{Field: "date", Reason: "required"}
	}
	if _, err := time.Parse(DateLayout, i.Date); err != nil {
		return &ValidationError{Field: "date", Reason: "must be formatted YYYY-MM-DD"}
	}
	if i.Type == "" {
		if len(i.Themes) == 0 {
			return &ValidationError{Field: "type", Reason: "required unless the item carries themes"}
		}
	} else {
		if !i.Type.Valid() {
			return &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown type %q", i.Type)}
		}
		if strings.TrimSpace(i.Title) == "" {
			return &ValidationError{Field: "title", Reason: "required when a type is set"}
		}
	}
	if i.Status != "" && !i.Status.Valid() {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", i.Status)}
	}
	if i.Order < 0 {
		return &ValidationError{Field: "order", Reason: "must not be negative"}
	}
	for kind, o := range i.Obligations {
		if strings.TrimSpace(kind) == "" {
			return &ValidationError{Field: "obligations", Reason: "obligation kind must not be empty"}
		}
		if o.Required < 1 {
			return &ValidationError{Field: "obligations." + kind, Reason: "required must be at least 1"}
		}
	}
	return nil
}

// Clone returns a deep copy. Mutating the copy never touches the
// original, including its obligation posts.
func (i CalendarItem) Clone() CalendarItem {
	out := i
	out.Assignees = cloneStrings(i.Assignees)
	out.Links = cloneStrings(i.Links)
	out.Themes = cloneStrings(i.Themes)
	out.Obligations = CloneObligations(i.Obligations)
	return out
}

// CloneItems deep-copies a slice of items.
func CloneItems(items []CalendarItem) []CalendarItem {
	if items == nil {
		return nil
	}
	out := make([]CalendarItem, len(items))
	for n, it := range items {
		out[n] = it.Clone()
	}
	return out
}

// CloneObligations deep-copies an obligation map, posts included.
func CloneObligations(obs map[string]Obligation) map[string]Obligation {
	if obs == nil {
		return nil
	}
	out := make(map[string]Obligation, len(obs))
	for kind, o := range obs {
		c := Obligation{Required: o.Required}
		if o.Posts != nil {
			c.Posts = make([]Post, len(o.Posts))
			for n, p := range o.Posts {
				c.Posts[n] = p.Clone()
			}
		}
		out[kind] = c
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
