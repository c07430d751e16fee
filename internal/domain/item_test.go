package domain

import (
	"errors"
	"testing"
)

func TestCalendarItemValidate(t *testing.T) {
	tests := []struct {
		name      string
		item      CalendarItem
		wantField string // empty = valid
	}{
		{
			name: "valid content item",
			item: CalendarItem{Date: "2026-03-14", Type: TypeContent, Title: "Matchday graphic"},
		},
		{
			name: "valid theme-only marker",
			item: CalendarItem{Date: "2026-03-14", Themes: []string{"derby week"}},
		},
		{
			name: "valid sponsored item with obligations",
			item: CalendarItem{
				Date: "2026-03-14", Type: TypeSponsored, Title: "Fjord Energy launch",
				IsSponsored: true, SponsorName: "Fjord Energy",
				Obligations: map[string]Obligation{"story": {Required: 3}},
			},
		},
		{
			name:      "missing date",
			item:      CalendarItem{Type: TypeContent, Title: "x"},
			wantField: "date",
		},
		{
			name:      "bad date format",
			item:      CalendarItem{Date: "14/03/2026", Type: TypeContent, Title: "x"},
			wantField: "date",
		},
		{
			name:      "no type and no themes",
			item:      CalendarItem{Date: "2026-03-14"},
			wantField: "type",
		},
		{
			name:      "unknown type",
			item:      CalendarItem{Date: "2026-03-14", Type: "matchday", Title: "x"},
			wantField: "type",
		},
		{
			name:      "type without title",
			item:      CalendarItem{Date: "2026-03-14", Type: TypeContent, Title: "   "},
			wantField: "title",
		},
		{
			name:      "unknown status",
			item:      CalendarItem{Date: "2026-03-14", Type: TypeContent, Title: "x", Status: "done"},
			wantField: "status",
		},
		{
			name:      "negative order",
			item:      CalendarItem{Date: "2026-03-14", Type: TypeContent, Title: "x", Order: -1},
			wantField: "order",
		},
		{
			name: "obligation required below one",
			item: CalendarItem{
				Date: "2026-03-14", Type: TypeSponsored, Title: "x",
				Obligations: map[string]Obligation{"story": {Required: 0}},
			},
			wantField: "obligations.story",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Validate() field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestCalendarItemThemeOnly(t *testing.T) {
	tests := []struct {
		name     string
		item     CalendarItem
		expected bool
	}{
		{name: "themes without type", item: CalendarItem{Themes: []string{"derby week"}}, expected: true},
		{name: "typed item with themes", item: CalendarItem{Type: TypeContent, Themes: []string{"derby week"}}, expected: false},
		{name: "typed item", item: CalendarItem{Type: TypeContent}, expected: false},
		{name: "empty item", item: CalendarItem{}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.ThemeOnly(); got != tt.expected {
				t.Errorf("ThemeOnly() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCalendarItemClone_IsDeep(t *testing.T) {
	original := CalendarItem{
		ID:        "item-1",
		Date:      "2026-03-14",
		Type:      TypeSponsored,
		Title:     "Launch",
		Assignees: []string{"mara"},
		Themes:    []string{"kit"},
		Obligations: map[string]Obligation{
			"story": {
				Required: 2,
				Posts: []Post{
					{ID: "p1", URLs: []PlatformURL{{Platform: PlatformInstagram, URL: "https://instagram.com/p/1"}}},
				},
			},
		},
	}

	clone := original.Clone()
	clone.Assignees[0] = "jon"
	clone.Themes[0] = "derby"
	ob := clone.Obligations["story"]
	ob.Posts[0].URLs[0].URL = "https://instagram.com/p/overwritten"
	ob.Posts = append(ob.Posts, Post{ID: "p2"})
	clone.Obligations["story"] = ob

	if original.Assignees[0] != "mara" {
		t.Error("Clone shares the assignees slice")
	}
	if original.Themes[0] != "kit" {
		t.Error("Clone shares the themes slice")
	}
	if got := original.Obligations["story"].Posts[0].URLs[0].URL; got != "https://instagram.com/p/1" {
		t.Errorf("Clone shares post urls, original now %q", got)
	}
	if len(original.Obligations["story"].Posts) != 1 {
		t.Error("Clone shares the posts slice")
	}
}
