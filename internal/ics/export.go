// Package ics renders the calendar as an iCalendar feed so the squad
// can subscribe to the grid from their regular calendar apps.
package ics

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/sidelinehq/courtside/internal/domain"
)

const productID = "-//Courtside//Editorial Calendar//EN"

// Feed serializes items as a VCALENDAR with one all-day VEVENT per
// item. Items without a parseable date are left out. UIDs derive from
// item IDs, so subscribed apps update entries instead of duplicating
// them on each poll.
func Feed(name string, items []domain.CalendarItem, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(name)

	for _, it := range items {
		day := it.Day()
		if day.IsZero() {
			continue
		}

		ev := cal.AddEvent(fmt.Sprintf("%s@courtside", it.ID))
		ev.SetDtStampTime(now)
		ev.SetSummary(summary(it))
		ev.SetAllDayStartAt(day)
		// DTEND is exclusive for all-day events.
		ev.SetAllDayEndAt(day.AddDate(0, 0, 1))

		if it.Status == domain.StatusPlanned {
			ev.SetStatus(ical.ObjectStatusTentative)
		} else {
			ev.SetStatus(ical.ObjectStatusConfirmed)
		}
		if !it.CreatedAt.IsZero() {
			ev.SetCreatedTime(it.CreatedAt)
		}
		if !it.UpdatedAt.IsZero() {
			ev.SetModifiedAt(it.UpdatedAt)
		}
		if desc := description(it); desc != "" {
			ev.SetDescription(desc)
		}
		if cats := categories(it); cats != "" {
			ev.SetProperty(ical.ComponentProperty(ical.PropertyCategories), cats)
		}
	}
	return cal.Serialize()
}

// summary picks the line a calendar app shows in the day cell.
func summary(it domain.CalendarItem) string {
	if it.ThemeOnly() {
		return strings.Join(it.Themes, ", ")
	}
	if it.IsSponsored && it.SponsorName != "" {
		return fmt.Sprintf("%s (%s)", it.Title, it.SponsorName)
	}
	return it.Title
}

func description(it domain.CalendarItem) string {
	var lines []string
	if it.Notes != "" {
		lines = append(lines, it.Notes)
	}
	if len(it.Assignees) > 0 {
		lines = append(lines, "Assigned: "+strings.Join(it.Assignees, ", "))
	}
	if len(it.Obligations) > 0 {
		p := domain.OverallProgress(it)
		lines = append(lines, fmt.Sprintf("Deliverables: %d/%d (%d%%)", p.Completed, p.Required, p.Percentage))
	}
	lines = append(lines, it.Links...)
	return strings.Join(lines, "\n")
}

func categories(it domain.CalendarItem) string {
	var cats []string
	if it.Type != "" {
		cats = append(cats, string(it.Type))
	}
	cats = append(cats, it.Themes...)
	return strings.Join(cats, ",")
}
