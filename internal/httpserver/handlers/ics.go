package handlers

import (
	"net/http"

	"github.com/sidelinehq/courtside/internal/httpserver/deps"
	"github.com/sidelinehq/courtside/internal/ics"
)

// CalendarFeed serves the grid as a subscribable iCalendar document.
func CalendarFeed(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feed := ics.Feed(d.CalendarName, d.Repo.Items(), d.TimeNow())

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(feed))
	}
}
