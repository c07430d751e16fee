package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/sidelinehq/courtside/internal/httpserver/deps"
	"github.com/sidelinehq/courtside/internal/httpserver/handlers"
	"github.com/sidelinehq/courtside/internal/httpserver/mw"
)

func init() { Register(registerCalendarFeed) }

func registerCalendarFeed(r chi.Router, d deps.Deps) {
	r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger)).Get("/api/calendar.ics", handlers.CalendarFeed(d))
}
