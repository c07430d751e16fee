package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/sidelinehq/courtside/internal/httpserver/deps"
	"github.com/sidelinehq/courtside/internal/httpserver/handlers"
	"github.com/sidelinehq/courtside/internal/httpserver/mw"
)

func init() { Register(registerImports) }

// CSV imports fan out into batch writes, so the route sits behind the
// same rate limiter as the forced refresh.
func registerImports(r chi.Router, d deps.Deps) {
	r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		mw.RateLimit(mw.RateLimitConfig{
			Burst:             d.RateBurst,
			RefillPerIPPerMin: d.RateRefill,
			MaxEntries:        d.RateMax,
			TrustProxy:        d.TrustProxy,
		}),
	).Post("/api/import/csv", handlers.ImportCSV(d))
}
