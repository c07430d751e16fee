package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/sidelinehq/courtside/internal/httpserver/deps"
	"github.com/sidelinehq/courtside/internal/httpserver/handlers"
	"github.com/sidelinehq/courtside/internal/httpserver/mw"
)

func init() { Register(registerRefresh) }

// A forced refresh is the one endpoint that always costs a remote
// read, so it gets its own token bucket.
func registerRefresh(r chi.Router, d deps.Deps) {
	r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		mw.RateLimit(mw.RateLimitConfig{
			Burst:             d.RateBurst,
			RefillPerIPPerMin: d.RateRefill,
			MaxEntries:        d.RateMax,
			TrustProxy:        d.TrustProxy,
		}),
	).Post("/api/refresh", handlers.Refresh(d))
}
