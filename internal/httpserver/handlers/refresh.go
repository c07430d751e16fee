package handlers

import (
	"net/http"
	"time"

	"github.com/sidelinehq/courtside/internal/httpserver/deps"
	"github.com/sidelinehq/courtside/internal/logger"
)

type refreshResponse struct {
	Items       int       `json:"items"`
	RefreshedAt time.Time `json:"refreshedAt"`
}

// Refresh forces a full pull from the remote collection, replacing
// both memory and the local snapshot. This is the expensive read path,
// which is why the route sits behind the rate limiter.
func Refresh(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Repo.LoadAll(r.Context(), true); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		stats := d.Repo.Stats()
		d.Logger.Info("manual refresh complete",
			logger.Int("items", stats.Items),
			logger.String("remote_ip", r.RemoteAddr))
		writeJSON(w, http.StatusOK, refreshResponse{Items: stats.Items, RefreshedAt: stats.LastSyncedAt})
	}
}
