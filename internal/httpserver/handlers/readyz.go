package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sidelinehq/courtside/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool `json:"ready"`
}

// Readyz reports whether the calendar has been loaded into memory.
// Until the cold start finishes, the service cannot answer usefully.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ready := !d.Repo.Stats().LastSyncedAt.IsZero()

		w.Header().Set("Content-Type", "application/json")
		if !ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		_ = json.NewEncoder(w).Encode(readyzResponse{
			Ready: ready,
		})
	}
}
