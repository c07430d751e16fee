package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sidelinehq/courtside/internal/httpserver/deps"
)

type componentStatus struct {
	OK       bool   `json:"ok"`
	Items    *int   `json:"items,omitempty"`
	LastSync string `json:"last_sync,omitempty"`
	Source   string `json:"source,omitempty"`
	Backend  string `json:"backend,omitempty"`
	Error    string `json:"error,omitempty"`
}

type statusResponse struct {
	Mode          string                     `json:"mode"`
	Components    map[string]componentStatus `json:"components"`
	RemoteFetches int64                      `json:"remote_fetches"`
	CacheHits     int64                      `json:"cache_hits"`
}

// Status reports what the calendar is running on: memory state, store
// reachability, and the read-economy counters.
func Status(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := d.Repo.Stats()

		lastSync := "never"
		if !stats.LastSyncedAt.IsZero() {
			lastSync = stats.LastSyncedAt.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"calendar": {
				OK:       !stats.LastSyncedAt.IsZero(),
				Items:    &stats.Items,
				LastSync: lastSync,
				Source:   stats.SyncSource,
			},
			"store": checkStore(d),
		}

		writeJSON(w, http.StatusOK, statusResponse{
			Mode:          determineMode(components),
			Components:    components,
			RemoteFetches: stats.RemoteFetches,
			CacheHits:     stats.CacheHits,
		})
	}
}

// determineMode grades the service. Memory empty means nothing to
// serve: critical. Store down with memory loaded still serves reads
// but loses writes: degraded.
func determineMode(components map[string]componentStatus) string {
	if calendar, exists := components["calendar"]; exists && !calendar.OK {
		return "critical"
	}
	if store, exists := components["store"]; exists && !store.OK {
		return "degraded"
	}
	return "synced"
}

func checkStore(d deps.Deps) componentStatus {
	if d.Collection == nil {
		return componentStatus{
			OK:      false,
			Backend: d.StoreBackend,
			Error:   "collection not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.Collection.Ping(ctx); err != nil {
		return componentStatus{
			OK:      false,
			Backend: d.StoreBackend,
			Error:   err.Error(),
		}
	}

	return componentStatus{
		OK:      true,
		Backend: d.StoreBackend,
	}
}
