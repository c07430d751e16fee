package handlers

import (
	"net/http"

	"github.com/sidelinehq/courtside/internal/domain"
	"github.com/sidelinehq/courtside/internal/httpserver/deps"
)

type progressBody struct {
	Completed  int         `json:"completed"`
	Required   int         `json:"required"`
	Percentage int         `json:"percentage"`
	Band       domain.Band `json:"band"`
}

type sponsoredEntry struct {
	domain.CalendarItem
	Progress  progressBody            `json:"progress"`
	Breakdown map[string]progressBody `json:"obligationProgress,omitempty"`
}

// Sponsored serves every sponsored entry with its delivery progress,
// overall and per obligation kind.
func Sponsored(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := d.Repo.Sponsored()

		entries := make([]sponsoredEntry, 0, len(items))
		for _, it := range items {
			entry := sponsoredEntry{
				CalendarItem: it,
				Progress:     toProgressBody(domain.OverallProgress(it)),
			}
			if len(it.Obligations) > 0 {
				entry.Breakdown = make(map[string]progressBody, len(it.Obligations))
				for kind, o := range it.Obligations {
					entry.Breakdown[kind] = toProgressBody(domain.ObligationProgress(o))
				}
			}
			entries = append(entries, entry)
		}

		writeJSON(w, http.StatusOK, entries)
	}
}

func toProgressBody(p domain.Progress) progressBody {
	return progressBody{
		Completed:  p.Completed,
		Required:   p.Required,
		Percentage: p.Percentage,
		Band:       p.Band(),
	}
}
