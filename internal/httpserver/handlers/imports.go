package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sidelinehq/courtside/internal/domain"
	"github.com/sidelinehq/courtside/internal/httpserver/deps"
	"github.com/sidelinehq/courtside/internal/importer"
	"github.com/sidelinehq/courtside/internal/logger"
	"github.com/sidelinehq/courtside/internal/repo"
	"github.com/sidelinehq/courtside/internal/utils"
)

// maxCSVBytes caps an uploaded campaign sheet.
const maxCSVBytes = 10 << 20

type importResponse struct {
	Imported    int    `json:"imported"`
	Failed      int    `json:"failed,omitempty"`
	SkippedRows int    `json:"skippedRows,omitempty"`
	Error       string `json:"error,omitempty"`
	Retryable   bool   `json:"retryable,omitempty"`
}

// ImportCSV bulk-loads sponsorship campaigns from an uploaded sheet.
// Rows land on the date given by ?date= (today when absent).
func ImportCSV(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := strings.TrimSpace(r.URL.Query().Get("date"))
		if date == "" {
			date = d.TimeNow().Format(domain.DateLayout)
		}

		body := http.MaxBytesReader(w, r.Body, maxCSVBytes)
		defer utils.Close(body)

		items, skipped, err := importer.Parse(body, date)
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "csv exceeds the upload limit"})
				return
			}
			writeError(w, d.Logger, err)
			return
		}
		if len(items) == 0 {
			writeJSON(w, http.StatusOK, importResponse{Imported: 0, SkippedRows: skipped})
			return
		}

		imported, err := d.Repo.BulkImport(r.Context(), items)
		if err != nil {
			var perr *repo.PartialBatchError
			if errors.As(err, &perr) {
				d.Logger.Warn("csv import partially failed",
					logger.Int("imported", perr.Succeeded),
					logger.Int("failed", perr.Failed),
					logger.Error(perr.Err))
				writeJSON(w, http.StatusMultiStatus, importResponse{
					Imported:    perr.Succeeded,
					Failed:      perr.Failed,
					SkippedRows: skipped,
					Error:       perr.Err.Error(),
					Retryable:   true,
				})
				return
			}
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("csv import complete",
			logger.String("date", date),
			logger.Int("imported", len(imported)),
			logger.Int("skipped_rows", skipped))
		writeJSON(w, http.StatusCreated, importResponse{Imported: len(imported), SkippedRows: skipped})
	}
}
