package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sidelinehq/courtside/internal/domain"
	"github.com/sidelinehq/courtside/internal/httpserver/deps"
	"github.com/sidelinehq/courtside/internal/logger"
)

// ListItems serves the whole calendar, or one day of it with ?date=.
func ListItems(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if date := strings.TrimSpace(r.URL.Query().Get("date")); date != "" {
			writeJSON(w, http.StatusOK, d.Repo.ItemsOn(date))
			return
		}
		writeJSON(w, http.StatusOK, d.Repo.Items())
	}
}

// GetItem serves a single item by ID.
func GetItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		item, ok := d.Repo.Get(id)
		if !ok {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "item " + id + " not found"})
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

// CreateItem stores a new item and returns it with its assigned ID.
func CreateItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var item domain.CalendarItem
		if err := decodeBody(r, &item); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		created, err := d.Repo.Add(r.Context(), item)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("item created",
			logger.String("id", created.ID),
			logger.String("date", created.Date),
			logger.String("type", string(created.Type)))
		writeJSON(w, http.StatusCreated, created)
	}
}

// UpdateItem overwrites an item in full.
func UpdateItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var item domain.CalendarItem
		if err := decodeBody(r, &item); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		updated, err := d.Repo.Update(r.Context(), id, item)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("item updated", logger.String("id", id))
		writeJSON(w, http.StatusOK, updated)
	}
}

// DeleteItem removes an item.
func DeleteItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := d.Repo.Delete(r.Context(), id); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("item deleted", logger.String("id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}

type reorderRequest struct {
	Date string   `json:"date"`
	IDs  []string `json:"ids"`
}

// ReorderItems rewrites the order of one day and returns the day.
func ReorderItems(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reorderRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		if err := d.Repo.Reorder(r.Context(), req.Date, req.IDs); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("day reordered",
			logger.String("date", req.Date),
			logger.Int("items", len(req.IDs)))
		writeJSON(w, http.StatusOK, d.Repo.ItemsOn(req.Date))
	}
}
