package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sidelinehq/courtside/internal/httpserver/deps"
	"github.com/sidelinehq/courtside/internal/logger"
)

type setObligationRequest struct {
	Required int `json:"required"`
}

type postURLRequest struct {
	URL string `json:"url"`
}

// SetObligation adds or replaces one deliverable kind on an item.
func SetObligation(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, kind := chi.URLParam(r, "id"), chi.URLParam(r, "kind")

		var req setObligationRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		item, err := d.Repo.SetObligation(r.Context(), id, kind, req.Required)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("obligation set",
			logger.String("id", id),
			logger.String("kind", kind),
			logger.Int("required", req.Required))
		writeJSON(w, http.StatusOK, item)
	}
}

// DeleteObligation removes a deliverable kind from an item.
func DeleteObligation(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, kind := chi.URLParam(r, "id"), chi.URLParam(r, "kind")

		item, err := d.Repo.DeleteObligation(r.Context(), id, kind)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("obligation deleted",
			logger.String("id", id),
			logger.String("kind", kind))
		writeJSON(w, http.StatusOK, item)
	}
}

// AddPost records a delivered post under an obligation.
func AddPost(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, kind := chi.URLParam(r, "id"), chi.URLParam(r, "kind")

		var req postURLRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		item, err := d.Repo.AddPost(r.Context(), id, kind, req.URL)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("post recorded",
			logger.String("id", id),
			logger.String("kind", kind))
		writeJSON(w, http.StatusOK, item)
	}
}

// AddPostURL attaches another platform URL to a recorded post.
func AddPostURL(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, kind, post := chi.URLParam(r, "id"), chi.URLParam(r, "kind"), chi.URLParam(r, "post")

		var req postURLRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		item, err := d.Repo.AddPostURL(r.Context(), id, kind, post, req.URL)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		writeJSON(w, http.StatusOK, item)
	}
}

// DeletePostURL removes one URL occurrence from a recorded post. The
// URL travels in the body: platform URLs do not survive as path
// segments. Removing the last URL removes the post itself.
func DeletePostURL(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, kind, post := chi.URLParam(r, "id"), chi.URLParam(r, "kind"), chi.URLParam(r, "post")

		var req postURLRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		item, err := d.Repo.DeletePostURL(r.Context(), id, kind, post, req.URL)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		writeJSON(w, http.StatusOK, item)
	}
}
