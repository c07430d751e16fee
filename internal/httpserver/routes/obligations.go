package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/sidelinehq/courtside/internal/httpserver/deps"
	"github.com/sidelinehq/courtside/internal/httpserver/handlers"
	"github.com/sidelinehq/courtside/internal/httpserver/mw"
)

func init() { Register(registerObligations) }

func registerObligations(r chi.Router, d deps.Deps) {
	api := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))
	api.Put("/api/items/{id}/obligations/{kind}", handlers.SetObligation(d))
	api.Delete("/api/items/{id}/obligations/{kind}", handlers.DeleteObligation(d))
	api.Post("/api/items/{id}/obligations/{kind}/posts", handlers.AddPost(d))
	api.Post("/api/items/{id}/obligations/{kind}/posts/{post}/urls", handlers.AddPostURL(d))
	api.Delete("/api/items/{id}/obligations/{kind}/posts/{post}/urls", handlers.DeletePostURL(d))
}
