package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/sidelinehq/courtside/internal/httpserver/deps"
	"github.com/sidelinehq/courtside/internal/httpserver/handlers"
	"github.com/sidelinehq/courtside/internal/httpserver/mw"
)

func init() { Register(registerItems) }

func registerItems(r chi.Router, d deps.Deps) {
	api := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))
	api.Get("/api/items", handlers.ListItems(d))
	api.Post("/api/items", handlers.CreateItem(d))
	api.Get("/api/items/{id}", handlers.GetItem(d))
	api.Put("/api/items/{id}", handlers.UpdateItem(d))
	api.Delete("/api/items/{id}", handlers.DeleteItem(d))
	api.Post("/api/items/reorder", handlers.ReorderItems(d))
}
