package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the chi router. Registration and login are public; every
// other route requires a valid access token.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(h.identity))

			r.Route("/lists", func(r chi.Router) {
				r.Get("/", h.getLists)
				r.Post("/", h.createList)
				r.Get("/changes", h.getListChanges)

				r.Route("/{listID}", func(r chi.Router) {
					r.Get("/", h.getList)
					r.Put("/", h.updateList)
					r.Delete("/", h.deleteList)
					r.Get("/changed", h.getListChanged)
					r.Patch("/properties", h.patchListProperty)
					r.Put("/items", h.updateItem)
					r.Delete("/items/{name}", h.removeItem)
					r.Put("/products", h.upsertProduct)
					r.Get("/permissions", h.listPermissions)
					r.Put("/permissions/{targetID}", h.upsertPermission)
					r.Delete("/permissions/{targetID}", h.removePermission)
					r.Post("/share", h.createListShareLink)
				})
			})

			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", h.getContacts)
				r.Post("/share", h.createContactShareLink)
				r.Put("/{targetID}", h.upsertContact)
				r.Delete("/{targetID}", h.removeContact)
			})

			r.Post("/share/lists/{shareID}", h.redeemListShareLink)
			r.Post("/share/contacts/{shareID}", h.redeemContactShareLink)

			r.Post("/devices", h.registerDevice)
			r.Delete("/devices/{token}", h.unregisterDevice)

			r.Get("/events", h.streamEvents)
		})
	})

	return r
}
