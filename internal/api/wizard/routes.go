package wizard

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the wizard endpoints on the router.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/wizard", func(r chi.Router) {
		r.Post("/", h.Open)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Post("/cancel", h.Cancel)

			r.Get("/topics", h.ListTopics)
			r.Get("/tags", h.ListTags)
			r.Get("/templates", h.ListTemplates)

			r.Post("/topic", h.SelectTopic)
			r.Post("/tags", h.AddTag)
			r.Delete("/tags/{tag_id}", h.RemoveTag)
			r.Post("/template", h.SelectTemplate)

			r.Post("/next", h.Next)
			r.Post("/back", h.Back)
			r.Post("/mode", h.SetMode)
			r.Put("/draft", h.UpdateDraft)

			r.Post("/submit", h.Submit)
			r.Post("/import", h.Import)
		})
	})
}
