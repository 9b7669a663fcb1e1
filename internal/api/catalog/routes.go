package catalog

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the catalog endpoints on the router.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/catalog", func(r chi.Router) {
		r.Get("/topics", h.ListTopics)
		r.Post("/topics", h.CreateTopic)

		r.Route("/topics/{id}", func(r chi.Router) {
			r.Get("/tags", h.ListTopicTags)
			r.Put("/tags/{tag_id}", h.LinkTag)
			r.Delete("/tags/{tag_id}", h.UnlinkTag)
			r.Get("/questions/export", h.ExportQuestions)
		})

		r.Get("/tags", h.ListTags)
		r.Post("/tags", h.CreateTag)

		r.Get("/templates", h.ListTemplates)
		r.Get("/questions", h.ListQuestions)
	})
}
