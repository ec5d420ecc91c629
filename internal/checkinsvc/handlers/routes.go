package handlers

import (
	"github.com/go-chi/chi"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.HealthHandler)

		// attendee/station check-in path, no auth
		r.Post("/checkins", h.CreateCheckIn)
		r.Put("/checkins/{id}/profile", h.BindProfile)
		r.Post("/checkins/{id}/profile", h.CreateProfileAndBind)

		r.Put("/devices/{id}/label", h.LabelDevice)

		r.Get("/events", h.ListEvents)
		r.Post("/events", h.CreateEvent)
		r.Get("/events/{id}", h.GetEvent)
		r.Put("/events/{id}/active", h.SetEventActive)
		r.Get("/events/{id}/checkins", h.GetEventCheckIns)

		r.Get("/profiles", h.ListProfiles)
		r.Post("/profiles", h.CreateProfile)
		r.Delete("/profiles/{id}", h.DeleteProfile)
	})
}
