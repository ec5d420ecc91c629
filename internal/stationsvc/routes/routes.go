package routes

import (
	"github.com/zackdesign/checkin-app/internal/stationsvc/handlers"
	"github.com/zackdesign/checkin-app/internal/stationsvc/ws"
	"github.com/go-chi/chi"
)

func SetRoutes(r *chi.Mux, ws *ws.Ws) {
	h := handlers.NewHandler(ws)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/ws", h.HandleWebSocket)
		r.Get("/health", h.HealthHandler)
	})
}
