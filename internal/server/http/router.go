package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"xiangqi/internal/config"
	"xiangqi/internal/server/game"
)

// NewRouter 组装 REST 接口、走子推送和静态页面
func NewRouter(mgr *game.Manager, hub *Hub, cfg *config.Store) http.Handler {
	h := NewHandler(mgr, hub, cfg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.ping)
		r.Get("/difficulties", h.difficulties)
		r.Post("/games", h.createGame)
		r.Route("/games/{id}", func(r chi.Router) {
			r.Get("/", h.getGame)
			r.Delete("/", h.deleteGame)
			r.Post("/select", h.selectPiece)
			r.Post("/move", h.move)
			r.Post("/undo", h.undo)
			r.Post("/ai", h.aiMove)
		})
	})
	r.Get("/ws/{id}", h.serveWS)

	c := cfg.Get()
	if c.WebDir != "" {
		RegisterStaticRoutes(r, c.WebDir, c.MobileWebDir)
	}
	return r
}
