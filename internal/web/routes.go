package web

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(h *Handler, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(sameOrigin(allowedOrigins))

	RegisterRoutes(r, h, allowedOrigins)
	return r
}

func RegisterRoutes(r chi.Router, h *Handler, allowedOrigins []string) {
	r.Get("/ping", h.HandlePing)

	r.Get("/", h.HandleIndex)
	r.Get("/login", h.HandleLogin)
	r.Get("/auth/callback", h.HandleCallback)
	r.Post("/logout", h.HandleLogout)

	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)
		r.Get("/pages", h.HandlePages)
		r.Post("/pages/select", h.HandleSelect)
		r.Post("/pages/send", h.HandleSend)
	})

	r.Route("/api", func(r chi.Router) {
		// An empty list means same-origin only; the cors package would
		// otherwise treat it as "allow all".
		if len(allowedOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   allowedOrigins,
				AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders:   []string{"Accept", "Content-Type"},
				AllowCredentials: true,
			}))
		}

		r.Get("/session", h.HandleAPISession)
		r.Post("/logout", h.HandleAPILogout)

		r.Group(func(r chi.Router) {
			r.Use(h.requireSessionAPI)
			r.Get("/pages", h.HandleAPIPages)
			r.Post("/select", h.HandleAPISelect)
			r.Post("/send", h.HandleAPISend)
		})
	})
}
