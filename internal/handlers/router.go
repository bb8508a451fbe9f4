package handlers

import (
	"net/http"
	"time"

	"todoCalendar/internal/middleware"
	"todoCalendar/internal/workspace"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterConfig struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	RateLimit      int
	Cookies        middleware.CookieOptions
}

func NewRouter(h *Handler, reg *workspace.Registry, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.RateLimit(cfg.RateLimit))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Workspace(reg, cfg.Cookies))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signin", h.SignIn)   // POST /auth/signin
			r.Post("/signup", h.SignUp)   // POST /auth/signup
			r.Post("/signout", h.SignOut) // POST /auth/signout
			r.Get("/session", h.Session)  // GET /auth/session
		})

		r.Get("/notifications", h.Notifications)
		r.Get("/preferences/theme", h.GetTheme)
		r.Put("/preferences/theme", h.SetTheme)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession)

			r.Route("/list", func(r chi.Router) {
				r.Get("/", h.GetList)
				r.Put("/filter", h.SetListFilter)
				r.Put("/sort", h.SetListSort)
				r.Post("/todos", h.AddTodo)
				r.Post("/todos/{id}/toggle", h.ToggleTodo)
				r.Delete("/todos/{id}", h.DeleteTodo)
			})

			r.Route("/calendar", func(r chi.Router) {
				r.Get("/", h.GetCalendar)
				r.Post("/prev", h.CalendarPrev)
				r.Post("/next", h.CalendarNext)
				r.Post("/today", h.CalendarToday)
				r.Get("/todos/{id}", h.SelectCalendarTodo)
				r.Delete("/selection", h.CloseCalendarSelection)
				r.Post("/selection/toggle", h.ToggleCalendarSelection)
			})
		})
	})

	return r
}
