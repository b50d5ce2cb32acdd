package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"admin-console/internal/config"
	"admin-console/internal/handler"
	"admin-console/internal/middleware"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	Category  *handler.CategoryHandler
	Product   *handler.ProductHandler
	Customer  *handler.CustomerHandler
	System    *handler.SystemHandler
}

func New(cfg *config.Config, gate *middleware.SessionGate, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", h.System.Health)

	r.Route("/api/v1", func(api chi.Router) {
		// The event stream is long lived and needs the raw connection, so it
		// stays outside the request timeout.
		api.With(gate.RequireSession).Get("/events", h.System.Events)

		api.Group(func(api chi.Router) {
			api.Use(middleware.Timeout(cfg.RequestTimeout))

			api.Get("/backend/status", h.System.BackendStatus)

			api.Route("/auth", func(auth chi.Router) {
				auth.Post("/login", h.Auth.Login)
				auth.Post("/logout", h.Auth.Logout)
				auth.Get("/session", h.Auth.Session)
				auth.With(gate.RequireSession).Put("/password", h.Auth.ChangePassword)
			})

			api.Group(func(protected chi.Router) {
				protected.Use(gate.RequireSession)

				protected.Route("/dashboard", func(d chi.Router) {
					d.Get("/", h.Dashboard.Stats)
					d.Get("/statistics", h.Dashboard.Statistics)
					d.Get("/categories", h.Dashboard.CategorySales)
					d.Get("/locations", h.Dashboard.CustomerLocations)
					d.Get("/most-sold", h.Dashboard.MostSoldProducts)
				})

				protected.Route("/categories", func(c chi.Router) {
					c.Get("/", h.Category.List)
					c.Post("/", h.Category.Create)
					c.Get("/{id}", h.Category.Get)
					c.Put("/{id}", h.Category.Update)
					c.Delete("/{id}", h.Category.Delete)
				})

				protected.Route("/products", func(p chi.Router) {
					p.Get("/", h.Product.List)
					p.Post("/", h.Product.Create)
					p.Post("/images", h.Product.UploadImages)
					p.Get("/{id}", h.Product.Get)
					p.Put("/{id}", h.Product.Update)
					p.Delete("/{id}", h.Product.Delete)
				})

				protected.Route("/customers", func(c chi.Router) {
					c.Get("/", h.Customer.List)
					c.Post("/", h.Customer.Create)
					c.Get("/{id}", h.Customer.Get)
					c.Delete("/{id}", h.Customer.Delete)
					c.Post("/{id}/restore", h.Customer.Restore)
					c.Put("/{id}/password", h.Customer.ChangePassword)
				})
			})
		})
	})

	return r
}
