package rest

import (
	"net/http"

	"github.com/frahmantamala/inventory-management/internal"
	"github.com/frahmantamala/inventory-management/internal/audit"
	"github.com/frahmantamala/inventory-management/internal/auth"
	"github.com/frahmantamala/inventory-management/internal/inventory"
	"github.com/frahmantamala/inventory-management/internal/transport/middleware"
	"github.com/frahmantamala/inventory-management/internal/transport/swagger"
	"github.com/frahmantamala/inventory-management/internal/user"
	"github.com/go-chi/chi"
)

// Handlers groups everything the router mounts. Nil handlers are skipped.
type Handlers struct {
	Auth      *auth.Handler
	Users     *user.Handler
	Inventory *inventory.Handler
	Logs      *audit.Handler
	Health    *HealthHandler
}

type RouterConfig struct {
	AllowedOrigins []string
	Sessions       middleware.SessionLoader
}

func RegisterAllRoutes(router chi.Router, cfg RouterConfig, h Handlers) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.Get("/openapi.yml", swagger.SpecHandler)
	router.Handle("/swagger/*", swagger.Handler())

	if h.Health != nil {
		router.Get("/health", h.Health.healthCheckHandler)
		router.Get("/ping", h.Health.pingHandler)
	}

	router.Group(func(r chi.Router) {
		r.Use(middleware.DBScope)
		r.Use(middleware.Session(cfg.Sessions))

		if h.Auth != nil {
			r.Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
		}

		r.Route("/api", func(ar chi.Router) {
			ar.Use(middleware.RequireSession)

			if h.Auth != nil {
				ar.Get("/session", h.Auth.CurrentSession)
			}

			if h.Inventory != nil {
				ar.Route("/inventory", func(ir chi.Router) {
					ir.Get("/", h.Inventory.GetItems)

					ir.Group(func(wr chi.Router) {
						wr.Use(middleware.RequireRole(internal.IsAdminOrDirector))
						wr.Post("/", h.Inventory.CreateItem)
						wr.Post("/reset", h.Inventory.ResetInventory)
						wr.Put("/{id}", h.Inventory.UpdateItem)
						wr.Delete("/{id}", h.Inventory.DeleteItem)
					})
				})
			}

			ar.Group(func(dr chi.Router) {
				dr.Use(middleware.RequireRole(internal.IsDirector))

				if h.Users != nil {
					dr.Route("/users", func(ur chi.Router) {
						ur.Get("/", h.Users.GetUsers)
						ur.Post("/", h.Users.CreateUser)
						ur.Put("/{id}", h.Users.UpdateUser)
						ur.Put("/{id}/status", h.Users.UpdateUserStatus)
						ur.Delete("/{id}", h.Users.DeleteUser)
					})
				}

				if h.Logs != nil {
					dr.Get("/logs", h.Logs.GetLogs)
				}
			})
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		status, body := internal.NewNotFoundError("Not found", internal.ErrorCode(internal.ErrorTypeNotFound)).ToHTTPResponse()
		writeJSON(w, status, body)
	})
}
