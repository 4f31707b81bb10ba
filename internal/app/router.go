package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/foliohq/folio/internal/auth"
	"github.com/foliohq/folio/internal/messages"
	"github.com/foliohq/folio/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	AuthHandler     *auth.Handler
	AuthMiddleware  auth.Middleware
	MessagesHandler *messages.Handler
	UsersHandler    *users.Handler
}

// NewRouter constructs the chi.Router with Folio defaults. The request gate
// runs first; protected routes pass token verification before reaching the
// resource handlers.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)

		r.Post("/contact", params.MessagesHandler.HandleContact)

		r.Route("/admin", func(r chi.Router) {
			r.Use(params.AuthMiddleware.RequireAuth)

			r.Get("/verify", params.AuthHandler.HandleVerify)

			r.Route("/messages", func(r chi.Router) {
				r.With(params.AuthMiddleware.RequirePermission(auth.PermRead)).
					Get("/", params.MessagesHandler.HandleList)
				r.With(params.AuthMiddleware.RequirePermission(auth.PermWrite)).
					Put("/", params.MessagesHandler.HandleUpdate)
				r.With(params.AuthMiddleware.RequirePermission(auth.PermDelete)).
					Delete("/", params.MessagesHandler.HandleDelete)
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(params.AuthMiddleware.RequirePermission(auth.PermManageUsers))
				params.UsersHandler.MountRoutes(r)
			})
		})
	})

	return r
}
