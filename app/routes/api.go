// Package routes assembles the HTTP surface: public endpoints, the
// authenticated group, the admin group, the websocket entry point, and the
// operational endpoints.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"chungtay/app/controllers"
	"chungtay/pkg/metrics"
	"chungtay/pkg/middleware"
	"chungtay/pkg/realtime"
	"chungtay/pkg/reqid"
	"chungtay/pkg/storage"
)

// Controllers bundles every controller the router mounts.
type Controllers struct {
	Auth    *controllers.AuthController
	User    *controllers.UserController
	Case    *controllers.CaseController
	Support *controllers.SupportController
	Message *controllers.MessageController
	Stats   *controllers.StatsController
	Upload  *controllers.UploadController
}

// New builds the full router. resolve confirms token subjects still exist;
// hub serves the realtime endpoint.
func New(c Controllers, resolve middleware.UserResolver, hub *realtime.Hub) chi.Router {
	r := chi.NewRouter()

	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(metrics.Middleware())

	authed := middleware.Auth(resolve)

	r.Route("/api", func(r chi.Router) {
		// Public.
		r.Post("/auth/register", c.Auth.Register)
		r.Post("/auth/login", c.Auth.Login)

		r.Get("/cases", c.Case.List)
		r.Get("/cases/featured", c.Case.Featured)
		r.Get("/cases/{id}", c.Case.Detail)
		r.Get("/cases/{id}/supports", c.Support.ListByCase)
		r.Get("/cases/{id}/messages", c.Message.List)

		r.Get("/stats/top-supporters", c.Stats.TopSupporters)
		r.Get("/users/{id}", c.User.PublicProfile)

		// Authenticated.
		r.Group(func(r chi.Router) {
			r.Use(authed)

			r.Get("/users/me", c.User.Me)
			r.Put("/users/me", c.User.UpdateProfile)
			r.Put("/users/me/password", c.User.ChangePassword)

			r.Post("/cases", c.Case.Create)
			r.Get("/cases/mine", c.Case.MyCases)
			r.Put("/cases/{id}", c.Case.Update)
			r.Post("/cases/{id}/updates", c.Case.AddUpdate)

			r.Post("/cases/{id}/supports", c.Support.Create)
			r.Get("/supports/mine", c.Support.Mine)

			r.Post("/cases/{id}/messages", c.Message.Append)

			r.Post("/uploads", c.Upload.Images)
		})

		// Admin.
		r.Group(func(r chi.Router) {
			r.Use(authed, middleware.RequireAdmin)

			r.Get("/admin/dashboard", c.Stats.Dashboard)
			r.Put("/admin/cases/{id}/approve", c.Case.Approve)
			r.Put("/admin/cases/{id}/reject", c.Case.Reject)
			r.Put("/admin/cases/{id}/complete", c.Case.Complete)
			r.Put("/admin/cases/{id}/featured", c.Case.ToggleFeatured)
		})
	})

	// Realtime endpoint. Clients join case topics after connecting.
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		realtime.ServeWS(hub, w, r)
	})

	// Operational surface.
	r.Handle("/metrics", metrics.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok")) //nolint:errcheck
	})

	// Locally stored uploads.
	if root := storage.LocalRoot(); root != "" {
		fs := http.StripPrefix("/storage/", http.FileServer(http.Dir(root)))
		r.Get("/storage/*", fs.ServeHTTP)
	}

	return r
}
