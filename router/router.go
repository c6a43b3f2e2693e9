package router

import (
	"database/sql"
	"net/http"

	"formdesk/config/database"
	formHandler "formdesk/internal/form"
	formRepository "formdesk/internal/form/repository"
	formService "formdesk/internal/form/service"
	roleHandler "formdesk/internal/user"
	userRepository "formdesk/internal/user/repository"
	roleService "formdesk/internal/user/service"
	"formdesk/middleware"
	"formdesk/pkg/apperr"
	"formdesk/pkg/identity"
	"formdesk/pkg/logger"
	"formdesk/socket"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	DB         *sql.DB
	Hub        *socket.Hub
	Auth       *middleware.Authenticator
	Metadata   *identity.MetadataStore
	CORSOrigin string
}

func Setup(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSMiddleware(d.CORSOrigin))
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.MetricsMiddleware)

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		apperr.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := database.Ready(r.Context(), d.DB); err != nil {
			logger.Sugar.Warnf("Readiness check failed: %v", err)
			apperr.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "fail"})
			return
		}
		apperr.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	users := userRepository.NewUserRepository(d.DB)
	roles := roleService.NewRoleService(d.Metadata, users)
	rh := roleHandler.NewRoleHandler(roles)

	forms := formService.NewFormService(formRepository.NewFormRepository(d.DB), users, d.Hub)
	fh := formHandler.NewFormHandler(forms)

	r.Group(func(r chi.Router) {
		r.Use(d.Auth.Middleware)

		r.Get("/forms", fh.GetForms)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(roles, identity.RoleAdmin))
			r.Post("/forms", fh.CreateForm)
			r.Put("/forms", fh.UpdateForm)
			r.Delete("/forms", fh.DeleteForm)
		})

		r.Get("/role", rh.GetRole)
		r.Post("/role", rh.SetRole)

		r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			caller, ok := identity.CallerFrom(r.Context())
			if !ok {
				apperr.Unauthorized(w)
				return
			}
			socket.ServeWs(d.Hub, w, r, caller.ExternalID)
		})
	})

	return r
}
