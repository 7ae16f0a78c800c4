package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/vivekrana775/ems-backend/internal/auth"
	userDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/user"
	"github.com/vivekrana775/ems-backend/internal/employee"
	"github.com/vivekrana775/ems-backend/internal/request"
	"github.com/vivekrana775/ems-backend/internal/timeentry"
	"github.com/vivekrana775/ems-backend/internal/transport/middleware"
	"github.com/vivekrana775/ems-backend/internal/transport/swagger"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, employeeHandler *employee.Handler, requestHandler *request.Handler, timeEntryHandler *timeentry.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// OpenAPI spec and Swagger UI outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.pingHandler)
		r.Get("/health/ready", healthHandler.healthCheckHandler)

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/login", authHandler.Login)
			ar.Post("/refresh", authHandler.RefreshToken)
			ar.Post("/logout", authHandler.Logout)
			ar.Post("/password/forgot", authHandler.ForgotPassword)
			ar.Post("/password/reset", authHandler.ResetPassword)

			ar.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)
				pr.With(authHandler.RequireRoles(userDatamodel.RoleAdmin, userDatamodel.RoleHR)).
					Post("/signup", authHandler.Signup)
				pr.Post("/logout/all", authHandler.LogoutAll)
			})
		})

		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Route("/employees", func(er chi.Router) {
				er.With(authHandler.RequireRoles(auth.ElevatedRoles...)).Get("/", employeeHandler.List)
				er.With(authHandler.RequireRoles(auth.ElevatedRoles...)).Get("/{id}", employeeHandler.Get)
				er.With(authHandler.RequireRoles(userDatamodel.RoleAdmin, userDatamodel.RoleHR)).
					Post("/", employeeHandler.Create)
				er.With(authHandler.RequireRoles(userDatamodel.RoleAdmin, userDatamodel.RoleHR, userDatamodel.RoleManager)).
					Put("/{id}", employeeHandler.Update)
				er.With(authHandler.RequireRoles(userDatamodel.RoleAdmin, userDatamodel.RoleHR)).
					Patch("/{id}/status", employeeHandler.UpdateStatus)
			})

			pr.Route("/requests", func(rr chi.Router) {
				rr.Post("/", requestHandler.Create)
				rr.Get("/", requestHandler.List)
				rr.Get("/{id}", requestHandler.Get)
				rr.Patch("/{id}/status", requestHandler.UpdateStatus)
			})

			pr.Route("/time", func(tr chi.Router) {
				tr.Post("/clock-in", timeEntryHandler.ClockIn)
				tr.Post("/clock-out", timeEntryHandler.ClockOut)
				tr.Get("/entries", timeEntryHandler.List)
			})
		})
	})
}
