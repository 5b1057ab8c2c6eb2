package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/mbenkirane/cabinet-management/internal/auth"
	"github.com/mbenkirane/cabinet-management/internal/authz"
	"github.com/mbenkirane/cabinet-management/internal/client"
	"github.com/mbenkirane/cabinet-management/internal/portfolio"
	"github.com/mbenkirane/cabinet-management/internal/report"
	"github.com/mbenkirane/cabinet-management/internal/request"
	"github.com/mbenkirane/cabinet-management/internal/role"
	"github.com/mbenkirane/cabinet-management/internal/task"
	"github.com/mbenkirane/cabinet-management/internal/timeentry"
	"github.com/mbenkirane/cabinet-management/internal/transport/middleware"
	"github.com/mbenkirane/cabinet-management/internal/transport/swagger"
	"github.com/mbenkirane/cabinet-management/internal/user"
)

// Handlers bundles every feature handler the router mounts.
type Handlers struct {
	Auth      *auth.Handler
	User      *user.Handler
	Role      *role.Handler
	Portfolio *portfolio.Handler
	Client    *client.Handler
	Task      *task.Handler
	TimeEntry *timeentry.Handler
	Request   *request.Handler
	Report    *report.Handler
}

// RegisterAllRoutes wires the API surface under /api/v1. Everything except
// login, refresh, health and the OpenAPI artifacts sits behind the auth
// middleware; row-level decisions stay inside the services, so the only
// route-level guards are the coarse report gates.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.User.GetSelf)
			pr.Route("/users", func(ur chi.Router) {
				ur.Get("/", h.User.List)
				ur.Post("/", h.User.Create)
				ur.Get("/{id}", h.User.Get)
				ur.Patch("/{id}", h.User.Update)
				ur.Put("/{id}/roles", h.User.SyncRoles)
				ur.Get("/{id}/rates", h.User.ListRates)
				ur.Group(func(rr chi.Router) {
					rr.Use(middleware.RequirePermissions(authz.PermUsersRateSet))
					rr.Post("/{id}/rates", h.User.SetRate)
				})
				ur.Get("/{id}/time", h.TimeEntry.ListByUser)
			})

			pr.Get("/permissions", h.Role.ListPermissions)
			pr.Route("/roles", func(rr chi.Router) {
				rr.Get("/", h.Role.ListRoles)
				rr.Group(func(ar chi.Router) {
					ar.Use(middleware.RequireRoles(authz.RoleAdmin))
					ar.Post("/", h.Role.CreateRole)
					ar.Put("/{id}/permissions", h.Role.SyncPermissions)
				})
			})

			pr.Route("/portfolios", func(por chi.Router) {
				por.Get("/", h.Portfolio.List)
				por.Post("/", h.Portfolio.Create)
				por.Get("/{id}", h.Portfolio.Get)
				por.Patch("/{id}", h.Portfolio.Update)
				por.Delete("/{id}", h.Portfolio.Delete)
				por.Put("/{id}/collaborators", h.Portfolio.SyncCollaborators)
			})

			pr.Route("/clients", func(cr chi.Router) {
				cr.Get("/", h.Client.List)
				cr.Post("/", h.Client.Create)
				cr.Get("/{id}", h.Client.Get)
				cr.Patch("/{id}", h.Client.Update)
				cr.Delete("/{id}", h.Client.Delete)
				cr.Put("/{id}/collaborators", h.Client.SyncCollaborators)

				cr.Get("/{id}/documents", h.Client.ListDocuments)
				cr.Post("/{id}/documents", h.Client.UploadDocument)
				cr.Get("/{id}/documents/{documentID}", h.Client.DownloadDocument)
				cr.Delete("/{id}/documents/{documentID}", h.Client.DeleteDocument)

				cr.Get("/{id}/tasks", h.Task.ListForClient)
				cr.Get("/{id}/requests", h.Request.ListForClient)
			})

			pr.Route("/tasks", func(tr chi.Router) {
				tr.Get("/", h.Task.List)
				tr.Post("/", h.Task.Create)
				tr.Get("/{id}", h.Task.Get)
				tr.Patch("/{id}", h.Task.Update)
				tr.Delete("/{id}", h.Task.Delete)
				tr.Put("/{id}/assignees", h.Task.SyncAssignees)

				tr.Get("/{id}/time", h.TimeEntry.ListByTask)
				tr.Post("/{id}/time", h.TimeEntry.LogTime)
				tr.Get("/{id}/time/{entryID}", h.TimeEntry.Get)
				tr.Patch("/{id}/time/{entryID}", h.TimeEntry.Update)
				tr.Delete("/{id}/time/{entryID}", h.TimeEntry.Delete)
			})

			pr.Route("/requests", func(rr chi.Router) {
				rr.Get("/", h.Request.List)
				rr.Post("/", h.Request.Create)
				rr.Get("/{id}", h.Request.Get)
				rr.Patch("/{id}", h.Request.Update)
				rr.Delete("/{id}", h.Request.Delete)

				rr.Get("/{id}/files", h.Request.ListFiles)
				rr.Post("/{id}/files", h.Request.AttachFile)
				rr.Get("/{id}/files/{fileID}", h.Request.DownloadFile)
				rr.Delete("/{id}/files/{fileID}", h.Request.DeleteFile)

				rr.Get("/{id}/messages", h.Request.ListMessages)
				rr.Post("/{id}/messages", h.Request.PostMessage)
			})

			pr.Route("/reports", func(rr chi.Router) {
				rr.Group(func(vr chi.Router) {
					vr.Use(middleware.RequireGate(authz.ViewReports, "reports.view"))
					vr.Get("/productivity", h.Report.Productivity)
					vr.Get("/cost", h.Report.Cost)
				})
				rr.Group(func(er chi.Router) {
					er.Use(middleware.RequireGate(authz.ExportTime, "time.export"))
					er.Get("/time/export", h.Report.ExportTime)
				})
			})
		})
	})
}
