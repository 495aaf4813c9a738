package router

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Irenepaul17/new-log-sub000/internal/auth"
	"github.com/Irenepaul17/new-log-sub000/internal/handler"
	mw "github.com/Irenepaul17/new-log-sub000/internal/middleware"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
)

type Handlers struct {
	Auth          *handler.AuthHandler
	Users         *handler.UserHandler
	WorkReports   *handler.WorkReportHandler
	Complaints    *handler.ComplaintHandler
	Assets        *handler.AssetHandler
	AssetRequests *handler.AssetRequestHandler
	SOS           *handler.SOSHandler
	Attachments   *handler.AttachmentHandler
	Dashboard     *handler.DashboardHandler
	Search        *handler.SearchHandler
	Admin         *handler.AdminHandler
}

// Options are the router's settings apart from its handlers.
type Options struct {
	JWTSecret   string
	CORSOrigins []string
	// Users is consulted on every authenticated request; nil trusts the token alone.
	Users auth.UserLookup
}

func New(log zerolog.Logger, opts Options, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(mw.Logger(log))
	r.Use(mw.Recovery)
	r.Use(mw.CORS(opts.CORSOrigins))

	r.Get("/healthz", h.Admin.Healthz)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/register", h.Auth.Register)
		r.Get("/auth/supervisors", h.Auth.Supervisors)
		r.Get("/healthz", h.Admin.Healthz)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(opts.JWTSecret, opts.Users))

			r.Get("/auth/me", h.Auth.Me)
			r.Get("/stats", h.Dashboard.Stats)
			r.Get("/search", h.Search.Search)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.Users.List)
				r.Get("/{userId}", h.Users.Get)
				r.Put("/{userId}", h.Users.Update)
				r.With(auth.RequireRole(models.RoleAdmin)).Delete("/{userId}", h.Users.Delete)
				r.Get("/{userId}/subordinates", h.Users.Subordinates)
			})

			r.Route("/work-reports", func(r chi.Router) {
				r.Get("/", h.WorkReports.List)
				r.Post("/", h.WorkReports.Create)
				r.Get("/{reportId}", h.WorkReports.Get)
				r.Put("/{reportId}", h.WorkReports.Update)
				r.Delete("/{reportId}", h.WorkReports.Delete)
				r.With(auth.RequireRole(models.RoleJE)).Post("/{reportId}/review", h.WorkReports.Review)
				r.Post("/{reportId}/attachments", h.Attachments.Upload)
			})

			r.Get("/attachments/{attachmentId}/download", h.Attachments.Download)
			r.Delete("/attachments/{attachmentId}", h.Attachments.Delete)

			r.Route("/complaints", func(r chi.Router) {
				r.Get("/", h.Complaints.List)
				r.Post("/", h.Complaints.Create)
				r.Get("/{complaintId}", h.Complaints.Get)
				r.Put("/{complaintId}/status", h.Complaints.SetStatus)
				r.Post("/{complaintId}/resolve", h.Complaints.Resolve)
				r.With(auth.RequireRole(models.RoleAdmin)).Delete("/{complaintId}", h.Complaints.Delete)
			})

			r.Get("/assets", h.Assets.Kinds)
			r.Route("/assets/{kind}", func(r chi.Router) {
				r.Get("/", h.Assets.List)
				r.Get("/{assetId}", h.Assets.Get)
				r.Group(func(r chi.Router) {
					r.Use(auth.RequireRole(models.RoleJE))
					r.Post("/", h.Assets.Create)
					r.Put("/{assetId}", h.Assets.Update)
				})
				r.With(auth.RequireRole(models.RoleSSE)).Delete("/{assetId}", h.Assets.Delete)
			})

			r.Route("/asset-requests", func(r chi.Router) {
				r.Get("/", h.AssetRequests.List)
				r.Post("/", h.AssetRequests.Create)
				r.Group(func(r chi.Router) {
					r.Use(auth.RequireRole(models.RoleJE))
					r.Post("/{requestId}/approve", h.AssetRequests.Approve)
					r.Post("/{requestId}/reject", h.AssetRequests.Reject)
				})
			})

			r.Route("/sos", func(r chi.Router) {
				r.Get("/", h.SOS.List)
				r.Post("/", h.SOS.Raise)
				r.Post("/{sosId}/acknowledge", h.SOS.Acknowledge)
			})
		})
	})

	return r
}
