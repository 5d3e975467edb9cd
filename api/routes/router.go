package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reelwire/dcpflow-backend/api/controllers"
	"github.com/reelwire/dcpflow-backend/api/middleware"
	"github.com/reelwire/dcpflow-backend/internal/auth"
	"github.com/reelwire/dcpflow-backend/internal/bookings"
	"github.com/reelwire/dcpflow-backend/internal/cpl"
	"github.com/reelwire/dcpflow-backend/internal/distributors"
	"github.com/reelwire/dcpflow-backend/internal/ingest"
	"github.com/reelwire/dcpflow-backend/internal/orders"
	"github.com/reelwire/dcpflow-backend/internal/users"
	"github.com/reelwire/dcpflow-backend/pkg/auth/session"
	"github.com/reelwire/dcpflow-backend/pkg/config"
	"github.com/reelwire/dcpflow-backend/pkg/db"
	"github.com/reelwire/dcpflow-backend/pkg/enums"
	"github.com/reelwire/dcpflow-backend/pkg/logger"
	"github.com/reelwire/dcpflow-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. Optional entries may be
// nil; the affected middleware degrades rather than panics.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	Roles       middleware.RoleReader
	RoleCache   controllers.RoleInvalidator
	AuthSvc     auth.Service
	IngestSvc   *ingest.Service
	OrdersSvc   *orders.Service
	CplSvc      *cpl.Service
	Distributor *distributors.Service
	BookingsSvc *bookings.Service
	UsersSvc    *users.Service
	WireHealth  controllers.WireHealthChecker
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(deps.AuthSvc, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthSvc, logg))
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, deps.Roles, logg))
			r.Post("/logout", controllers.AuthLogout(deps.AuthSvc, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, deps.Roles, logg))
		if deps.Redis != nil {
			r.Use(middleware.Idempotency(deps.Redis, logg))
		}

		// Reads are open to every role, viewer included.
		r.Get("/orders", controllers.OrdersList(deps.OrdersSvc, logg))
		r.Get("/cpl-mappings", controllers.CplMappingsList(deps.CplSvc, logg))
		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", controllers.BookingsSummary(deps.BookingsSvc, logg))
			r.Get("/deliveries", controllers.BookingsDeliveriesBatch(deps.BookingsSvc, logg))
			r.Get("/{contentId}/deliveries", controllers.BookingsDeliveries(deps.BookingsSvc, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.AppRoleAdmin, enums.AppRoleClientService))
				r.Post("/{contentId}/submit", controllers.BookingsSubmit(deps.BookingsSvc, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.AppRoleAdmin, enums.AppRoleClientService))

			r.Post("/orders/upload", controllers.OrdersUpload(deps.IngestSvc, deps.Config.Upload, logg))
			r.Put("/cpl-mappings", controllers.CplMappingUpsert(deps.CplSvc, logg))
			r.Get("/distributors", controllers.DistributorsList(deps.Distributor, logg))
			r.Post("/settings/wire-test", controllers.SettingsWireTest(deps.WireHealth, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.AppRoleAdmin))

			r.Post("/distributors", controllers.DistributorsCreate(deps.Distributor, logg))
			r.Put("/distributors/{distributorId}/credential", controllers.DistributorsUpdateCredential(deps.Distributor, logg))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.UsersList(deps.UsersSvc, logg))
				r.Post("/invite", controllers.UsersInvite(deps.UsersSvc, logg))
				r.Put("/{userId}/role", controllers.UsersChangeRole(deps.UsersSvc, deps.RoleCache, logg))
				r.Put("/{userId}/status", controllers.UsersSetStatus(deps.UsersSvc, logg))
			})
		})
	})

	return r
}
