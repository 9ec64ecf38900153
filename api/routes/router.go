package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mateoguzman/skylens-backend/api/controllers"
	"github.com/mateoguzman/skylens-backend/api/middleware"
	"github.com/mateoguzman/skylens-backend/internal/auth"
	"github.com/mateoguzman/skylens-backend/internal/clusterperms"
	"github.com/mateoguzman/skylens-backend/internal/clusters"
	"github.com/mateoguzman/skylens-backend/internal/resources"
	"github.com/mateoguzman/skylens-backend/internal/users"
	"github.com/mateoguzman/skylens-backend/pkg/config"
	"github.com/mateoguzman/skylens-backend/pkg/logger"
	"github.com/mateoguzman/skylens-backend/pkg/metrics"
	"github.com/mateoguzman/skylens-backend/pkg/redis"
)

// Deps collects everything the router needs. Nil optional members (metrics,
// redis) disable their middleware rather than breaking the router.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           controllers.Pinger
	Redis        *redis.Client
	HTTPMetrics  *metrics.HTTPMetrics
	MetricsGath  prometheus.Gatherer
	Resolver     middleware.PrincipalResolver
	AuthService  auth.Service
	Register     auth.RegisterService
	Reset        auth.ResetService
	Users        users.Service
	Clusters     clusters.Service
	Resources    resources.Service
	ClusterPerms clusterperms.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	signinPolicy := middleware.NewAuthRateLimitPolicy(
		"signin",
		cfg.AuthRateLimit.SigninWindow,
		cfg.AuthRateLimit.SigninIPLimit,
		cfg.AuthRateLimit.SigninEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)
	resetPolicy := middleware.NewAuthRateLimitPolicy(
		"reset",
		cfg.AuthRateLimit.ResetWindow,
		cfg.AuthRateLimit.ResetIPLimit,
		cfg.AuthRateLimit.ResetEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.MetricsGath != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsGath, promhttp.HandlerOpts{}))
	}

	r.Get("/ping", controllers.PublicPing())

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signupPolicy, deps.Redis, logg)).
			Post("/signup", controllers.AuthSignup(deps.Register, logg))
		r.With(middleware.AuthRateLimit(signinPolicy, deps.Redis, logg)).
			Post("/signin", controllers.AuthSignin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(resetPolicy, deps.Redis, logg)).
			Post("/password-reset/request", controllers.PasswordResetRequest(deps.Reset, logg))
		r.Post("/password-reset/confirm", controllers.PasswordResetConfirm(deps.Reset, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.Resolver, logg))
			r.Post("/signout", controllers.AuthSignout(logg))
			r.Get("/user", controllers.AuthCurrentUser(logg))
			r.Patch("/profile", controllers.AuthUpdateProfile(deps.Users, logg))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(deps.Resolver, logg))

		r.Get("/private/ping", controllers.PrivatePing())

		r.With(middleware.RequireDashboard(logg)).
			Get("/dashboard/stats", controllers.DashboardStats(deps.Resources, logg))

		r.With(middleware.RequireClusters(logg)).
			Get("/clusters", controllers.ClustersList(deps.Clusters, logg))

		r.With(middleware.RequireReports(logg)).
			Get("/resources", controllers.ResourcesList(deps.Resources, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUserManagement(logg))

			r.Route("/admin/users", func(r chi.Router) {
				r.Get("/", controllers.AdminUsersList(deps.Users, logg))
				r.Get("/{id}", controllers.AdminUserGet(deps.Users, logg))
				r.Patch("/{id}", controllers.AdminUserUpdate(deps.Users, logg))
				r.Delete("/{id}", controllers.AdminUserDelete(deps.Users, logg))
			})

			r.Route("/user-cluster-permissions", func(r chi.Router) {
				r.Post("/", controllers.ClusterPermissionSet(deps.ClusterPerms, logg))
				r.Get("/{userId}/{clusterId}", controllers.ClusterPermissionCheck(deps.ClusterPerms, logg))
				r.Delete("/{userId}/{clusterId}", controllers.ClusterPermissionDelete(deps.ClusterPerms, logg))
			})
		})
	})

	return r
}
