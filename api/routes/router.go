package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/b2b-portal/api/controllers"
	"github.com/angelmondragon/b2b-portal/api/middleware"
	"github.com/angelmondragon/b2b-portal/api/validators"
	"github.com/angelmondragon/b2b-portal/internal/auth"
	"github.com/angelmondragon/b2b-portal/internal/checkout"
	"github.com/angelmondragon/b2b-portal/internal/customers"
	"github.com/angelmondragon/b2b-portal/internal/orders"
	"github.com/angelmondragon/b2b-portal/pkg/auth/session"
	"github.com/angelmondragon/b2b-portal/pkg/config"
	"github.com/angelmondragon/b2b-portal/pkg/db"
	"github.com/angelmondragon/b2b-portal/pkg/logger"
	"github.com/angelmondragon/b2b-portal/pkg/redis"
)

// Dependencies carries everything the HTTP surface needs; lifecycles are owned by cmd/api.
type Dependencies struct {
	DB       db.Pinger
	Redis    *redis.Client
	Sessions session.Loader
	Gatherer prometheus.Gatherer

	Auth     auth.Service
	Profiles customers.Service
	Orders   orders.Service
	Checkout checkout.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins...),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginEmailLimit,
	)
	ipLimiter := middleware.NewIPRateLimiter(cfg.RateLimit)

	var redisPinger controllers.Pinger
	if deps.Redis != nil {
		redisPinger = deps.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg,
			controllers.ReadinessCheck{Name: "db", Pinger: deps.DB},
			controllers.ReadinessCheck{Name: "redis", Pinger: redisPinger},
		))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, rateStore(deps.Redis), logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).Post("/logout", controllers.AuthLogout(deps.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RateLimit(ipLimiter, logg))

		r.Get("/profile", controllers.ProfileGet(deps.Profiles, logg))
		r.Put("/profile", controllers.ProfileUpdate(deps.Profiles, logg))
		r.Get("/orders", controllers.OrdersList(deps.Orders, logg))

		checkoutBodyLimit := validators.MultipartLimit(cfg.Checkout.EvidenceMaxBytes())
		r.With(middleware.Idempotency(idempotencyStore(deps.Redis), checkoutBodyLimit, logg)).Post("/checkout", controllers.CheckoutSubmit(deps.Checkout, cfg.Checkout.EvidenceMaxBytes(), logg))
		r.Post("/checkout/quote", controllers.CheckoutQuote(deps.Checkout, logg))
	})

	return r
}

// rateStore and idempotencyStore keep a nil *redis.Client from becoming a non-nil interface.
func rateStore(client *redis.Client) middleware.RateLimiterStore {
	if client == nil {
		return nil
	}
	return client
}

func idempotencyStore(client *redis.Client) redis.IdempotencyStore {
	if client == nil {
		return nil
	}
	return client
}
