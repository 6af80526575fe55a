package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/compliqo/compliqo-backend/api/controllers"
	"github.com/compliqo/compliqo-backend/api/middleware"
	"github.com/compliqo/compliqo-backend/internal/certificates"
	"github.com/compliqo/compliqo-backend/pkg/config"
	"github.com/compliqo/compliqo-backend/pkg/db"
	"github.com/compliqo/compliqo-backend/pkg/logger"
	"github.com/compliqo/compliqo-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	certificateService certificates.Service,
	promRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	// A typed-nil *redis.Client must stay a nil interface so the
	// readiness handler skips the check instead of panicking.
	var redisPinger redis.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	// Verification is reachable by anyone holding a certificate, paper
	// copy included. It must never require credentials.
	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Get("/verify-certificate/{certificateId}", controllers.VerifyCertificate(certificateService, logg))
	})

	var idemStore redis.IdempotencyStore
	if redisClient != nil {
		idemStore = redisClient
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/certificates", func(r chi.Router) {
			r.Get("/", controllers.CertificateList(certificateService, logg))
			r.Post("/{courseId}/generate", controllers.CertificateGenerate(certificateService, logg))
		})
	})

	return r
}
