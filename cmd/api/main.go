package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/compliqo/compliqo-backend/api/routes"
	"github.com/compliqo/compliqo-backend/internal/certificates"
	"github.com/compliqo/compliqo-backend/internal/certrender"
	"github.com/compliqo/compliqo-backend/pkg/config"
	"github.com/compliqo/compliqo-backend/pkg/db"
	"github.com/compliqo/compliqo-backend/pkg/logger"
	"github.com/compliqo/compliqo-backend/pkg/mailer"
	"github.com/compliqo/compliqo-backend/pkg/metrics"
	"github.com/compliqo/compliqo-backend/pkg/migrate"
	"github.com/compliqo/compliqo-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	certMetrics := metrics.NewCertificateMetrics(registry)

	var template certrender.TemplateProvider
	if cfg.Certificates.TemplatePath != "" {
		disk, err := certrender.NewDiskTemplate(cfg.Certificates.TemplatePath)
		if err != nil {
			logg.Error(context.Background(), "failed to configure certificate template", err)
			os.Exit(1)
		}
		template = disk
	}
	renderer, err := certrender.NewRenderer(template, cfg.Certificates.IssuingOrg, cfg.Certificates.QRSizePx)
	if err != nil {
		logg.Error(context.Background(), "failed to create certificate renderer", err)
		os.Exit(1)
	}

	var mail mailer.Mailer
	if cfg.Certificates.DeliveryEnabled {
		sg, err := mailer.NewSendgridMailer(cfg.Sendgrid)
		if err != nil {
			logg.Error(context.Background(), "failed to create mailer", err)
			os.Exit(1)
		}
		mail = sg
	}

	certificateService, err := certificates.NewService(
		certificates.NewRepository(dbClient.DB()),
		certificates.NewUserRepository(dbClient.DB()),
		certificates.NewCourseRepository(dbClient.DB()),
		certificates.NewEnrollmentRepository(dbClient.DB()),
		renderer,
		mail,
		logg,
		certMetrics,
		cfg.Certificates,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create certificate service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, certificateService, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
