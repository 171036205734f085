package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/fhir-console/internal/config"
	"github.com/jwalitptl/fhir-console/internal/fhir"
	"github.com/jwalitptl/fhir-console/internal/handler"
	mediaHandler "github.com/jwalitptl/fhir-console/internal/handler/media"
	observationHandler "github.com/jwalitptl/fhir-console/internal/handler/observation"
	patientHandler "github.com/jwalitptl/fhir-console/internal/handler/patient"
	"github.com/jwalitptl/fhir-console/internal/middleware"
	"github.com/jwalitptl/fhir-console/internal/router"
	mediaService "github.com/jwalitptl/fhir-console/internal/service/media"
	observationService "github.com/jwalitptl/fhir-console/internal/service/observation"
	patientService "github.com/jwalitptl/fhir-console/internal/service/patient"
	"github.com/jwalitptl/fhir-console/internal/service/submission"
	"github.com/jwalitptl/fhir-console/pkg/attachment"
	"github.com/jwalitptl/fhir-console/pkg/auth"
	"github.com/jwalitptl/fhir-console/pkg/cache"
	"github.com/jwalitptl/fhir-console/pkg/circuitbreaker"
	"github.com/jwalitptl/fhir-console/pkg/logger"
	"github.com/jwalitptl/fhir-console/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("fhir_console", "api")

	tokens := tokenSource(cfg.Auth)

	breaker := circuitbreaker.New(circuitbreaker.Settings{
		Name:        "fhir",
		MaxFailures: cfg.FHIR.BreakerMax,
		Timeout:     time.Duration(cfg.FHIR.BreakerResetS) * time.Second,
	})

	client := fhir.NewClient(fhir.Config{
		BaseURL: cfg.FHIR.BaseURL,
		Timeout: cfg.FHIR.Timeout(),
	}, tokens, breaker, appLogger, appMetrics)

	store, closeStore, err := cacheStore(cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to cache")
	}
	defer closeStore()

	photos := attachment.NewPhotoCache(store, appMetrics)
	submitter := submission.NewService(client, appLogger, appMetrics)

	patientSvc := patientService.NewService(client, submitter, photos, appLogger.WithResource("Patient"))
	observationSvc := observationService.NewService(client, submitter, appLogger.WithResource("Observation"))
	mediaSvc := mediaService.NewService(client, submitter, photos, appLogger.WithResource("Media"))

	r := router.NewRouter(router.Config{
		RateLimit:     rate.Limit(cfg.Limits.RateLimit),
		RateBurst:     cfg.Limits.RateBurst,
		CORSConfig:    middleware.DefaultCORSConfig(),
		MetricsPrefix: "fhir_console",
	},
		[]handler.ReadinessChecker{
			func(c *gin.Context) error {
				ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
				defer cancel()
				return client.Ping(ctx)
			},
		},
		patientHandler.NewHandler(patientSvc),
		observationHandler.NewHandler(observationSvc),
		mediaHandler.NewHandler(mediaSvc),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.Timeout(),
		WriteTimeout: cfg.Server.Timeout(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func tokenSource(cfg config.AuthConfig) auth.TokenSource {
	switch cfg.Mode {
	case "static":
		return auth.NewStaticTokenSource(cfg.Token)
	case "oauth":
		return auth.NewOAuthTokenSource(auth.OAuthConfig{
			TokenURL:     cfg.TokenURL,
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
		}, nil)
	default:
		return nil
	}
}

func cacheStore(cfg config.CacheConfig) (cache.Store, func(), error) {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryStore(cfg.TTL(), time.Hour), func() {}, nil
	}

	store, err := cache.NewRedisStore(cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.TTL(),
	})
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}
