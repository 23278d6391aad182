package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/careloop-health/readmit/pkg/common/config"
	"github.com/careloop-health/readmit/pkg/common/logger"
	"github.com/careloop-health/readmit/pkg/events"
	"github.com/careloop-health/readmit/pkg/gateway/auth"
	"github.com/careloop-health/readmit/pkg/gateway/middleware"
	"github.com/careloop-health/readmit/pkg/gateway/routes"
	"github.com/careloop-health/readmit/pkg/gateway/singleflight"
	"github.com/careloop-health/readmit/pkg/identity"
	"github.com/careloop-health/readmit/pkg/observability/metrics"
	"github.com/careloop-health/readmit/pkg/predictor"
)

func main() {
	logger.Init()
	cfg := config.Load()

	account, err := identity.NewService(identity.Account{
		Email:    cfg.AccountEmail,
		Password: cfg.AccountPassword,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to configure operator account")
	}

	tokenSigner, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.WithError(err).Fatal("Failed to configure token signer")
	}

	// OIDC replaces the local token verifier when an issuer is configured.
	var verifier middleware.TokenVerifier = tokenSigner
	if cfg.OIDCIssuer != "" {
		oidcAuth, err := auth.NewOIDCAuthenticator(cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret)
		if err != nil {
			logger.WithError(err).Warn("OIDC configuration incomplete, using the static operator account")
		} else {
			verifier = oidcAuth
		}
	}

	guard := buildGuard(cfg)
	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.WithError(err).Error("Failed to close event publisher")
		}
	}()

	modelClient := predictor.New(cfg.ModelServiceBaseURL, cfg.GatewayRequestTimeout)

	router := mux.NewRouter()
	router.Use(middleware.Logging)
	router.Use(middleware.Recovery)
	router.Use(middleware.CORS)
	router.Use(middleware.BodyLimit(cfg.MaxRequestBody))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods(http.MethodGet)

	apiRouter := router.PathPrefix("/api").Subrouter()
	routes.NewAuthHandler(account, tokenSigner).Register(apiRouter)

	protected := apiRouter.NewRoute().Subrouter()
	protected.Use(middleware.Authenticate(verifier))
	routes.NewPredictHandler(modelClient, guard, publisher).Register(protected)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.WithFields(map[string]interface{}{
			"host":          cfg.ServerHost,
			"port":          cfg.ServerPort,
			"model_service": cfg.ModelServiceBaseURL,
		}).Info("Prediction gateway started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L().Info("Shutting down prediction gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.L().Info("Prediction gateway stopped")
}

func buildGuard(cfg *config.Config) singleflight.Guard {
	if cfg.RedisAddr == "" {
		return singleflight.NewMemory()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Redis unreachable, falling back to in-process single-flight guard")
		return singleflight.NewMemory()
	}

	logger.WithField("addr", cfg.RedisAddr).Info("Using Redis single-flight guard")
	return singleflight.NewRedis(client, 2*cfg.GatewayRequestTimeout)
}
