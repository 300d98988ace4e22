package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/startailored/records-service/internal/adapters/handler"
	"github.com/startailored/records-service/internal/adapters/messaging"
	"github.com/startailored/records-service/internal/adapters/metrics"
	"github.com/startailored/records-service/internal/adapters/repository"
	"github.com/startailored/records-service/internal/adapters/security"
	"github.com/startailored/records-service/internal/adapters/session"
	"github.com/startailored/records-service/internal/config"
	"github.com/startailored/records-service/internal/core/policy"
	"github.com/startailored/records-service/internal/core/ports"
	"github.com/startailored/records-service/internal/core/services"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("service stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	db, err := repository.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.Migrate(db); err != nil {
		return err
	}
	logger.Info().Msg("database migrated")

	repo := repository.NewSQLRepository(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return err
	}
	logger.Info().Str("addr", cfg.RedisAddress).Msg("connected to redis")

	m := metrics.New()

	var events ports.EventPublisher
	if cfg.RabbitMQURL != "" {
		broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.EventsQueue,
			config.NewCircuitBreaker(config.BreakerRabbitMQ, logger))
		if err != nil {
			return err
		}
		defer broker.Close()
		events = m.InstrumentPublisher(broker)
		logger.Info().Str("queue", cfg.EventsQueue).Msg("publishing domain events")
	} else {
		logger.Warn().Msg("RABBITMQ_URL not set, domain events disabled")
	}

	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	emails := security.NewEmailValidator()
	sessions := session.NewRedisStore(redisClient, config.NewCircuitBreaker(config.BreakerRedis, logger))
	tokens := security.NewJWTIssuer(cfg.JWTPrivateKey, cfg.JWTPublicKey)

	deps := services.Deps{
		Policy: policy.New(logger.With().Str("component", "policy").Logger(), m),
		Events: events,
		Log:    logger,
	}

	authService := services.NewAuthService(repo, repo, hasher, sessions, tokens, services.AuthConfig{
		SessionTTL: cfg.SessionTTL,
		Log:        logger,
		Recorder:   m,
	})

	resp := handler.NewResponder(logger)
	router := handler.NewRouter(handler.RouterConfig{
		Log:            logger,
		Responder:      resp,
		Auth:           authService,
		Staff:          services.NewStaffService(deps, repo, hasher, emails),
		Clients:        services.NewClientService(deps, repo, repo, hasher, emails),
		Loans:          services.NewLoanService(deps, repo, repo, cfg.LoanEditWindow),
		Measurements:   services.NewMeasurementService(deps, repo),
		Inventory:      services.NewInventoryService(deps, repo),
		Health:         handler.NewHealthHandler(db, redisClient, cfg.Version, resp),
		AllowedOrigins: cfg.AllowedOrigins,
		Observer:       m,
		Metrics:        m.Handler(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
