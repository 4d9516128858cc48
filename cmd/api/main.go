// Package main is the entrypoint for the AI Buddy API server.
//
// @title                       AI Buddy API
// @version                     1.0
// @description                 Quota-gated question answering backed by a hosted chat-completion model.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/aibuddy/aibuddy-api/docs"
	"github.com/aibuddy/aibuddy-api/internal/api"
	"github.com/aibuddy/aibuddy-api/internal/api/handler"
	"github.com/aibuddy/aibuddy-api/internal/api/metrics"
	"github.com/aibuddy/aibuddy-api/internal/core/ports"
	"github.com/aibuddy/aibuddy-api/internal/core/service"
	"github.com/aibuddy/aibuddy-api/internal/infrastructure/config"
	mongostore "github.com/aibuddy/aibuddy-api/internal/infrastructure/db/mongo"
	pgstore "github.com/aibuddy/aibuddy-api/internal/infrastructure/db/postgres"
	redisstore "github.com/aibuddy/aibuddy-api/internal/infrastructure/db/redis"
	"github.com/aibuddy/aibuddy-api/internal/infrastructure/llm"
	"github.com/aibuddy/aibuddy-api/internal/infrastructure/mail"
	"github.com/aibuddy/aibuddy-api/internal/infrastructure/queue"
	"github.com/aibuddy/aibuddy-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "aibuddy-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "aibuddy-api",
	})

	// --- Account store ---
	pingers := make(map[string]handler.Pinger)
	accounts, closeStore, err := openAccountStore(ctx, cfg, pingers, log)
	if err != nil {
		return err
	}
	defer closeStore()

	// --- Redis ---
	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()
	pingers["redis"] = redisstore.Pinger{Client: rdb}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	// --- Services ---
	authService := service.NewAuthService(accounts, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth")).
		WithDefaultPromptsLimit(cfg.DefaultPromptsLimit)
	if _, err := authService.EnsureSuperuser(ctx, cfg.Superuser.Email, cfg.Superuser.Password); err != nil {
		return err
	}

	if cfg.LLM.APIToken == "" {
		log.Warn().Msg("LLM_API_TOKEN not set, upstream calls will be rejected")
	}
	gateway := llm.New(llm.Config{
		Endpoint:    cfg.LLM.Endpoint,
		Model:       cfg.LLM.Model,
		APIToken:    cfg.LLM.APIToken,
		Temperature: &cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	})
	askService := service.NewAskService(accounts, gateway, metrics.AskMeter{}, logger.Component("ask"))

	if cfg.SMTP.Sender == "" {
		log.Warn().Msg("SMTP_SENDER not set, queued emails will fail to deliver")
	}
	sender := mail.NewSMTPSender(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Sender:   cfg.SMTP.Sender,
		Password: cfg.SMTP.Password,
	})
	dispatcher := queue.NewMailDispatcher(cfg.Mail.Workers, sender, metrics.MailMeter{}, logger.Component("mail"))
	mailService := service.NewMailService(dispatcher, redisstore.NewMailDedup(rdb, cfg.Mail.DedupTTL), logger.Component("mail"))
	dispatcher.OnFailure(mailService.DeliveryFailed)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	dispatcher.Start(workerCtx)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Auth:     authService,
		Verifier: service.NewIdentityVerifier(accounts, cfg.JWTSecret),
		Ask:      askService,
		Mail:     mailService,
		Accounts: accounts,
		Pingers:  pingers,
		Log:      logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("store", cfg.StoreDriver).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// Drain queued emails before the Redis and store connections close.
	dispatcher.Stop()
	log.Info().Msg("server stopped")
	return nil
}

// accountStore is what the services and handlers need from the selected backend.
type accountStore interface {
	ports.AccountRepository
	handler.AccountFinder
}

func openAccountStore(ctx context.Context, cfg *config.Config, pingers map[string]handler.Pinger, log zerolog.Logger) (accountStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := pgstore.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		if err := pgstore.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		repo := pgstore.NewAccountRepository(pool)
		pingers["postgres"] = repo
		log.Info().Msg("connected to postgres")
		return repo, pool.Close, nil

	default:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "aibuddy-api",
		})
		if err != nil {
			return nil, nil, err
		}
		repo := mongostore.NewAccountRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		pingers["mongodb"] = mongostore.Pinger{Client: client}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil
	}
}
