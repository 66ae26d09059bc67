// @title                       Storefront E-commerce API
// @version                     1.0
// @description                 Accounts, catalog, reviews and categories for the storefront.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  CookieAuth
// @in                          cookie
// @name                        token
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/storefront/ecommerce-api/internal/api"
	"github.com/storefront/ecommerce-api/internal/api/handler"
	"github.com/storefront/ecommerce-api/internal/core/ports"
	"github.com/storefront/ecommerce-api/internal/core/service"
	"github.com/storefront/ecommerce-api/internal/infrastructure/config"
	"github.com/storefront/ecommerce-api/internal/infrastructure/db/mongo"
	"github.com/storefront/ecommerce-api/internal/infrastructure/db/redis"
	"github.com/storefront/ecommerce-api/internal/infrastructure/mail"
	"github.com/storefront/ecommerce-api/internal/infrastructure/queue"
	"github.com/storefront/ecommerce-api/internal/infrastructure/ratelimit"
	"github.com/storefront/ecommerce-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := supervise(ctx); err != nil {
		// Init is a no-op once run has configured the logger.
		log := logger.Init(logger.Options{Service: "ecommerce-api"})
		log.Error().Err(err).Msg("server stopped with error")
		stop()
		os.Exit(1)
	}
}

// supervise turns a panic during startup or shutdown into an error so the
// process exits non-zero and gets restarted.
func supervise(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return run(ctx)
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "ecommerce-api",
	})

	// Prices are rendered as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	// --- MongoDB ---
	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.WithoutCancel(ctx)) }()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	users := mongo.NewUserRepository(db)
	products := mongo.NewProductRepository(db)
	categories := mongo.NewCategoryRepository(db)
	if err := mongo.EnsureIndexes(ctx, users, products, categories); err != nil {
		return err
	}

	// --- Rate limiting: Redis when enabled, in-process otherwise ---
	var (
		rdb         *goredis.Client
		authLimiter ports.RateLimiter
		apiLimiter  ports.RateLimiter
	)
	if cfg.Redis.Enabled {
		rdb, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		authLimiter = redis.NewRateLimiter(rdb, cfg.RateLimit.AuthMax, cfg.RateLimit.AuthWindow)
		apiLimiter = redis.NewRateLimiter(rdb, cfg.RateLimit.APIMax, cfg.RateLimit.APIWindow)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	} else {
		authLimiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.AuthMax, cfg.RateLimit.AuthWindow)
		apiLimiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.APIMax, cfg.RateLimit.APIWindow)
		log.Warn().Msg("redis disabled, rate limits are per process")
	}

	// --- Mail ---
	mailer := newMailer(cfg.Mail, log)
	notifications := queue.NewDispatcher(cfg.Mail.Workers, mailer, log)
	notifications.Start(ctx)

	// --- Services ---
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTExpire)
	resets := service.NewResetTokenService(users, cfg.Auth.ResetTokenTTL)
	userSvc := service.NewUserService(users, tokens, resets, mailer, notifications, logger.Component("users"))
	catalogSvc := service.NewCatalogService(products, categories, logger.Component("catalog"))
	categorySvc := service.NewCategoryService(categories, logger.Component("categories"))
	reviewSvc := service.NewReviewService(products, logger.Component("reviews"))

	e := api.NewRouter(api.Deps{
		Users:          userSvc,
		Catalog:        catalogSvc,
		Categories:     categorySvc,
		Reviews:        reviewSvc,
		Tokens:         tokens,
		AuthLimiter:    authLimiter,
		APILimiter:     apiLimiter,
		Cookie:         handler.SessionCookie{Name: cfg.Auth.CookieName, Secure: cfg.Auth.CookieSecure},
		ResetURLBase:   cfg.Auth.ResetURLBase,
		RequestTimeout: cfg.RequestTimeout,
		Mongo:          db,
		Redis:          rdb,
		Log:            logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

// newMailer picks Mailgun when mail is enabled and a logging mailer otherwise.
func newMailer(cfg config.MailConfig, log zerolog.Logger) ports.Mailer {
	if !cfg.Enabled {
		log.Warn().Msg("mail disabled, emails are logged instead of sent")
		return mail.NewLogMailer(logger.Component("mail"))
	}
	return mail.NewMailgun(mail.Config{
		Domain:  cfg.Domain,
		APIKey:  cfg.APIKey,
		APIBase: cfg.APIBase,
		Sender:  cfg.Sender,
	})
}
