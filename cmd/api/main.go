package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bookreview/internal/account"
	"bookreview/internal/author"
	"bookreview/internal/book"
	"bookreview/internal/category"
	"bookreview/internal/config"
	"bookreview/internal/httpx"
	"bookreview/internal/logging"
	"bookreview/internal/platform/database"
	"bookreview/internal/review"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		logging.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	logging.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	pool, err := database.Open(ctx, database.PoolConfig{
		DSN:      cfg.Database.DSN,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("open database (%s): %w", config.RedactDSN(cfg.Database.DSN), err)
	}
	defer pool.Close()
	logging.Info().Str("dsn", config.RedactDSN(cfg.Database.DSN)).Msg("database connection OK")

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	proxies, err := httpx.ParseTrustedProxies(cfg.Security.TrustedProxies)
	if err != nil {
		return err
	}
	accountLimiter := httpx.NewRateLimitMiddleware(cfg.Security.RateLimitRPS, cfg.Security.RateLimitBurst, proxies...)
	defer accountLimiter.Close()

	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(pool, cfg), cfg.Security, accountLimiter.Middleware, pool)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      buildHandler(mux, cfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Info().
			Str("addr", cfg.Server.Addr).
			Bool("protect_catalog_writes", cfg.Security.ProtectCatalogWrites).
			Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logging.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newHandlers(pool *pgxpool.Pool, cfg *config.Config) handlers {
	timeout := cfg.Database.QueryTimeout

	accountService := account.NewService(
		account.NewPostgresRepo(pool, timeout),
		account.NewLogNotifier(cfg.Security.PublicBaseURL),
		account.Config{
			Secret:   cfg.Security.JWTSecret,
			TokenTTL: cfg.Security.JWTTTL,
			ResetTTL: cfg.Security.ResetTokenTTL,
		},
	)

	return handlers{
		authors:    author.NewHTTPHandler(author.NewService(author.NewPostgresRepo(pool, timeout))),
		books:      book.NewHTTPHandler(book.NewService(book.NewPostgresRepo(pool, timeout))),
		categories: category.NewHTTPHandler(category.NewService(category.NewPostgresRepo(pool, timeout))),
		reviews:    review.NewHTTPHandler(review.NewService(review.NewPostgresRepo(pool, timeout))),
		account:    account.NewHTTPHandler(accountService),
	}
}
