package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	authhandler "taxfill/internal/auth/handler"
	"taxfill/internal/auth/lockout"
	authservice "taxfill/internal/auth/service"
	authstore "taxfill/internal/auth/store"
	userstore "taxfill/internal/auth/store/user"
	declhandler "taxfill/internal/declaration/handler"
	declmetrics "taxfill/internal/declaration/metrics"
	declservice "taxfill/internal/declaration/service"
	declarationstore "taxfill/internal/declaration/store/declaration"
	deductionstore "taxfill/internal/declaration/store/deduction"
	incomestore "taxfill/internal/declaration/store/income"
	dephandler "taxfill/internal/dependent/handler"
	depservice "taxfill/internal/dependent/service"
	depstore "taxfill/internal/dependent/store"
	dependentstore "taxfill/internal/dependent/store/dependent"
	jwttoken "taxfill/internal/jwt_token"
	"taxfill/internal/platform/config"
	"taxfill/internal/platform/httpserver"
	"taxfill/internal/platform/logger"
	"taxfill/internal/platform/metrics"
	"taxfill/internal/platform/middleware"
	"taxfill/internal/platform/postgres"
	platformredis "taxfill/internal/platform/redis"
)

// main wires dependencies and runs the API and metrics servers. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, declarations, dependents, err := buildStores(ctx, cfg, log)
	if err != nil {
		return err
	}

	counter, err := buildLockoutCounter(ctx, cfg, log)
	if err != nil {
		return err
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	sharedMetrics := metrics.New()

	authSvc, err := authservice.New(users,
		&authservice.TokenConfig{Issuer: jwtService, AccessTokenTTL: cfg.AccessTokenTTL},
		authservice.WithLogger(log),
		authservice.WithMetrics(sharedMetrics),
		authservice.WithBcryptCost(cfg.BcryptCost),
		authservice.WithLockout(lockout.New(counter, cfg.LockoutMaxFailures, cfg.LockoutWindow)))
	if err != nil {
		return err
	}

	declSvc, err := declservice.New(declarations,
		declservice.WithLogger(log),
		declservice.WithMetrics(declmetrics.New()))
	if err != nil {
		return err
	}

	depSvc, err := depservice.New(dependents, depservice.WithLogger(log))
	if err != nil {
		return err
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Recover(log))
	router.Use(middleware.Observe(log, sharedMetrics))
	router.Use(chimw.Timeout(60 * time.Second))
	router.Use(chimw.AllowContentType("application/json"))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	authhandler.New(authSvc, log).Register(router)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtService, log))
		declhandler.New(declSvc, log).Register(r)
		dephandler.New(depSvc, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := httpserver.New(cfg.MetricsAddr, metricsMux)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting taxfill api", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("starting metrics server", "addr", cfg.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return metricsSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildStores returns PostgreSQL-backed stores when DATABASE_URL is set, and
// in-memory stores otherwise.
func buildStores(ctx context.Context, cfg config.Config, log *slog.Logger) (
	authstore.UserStore, declservice.DeclarationStore, depstore.DependentStore, error) {

	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		return userstore.New(),
			declarationstore.NewInMemory(incomestore.NewInMemory(), deductionstore.NewInMemory()),
			dependentstore.NewInMemory(),
			nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	return userstore.NewPostgres(db),
		declarationstore.NewPostgres(db, incomestore.NewPostgres(db), deductionstore.NewPostgres(db)),
		dependentstore.NewPostgres(db),
		nil
}

func buildLockoutCounter(_ context.Context, cfg config.Config, log *slog.Logger) (lockout.Counter, error) {
	client, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	if client == nil {
		log.Warn("REDIS_URL not set, using in-process lockout counter")
		return lockout.NewMemoryCounter(), nil
	}
	return lockout.NewRedisCounter(client.Client), nil
}
