package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"backoffice/internal/domain/attendance"
	"backoffice/internal/domain/audit"
	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/core"
	"backoffice/internal/domain/loans"
	"backoffice/internal/domain/payroll"
	"backoffice/internal/domain/reports"
	"backoffice/internal/domain/suppliers"
	"backoffice/internal/platform/config"
	"backoffice/internal/platform/db"
	"backoffice/internal/platform/email"
	"backoffice/internal/platform/logging"
	"backoffice/internal/platform/metrics"
	"backoffice/internal/transport/http/api"
	attendancehandler "backoffice/internal/transport/http/handlers/attendance"
	audithandler "backoffice/internal/transport/http/handlers/audit"
	authhandler "backoffice/internal/transport/http/handlers/auth"
	corehandler "backoffice/internal/transport/http/handlers/core"
	loanhandler "backoffice/internal/transport/http/handlers/loans"
	payrollhandler "backoffice/internal/transport/http/handlers/payroll"
	reportshandler "backoffice/internal/transport/http/handlers/reports"
	supplierhandler "backoffice/internal/transport/http/handlers/suppliers"
	"backoffice/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	Pool    *pgxpool.Pool
	Router  http.Handler
	Metrics *metrics.Collector
}

// New connects to Postgres, prepares the schema and assembles the router.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger := logging.New(cfg)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load payroll timezone: %w", err)
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	policy := payroll.DefaultPolicy()
	policy.HoursPerDay = cfg.HoursPerDay
	policy.DaysPerMonth = cfg.DaysPerMonth
	policy.EPFEmployeeRate = cfg.EPFEmployeeRate
	policy.EPFEmployerRate = cfg.EPFEmployerRate
	policy.ETFEmployerRate = cfg.ETFEmployerRate
	if err := policy.Validate(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("payroll policy: %w", err)
	}

	collector := metrics.New()
	perms := auth.RolePermissionStore{}
	recorder := audit.New(pool)

	employees := core.NewService(core.NewStore(pool))
	attendanceService := attendance.NewService(attendance.NewStore(pool), employees)
	loanService := loans.NewService(loans.NewStore(pool), employees)
	payrollService := payroll.NewService(
		payroll.NewStore(pool),
		attendanceService,
		loanService,
		employees,
		email.New(cfg),
		payroll.Options{
			Policy:       policy,
			Location:     loc,
			CompanyName:  cfg.CompanyName,
			Currency:     cfg.Currency,
			MailFrom:     cfg.EmailFrom,
			MailFromName: cfg.EmailFromName,
		},
	)

	supplierService := suppliers.NewService(suppliers.NewStore(pool))
	reportService := reports.NewService(reports.NewStore(pool), reports.Options{
		Location:    loc,
		CompanyName: cfg.CompanyName,
		Currency:    cfg.Currency,
	})

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(logging.RequestLogger(logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(chiMiddleware.CleanPath)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Total-Count", "X-Request-ID", "Content-Disposition"},
		MaxAge:           300,
	}))
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(collector))
	}
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(auth.NewService(auth.NewStore(pool), cfg.JWTSecret))
		authHandler.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			authHandler.RegisterRoutes(r)
			corehandler.NewHandler(employees, perms, recorder).RegisterRoutes(r)
			attendancehandler.NewHandler(attendanceService, perms, recorder).RegisterRoutes(r)
			loanhandler.NewHandler(loanService, perms, recorder).RegisterRoutes(r)
			payrollhandler.NewHandler(payrollService, perms, recorder, middleware.NewIdempotencyStore(pool), collector).RegisterRoutes(r)
			supplierhandler.NewHandler(supplierService, perms, recorder).RegisterRoutes(r)
			reportshandler.NewHandler(reportService, perms).RegisterRoutes(r)
			audithandler.NewHandler(recorder, perms).RegisterRoutes(r)
		})
	})

	return &App{Config: cfg, Pool: pool, Router: router, Metrics: collector}, nil
}

func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("backoffice server listening", "addr", a.Config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	slog.Info("shutting down server")
	return srv.Shutdown(shutdownCtx)
}
