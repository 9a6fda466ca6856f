package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	cfhttp "github.com/Strob0t/VerifyGate/internal/adapter/http"
	cfnats "github.com/Strob0t/VerifyGate/internal/adapter/nats"
	cfotel "github.com/Strob0t/VerifyGate/internal/adapter/otel"
	"github.com/Strob0t/VerifyGate/internal/adapter/pueue"
	"github.com/Strob0t/VerifyGate/internal/config"
	"github.com/Strob0t/VerifyGate/internal/logger"
	"github.com/Strob0t/VerifyGate/internal/middleware"
	"github.com/Strob0t/VerifyGate/internal/port/messagequeue"
	"github.com/Strob0t/VerifyGate/internal/procpool"
	"github.com/Strob0t/VerifyGate/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if len(os.Args) > 1 && os.Args[1] == "check" {
		if err := runCheck(os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser := logger.New(cfg.Logging)
	defer logCloser.Close()
	slog.SetDefault(log)

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"queue_binary", cfg.Queue.Binary,
		"queue_max_concurrent", cfg.Queue.MaxConcurrent,
		"events", cfg.NATS.URL != "",
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---

	// OpenTelemetry
	shutdownOtel, err := cfotel.Setup(ctx, cfg.OTel)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOtel(flushCtx); err != nil {
			slog.Error("otel shutdown", "error", err)
		}
	}()

	metrics, err := cfotel.NewMetrics(otel.GetMeterProvider())
	if err != nil {
		return fmt.Errorf("otel metrics: %w", err)
	}

	// NATS (optional)
	var events messagequeue.Publisher
	if cfg.NATS.URL != "" {
		queue, err := cfnats.Connect(ctx, cfg.NATS.URL, cfg.NATS.Stream)
		if err != nil {
			slog.Warn("nats unavailable, enqueue events disabled", "error", err)
		} else {
			defer func() { _ = queue.Close() }()
			events = queue
		}
	}

	// --- Services ---
	taskQueue := pueue.NewClient(pueue.Options{
		Binary:  cfg.Queue.Binary,
		JobName: cfg.Queue.JobName,
		Timeout: cfg.Queue.Timeout,
		Pool:    procpool.New(cfg.Queue.MaxConcurrent),
		Metrics: metrics,
	})
	verificationSvc := service.NewVerificationService(taskQueue, events, metrics)

	// --- HTTP ---
	handlers := &cfhttp.Handlers{
		Verifications: verificationSvc,
		BodyLimit:     cfg.Server.BodyLimit,
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(cfhttp.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cfotel.HTTPMiddleware(cfg.OTel.ServiceName))

	var limiter *middleware.RateLimiter
	if cfg.Rate.RequestsPerSecond > 0 {
		limiter = middleware.NewRateLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
		r.Use(limiter.Handler)
	}

	r.Use(cfhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(cfhttp.SecurityHeaders)

	cfhttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port

	// No WriteTimeout: a response waits for the queue CLI, which has no
	// deadline unless queue.timeout is set.
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if limiter != nil {
		g.Go(func() error {
			limiter.RunCleanup(gctx, cfg.Rate)
			return nil
		})
	}

	return g.Wait()
}
