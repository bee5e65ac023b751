// Command server runs the attestation service: it verifies non-membership
// proofs against on-ledger identity commitments and signs the outcomes.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"attestor/internal/attestation"
	"attestor/internal/ledger"
	"attestor/internal/platform/config"
	"attestor/internal/platform/health"
	"attestor/internal/platform/logger"
	"attestor/internal/prove"
	"attestor/internal/prove/handler"
	"attestor/internal/prove/metrics"
	"attestor/internal/prove/tracer"
	request "attestor/pkg/platform/middleware/request"
)

// maxBodyBytes caps attestation request bodies. Proofs grow with the
// disclosed set, but even a maximal set fits comfortably under this.
const maxBodyBytes = 50 * 1024

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	log.Info("initializing attestor",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"ledger_url", cfg.LedgerURL,
		"ledger_timeout", cfg.LedgerTimeout.String(),
	)

	private, public, err := attestation.LoadKeyPair(cfg.SecretKeyFile, cfg.PublicKeyFile)
	if err != nil {
		log.Error("failed to load attestation key pair", "error", err)
		os.Exit(1)
	}
	signer := attestation.NewSigner(private, public)

	ledgerClient := ledger.NewHTTPClient(cfg.LedgerURL, cfg.LedgerTimeout)

	// Refuse to start against a node that does not answer; a misconfigured
	// ledger URL would otherwise reject every request at runtime.
	startupCtx, cancel := context.WithTimeout(context.Background(), cfg.LedgerTimeout)
	if err := ledgerClient.Ping(startupCtx); err != nil {
		cancel()
		log.Error("ledger node is not reachable", "error", err, "ledger_url", cfg.LedgerURL)
		os.Exit(1)
	}
	cancel()

	svc := prove.New(ledgerClient, signer, log,
		prove.WithMetrics(metrics.New()),
		prove.WithTracer(tracer.NewOTel()),
	)

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterCheck("ledger", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.LedgerTimeout)
		defer cancel()
		return ledgerClient.Ping(ctx)
	})

	router := chi.NewRouter()
	router.Use(request.Recovery(log))
	router.Use(request.RequestID)
	router.Use(request.Logger(log))
	router.Use(request.CORS)

	healthHandler.Register(router)
	router.Handle("/metrics", promhttp.Handler())

	router.Group(func(r chi.Router) {
		r.Use(request.ContentTypeJSON)
		r.Use(request.BodyLimit(maxBodyBytes))
		handler.New(svc, log).Register(r)
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
