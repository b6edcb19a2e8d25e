package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aretw0/interviewer"
	apihttp "github.com/aretw0/interviewer/pkg/adapters/http"
	redisstore "github.com/aretw0/interviewer/pkg/adapters/redis"
	"github.com/aretw0/interviewer/pkg/observability"
	"github.com/aretw0/interviewer/pkg/persistence"
	"github.com/aretw0/interviewer/pkg/ports"
	"github.com/aretw0/interviewer/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// ShutdownTimeout bounds graceful shutdown of the HTTP server.
	ShutdownTimeout = 5 * time.Second

	InterviewLockPrefix = "interviewer:interview:"
)

// NewAPI builds the HTTP API handler with a session manager and metrics.
// When reg is nil metrics are disabled.
func (a *App) NewAPI(gen ports.Generator, sink ports.LogStore, reg *prometheus.Registry, version string) (http.Handler, error) {
	var (
		api   *apihttp.Server
		hooks = observability.LoggingHooks(a.Logger)
	)
	apiOpts := []apihttp.Option{
		apihttp.WithLogReader(sink),
		apihttp.WithLogger(a.Logger),
		apihttp.WithVersion(version),
	}
	if reg != nil {
		metrics := observability.NewMetrics(reg)
		hooks = hooks.Merge(metrics.Hooks())
		apiOpts = append(apiOpts, apihttp.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	mgrOpts := []session.Option{session.WithLogger(a.Logger)}
	if rs, ok := persistence.Unwrap(sink).(*redisstore.Store); ok {
		// Replicas sharing the Redis sink also share interview locks.
		mgrOpts = append(mgrOpts, session.WithLocker(rs.Locker(InterviewLockPrefix)))
	}

	mgr, err := session.NewManager(func(p interviewer.Profile, input ports.InputSource) (*interviewer.Engine, error) {
		return interviewer.New(p, gen, input, sink, EngineOptions(a.Config, a.Logger, hooks, api.Hooks())...)
	}, mgrOpts...)
	if err != nil {
		return nil, err
	}
	api = apihttp.NewServer(mgr, apiOpts...)
	return api.Handler(), nil
}

// Serve runs the HTTP API until ctx is cancelled, then shuts down gracefully.
func (a *App) Serve(ctx context.Context, version string) error {
	gen, err := a.generator(ctx)
	if err != nil {
		return err
	}
	sink, closeSink, err := a.sink(ctx)
	if err != nil {
		return err
	}
	defer closeSink()

	var reg *prometheus.Registry
	if a.Config.HTTP.Metrics {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	handler, err := a.NewAPI(gen, sink, reg, version)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.Config.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.Logger.Info("starting interviewer server", "addr", srv.Addr, "sink", a.Config.Sink.Kind)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.Logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warn("graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
			return srv.Close()
		}
		a.Logger.Info("server stopped gracefully")
		return nil
	}
}
