package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/levelboard/internal/adapters/dataset"
	"github.com/okian/levelboard/internal/adapters/http/api"
	"github.com/okian/levelboard/internal/adapters/http/swagger"
	"github.com/okian/levelboard/internal/adapters/repository"
	app "github.com/okian/levelboard/internal/app"
	"github.com/okian/levelboard/internal/config"
	"github.com/okian/levelboard/pkg/logger"
	"github.com/okian/levelboard/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

// applyLogLevel sets the configured level and falls back to info with a
// warning when the value is not a known level.
func applyLogLevel(ctx context.Context, log logger.Logger, level string) {
	if err := logger.SetLevelString(level); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", level), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
}

func main() {
	// Only the custom registry is exposed; drop the default collectors.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWithOptions(logger.Options{Format: cfg.LogFormat}); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	applyLogLevel(ctx, log, cfg.LogLevel)

	svc, err := newService(cfg)
	if err != nil {
		log.Fatal(ctx, "failed to build service", logger.Error(err))
	}
	if err := svc.Start(ctx); err != nil {
		log.Fatal(ctx, "failed to start service", logger.Error(err))
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc, cfg),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// newService wires the dataset loader, snapshot store and reload machinery
// described by cfg. Local feed files are watched when cfg.Watch is set.
func newService(cfg *config.Config) (*app.Service, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}

	speedrun := dataset.NewSource(cfg.SpeedrunSource, cfg.FetchTimeout())
	hard := dataset.NewSource(cfg.HardSource, cfg.FetchTimeout())
	var loaderOpts []dataset.Option
	if profiles := dataset.NewSource(cfg.ProfilesSource, cfg.FetchTimeout()); profiles != nil {
		loaderOpts = append(loaderOpts, dataset.WithProfileSource(profiles))
	}
	loader := dataset.NewLoader(speedrun, hard, loaderOpts...)

	opts := []app.Option{
		app.WithLoader(loader),
		app.WithRegistry(reg),
		app.WithStore(repository.NewSnapshotStore(repository.WithMaxLimit(cfg.MaxLeaderboardLimit))),
		app.WithQueueSize(cfg.ReloadQueueSize),
		app.WithDebounce(cfg.ReloadDebounce()),
		app.WithProfileDefaults(cfg.DefaultAvatar, cfg.DefaultBanner),
	}
	if cfg.Watch {
		var paths []string
		for _, src := range loader.Sources() {
			if p, ok := dataset.LocalPath(src); ok {
				paths = append(paths, p)
			}
		}
		if len(paths) > 0 {
			opts = append(opts, app.WithWatchPaths(paths...))
		}
	}
	return app.New(opts...), nil
}

// newMux registers the business API and the docs routes.
func newMux(ctx context.Context, svc *app.Service, cfg *config.Config) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, api.WithMaxLimit(cfg.MaxLeaderboardLimit)).Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics refreshes gauges that only the service can read.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()
	if queueLen, ok := stats["queueLength"].(int); ok {
		metrics.UpdateReloadQueueSize(queueLen)
	}
	if creators, ok := stats["totalCreators"].(int); ok {
		metrics.UpdateCreators(creators)
	}
}
