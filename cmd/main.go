package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/talentco/skillsearch/internal/adapters/http/api"
	"github.com/talentco/skillsearch/internal/adapters/http/swagger"
	"github.com/talentco/skillsearch/internal/adapters/vector"
	app "github.com/talentco/skillsearch/internal/app"
	"github.com/talentco/skillsearch/internal/config"
	"github.com/talentco/skillsearch/internal/domain/bucket"
	"github.com/talentco/skillsearch/pkg/logger"
	"github.com/talentco/skillsearch/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	snapshotMetricsInterval   = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			logger.Error(err)
		}
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Build the AWS-backed vector gateway.
	gateway, err := buildGateway(ctx, cfg)
	if err != nil {
		os.Stderr.WriteString("failed to build vector gateway: " + err.Error() + "\n")
		return
	}

	multipliers, err := cfg.RatingMultiplierTable()
	if err != nil {
		os.Stderr.WriteString("invalid rating multipliers: " + err.Error() + "\n")
		return
	}

	// Create and start the service with configuration options
	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithGateway(gateway),
		app.WithSnapshotPath(cfg.SnapshotPath),
		app.WithIngestWorkers(cfg.IngestWorkers),
		app.WithDefaults(cfg.TopKSkills, cfg.TopNUsers),
		app.WithSearchTimeout(time.Duration(cfg.SearchTimeoutMS)*time.Millisecond),
		app.WithMaxRetries(cfg.SearchMaxRetries),
		app.WithMultipliers(multipliers),
		app.WithSimilarityExponent(cfg.SimilarityExponent),
		app.WithBands(bucket.Bands(cfg.ExcellentMinScore, cfg.StrongMinScore, cfg.GoodMinScore)),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start snapshot metrics updater
	go startSnapshotMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register API docs under /api-docs
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// buildGateway constructs the Bedrock embedder and S3 Vectors index clients
// from shared AWS configuration.
func buildGateway(ctx context.Context, cfg *config.Config) (*vector.Gateway, error) {
	awsOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSProfile != "" {
		awsOpts = append(awsOpts, awsconfig.WithSharedConfigProfile(cfg.AWSProfile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOpts...)
	if err != nil {
		return nil, err
	}

	embedder := vector.NewBedrockEmbedder(
		bedrockruntime.NewFromConfig(awsCfg),
		cfg.EmbeddingModelID,
		cfg.EmbeddingDim,
	)
	index := vector.NewS3VectorsIndex(
		s3vectors.NewFromConfig(awsCfg),
		cfg.VectorBucket,
		cfg.VectorIndex,
	)

	return vector.NewGateway(embedder, index,
		vector.WithMinSimilarity(cfg.MinSimilarity),
		vector.WithCacheSize(cfg.EmbedCacheSize),
	), nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval) // Update every 10 seconds
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

// startSnapshotMetricsUpdater starts a background goroutine that refreshes
// corpus gauges from the service.
func startSnapshotMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(snapshotMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSnapshotMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	// Update memory usage
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	// Update goroutine count
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	// Update GC pause time
	if m.NumGC > 0 {
		// Calculate average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateSnapshotMetrics refreshes corpus-size gauges from service stats.
func updateSnapshotMetrics(svc *app.Service) {
	stats := svc.GetStats()

	if totalUsers, ok := stats["total_users"].(int); ok {
		metrics.UpdateTotalUsers(totalUsers)
	}

	if catalogSkills, ok := stats["catalog_skills"].(int); ok {
		metrics.UpdateTotalSkills(catalogSkills)
	}
}
