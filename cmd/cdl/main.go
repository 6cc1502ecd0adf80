package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/cdl-history-service/internal/adapter/cropscape"
	httpadapter "github.com/couchcryptid/cdl-history-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/cdl-history-service/internal/adapter/kafka"
	"github.com/couchcryptid/cdl-history-service/internal/config"
	"github.com/couchcryptid/cdl-history-service/internal/history"
	"github.com/couchcryptid/cdl-history-service/internal/observability"
	"github.com/couchcryptid/cdl-history-service/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"golang.org/x/sync/errgroup"
)

// alwaysReady is the readiness checker when the Kafka pipeline is disabled.
type alwaysReady struct{}

func (alwaysReady) CheckReadiness(context.Context) error { return nil }

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := cropscape.NewClient(cfg.CDLBaseURL, cfg.CDLTimeout, cfg.CDLRateLimit, metrics, logger)
	source := cropscape.NewCachedSource(client, cfg.CDLCacheSize, metrics)
	svc := history.NewService(source, cfg.CDLStartYear, cfg.CDLEndYear, metrics, logger)
	logger.Info("cropscape client configured",
		"base_url", cfg.CDLBaseURL,
		"timeout", cfg.CDLTimeout,
		"rate_limit", cfg.CDLRateLimit,
		"cache_size", cfg.CDLCacheSize,
		"years", []int{cfg.CDLStartYear, cfg.CDLEndYear},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	var ready sharedobs.ReadinessChecker = alwaysReady{}
	var closers []func() error

	if cfg.KafkaEnabled {
		reader := kafkaadapter.NewReader(cfg, logger)
		writer := kafkaadapter.NewWriter(cfg, logger)
		closers = append(closers, reader.Close, writer.Close)

		p := pipeline.New(reader, pipeline.NewTransformer(svc, metrics), writer, logger, metrics, cfg.BatchSize)
		ready = p
		g.Go(func() error { return p.Run(gctx) })
		logger.Info("kafka batch mode enabled",
			"source_topic", cfg.KafkaSourceTopic, "sink_topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka batch mode disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, ready, metrics, logger)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("service error", "error", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
