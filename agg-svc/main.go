package main

import (
	"context"
	"os/signal"
	"syscall"

	httpapi "overcooked-pos/agg-svc/internal/api/http"
	"overcooked-pos/agg-svc/internal/service"
	"overcooked-pos/agg-svc/internal/storage"
	"overcooked-pos/config"
	"overcooked-pos/httpx"
	"overcooked-pos/observability"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := config.NewLogger("agg-svc")
	defer logger.Sync()

	tp, shutdownTracing, err := observability.SetupTracing(ctx, observability.TracingConfig{
		ServiceName: "agg-svc",
		Endpoint:    cfg.OtelEndpoint,
		AuthHeader:  cfg.OtelAuthHeader,
	})
	if err != nil {
		logger.Fatal("failed to set up tracing", zap.Error(err))
	}
	defer shutdownTracing(context.Background())

	rdb := config.MustInitRedis(cfg, logger)
	defer rdb.Close()
	store := storage.NewStore(rdb)

	reader := config.NewKafkaReader(cfg, cfg.EventsTopic, cfg.ConsumerGroup)
	defer reader.Close()
	consumer := service.NewConsumer(reader, store, logger, tp.Tracer("agg-svc"))

	router := httpapi.NewRouter(httpapi.NewHandler(store, logger), cfg.CORSOrigins)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return consumer.Start(ctx) })
	g.Go(func() error { return httpx.Run(ctx, ":"+cfg.HTTPPort, router, logger) })
	if err := g.Wait(); err != nil {
		logger.Fatal("aggregation service stopped", zap.Error(err))
	}
}
