package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"overcooked-pos/api-gateway/internal/gateway"
	"overcooked-pos/config"
	"overcooked-pos/httpx"

	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := config.NewLogger("api-gateway")
	defer logger.Sync()

	gw := gateway.NewGateway(gateway.Config{
		PosSvcURL: cfg.PosSvcURL,
		AggSvcURL: cfg.AggSvcURL,
	}, &http.Client{Timeout: 15 * time.Second}, logger)

	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}).Handler(gw.SetupRoutes())

	if err := httpx.Run(ctx, ":"+cfg.HTTPPort, handler, logger); err != nil {
		logger.Fatal("gateway stopped", zap.Error(err))
	}
}
