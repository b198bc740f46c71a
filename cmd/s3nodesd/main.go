package main

import (
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/yourorg/s3-image-nodes/internal/api"
	"github.com/yourorg/s3-image-nodes/internal/config"
	"github.com/yourorg/s3-image-nodes/internal/metrics"
	"github.com/yourorg/s3-image-nodes/internal/nodes"
)

func main() {
	addr := getenv("S3NODES_ADDR", ":8080")
	cfgPath := getenv("S3NODES_CONFIG", config.DefaultPath())

	// Structured logger (zap)
	zl := newZap(getenv("LOG_LEVEL", "info"))
	defer zl.Sync()

	// Metrics server
	metrics.Init()
	go func() {
		_ = metrics.Serve(metrics.AddrFromEnv())
	}()

	store := config.NewStore(cfgPath)
	// First touch creates the config with placeholder profiles.
	if _, err := store.Load(); err != nil {
		zl.Warn("config not loadable yet", zap.String("path", cfgPath), zap.Error(err))
	}

	env := nodes.NewEnv(store, zl)
	r := api.NewRouter(env, zl)

	zl.Info("s3nodesd started",
		zap.String("addr", addr),
		zap.String("config", cfgPath),
		zap.String("metrics", metrics.AddrFromEnv()))
	if err := r.Run(addr); err != nil {
		log.Fatal("server failed:", err)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func newZap(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
