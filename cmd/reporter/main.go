package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dinerops/pizzametrics/internal/adapters/http/ginmw"
	"github.com/dinerops/pizzametrics/internal/adapters/probe/host"
	"github.com/dinerops/pizzametrics/internal/adapters/publisher/otlphttp"
	"github.com/dinerops/pizzametrics/internal/config"
	"github.com/dinerops/pizzametrics/internal/misc"
	"github.com/dinerops/pizzametrics/internal/services/registry"
	"github.com/dinerops/pizzametrics/internal/services/report"
)

// reporter runs the metrics engine standalone: an instrumented HTTP
// listener feeding the registry, and the scheduler pushing batches to
// the configured backend.
func main() {
	cfg, err := config.Load(os.Args[1:], nil)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	reg := registry.New()
	lat := registry.NewSampler()

	pub, err := otlphttp.New(cfg.URL, cfg.APIKey, nil)
	if err != nil {
		logger.Fatal("failed to init publisher", zap.Error(err))
	}

	sched := report.NewScheduler(cfg.FlushInterval, cfg.Source, reg, lat, host.New(), pub, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched.Start(ctx)
	defer sched.Stop()
	logger.Info("reporter started",
		zap.String("url", cfg.URL),
		zap.String("source", cfg.Source),
		zap.Duration("interval", cfg.FlushInterval),
	)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginmw.RequestTracker(reg))
	r.Use(ginmw.Latency(lat, "backend"))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	addr := misc.Getenv("HTTP_ADDR", "localhost:8080")
	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	logger.Info("listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server failed", zap.Error(err))
	}
}
