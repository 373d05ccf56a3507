package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/rightslab/edurag/internal/adapters/http"
	"github.com/rightslab/edurag/internal/bootstrap"
	"github.com/rightslab/edurag/internal/config"
	"github.com/rightslab/edurag/internal/observability/logging"
	"github.com/rightslab/edurag/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("api", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	if cfg.PreloadTopics {
		go func() {
			slog.Info("preloading topics")
			if err := app.Pipeline.LoadAllTopics(ctx); err != nil {
				slog.Error("topic preload failed", "error", err)
			}
		}()
	}

	apiMetrics := metrics.NewAPIMetrics("api")
	router := httpadapter.NewRouter(app.Pipeline, app.Topics, app.Log, app.Queue, apiMetrics).Handler()
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api shutdown error", "error", err)
	}
}
