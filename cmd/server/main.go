package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"code2pitch.app/relay/common/id"
	"code2pitch.app/relay/common/logger"
	"code2pitch.app/relay/common/otel"
	"code2pitch.app/relay/core/config"
	"code2pitch.app/relay/internal/app"
	"code2pitch.app/relay/internal/generation"
	"code2pitch.app/relay/internal/http/middleware"
	httprouter "code2pitch.app/relay/internal/http/router"
	"code2pitch.app/relay/internal/service"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel, cfg.Env)
	if err != nil {
		// Can't use slog yet, OTel failed before logger setup
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "relay starting", "env", cfg.Env, "version", cfg.Version)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to initialize relay", "error", err)
		os.Exit(1)
	}
	defer application.Close()
	slog.InfoContext(ctx, "repository hosts registered", "hosts", application.Repos.Hosts())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// A single request may legitimately run the whole retry loop.
	worstCase := generation.ConfigFrom(cfg.Generation).WorstCase()

	router := setupRouter(cfg, application.Services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      worstCase + time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port, "write_timeout", server.WriteTimeout.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → RequestID tags the context → Recovery
	// catches panics → Logger logs with trace context and request id
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		Version: cfg.Version,
	})

	return router
}

const banner = `
 ██████╗ ██████╗ ██████╗ ███████╗██████╗ ██████╗ ██╗████████╗ ██████╗██╗  ██╗
██╔════╝██╔═══██╗██╔══██╗██╔════╝╚════██╗██╔══██╗██║╚══██╔══╝██╔════╝██║  ██║
██║     ██║   ██║██║  ██║█████╗   █████╔╝██████╔╝██║   ██║   ██║     ███████║
██║     ██║   ██║██║  ██║██╔══╝  ██╔═══╝ ██╔═══╝ ██║   ██║   ██║     ██╔══██║
╚██████╗╚██████╔╝██████╔╝███████╗███████╗██║     ██║   ██║   ╚██████╗██║  ██║
 ╚═════╝ ╚═════╝ ╚═════╝ ╚══════╝╚══════╝╚═╝     ╚═╝   ╚═╝    ╚═════╝╚═╝  ╚═╝
`
