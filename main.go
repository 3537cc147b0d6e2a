package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"donor-relay/pkg/api"
	"donor-relay/pkg/clients/appsscript"
	"donor-relay/pkg/config"
	"donor-relay/pkg/logging"
	"donor-relay/pkg/metrics"
	"donor-relay/pkg/server"
	"donor-relay/pkg/services"
	"donor-relay/pkg/static"
)

func main() {
	cfg, err := config.Load(os.Args)
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Initialize API client
	scriptClient := m.InstrumentClient(appsscript.NewClient(cfg.ScriptURL, cfg.UpstreamTimeout))

	// Initialize services
	relayService := services.NewRelayService(scriptClient, cfg)

	// Initialize handlers
	handlers := api.NewHandlers(relayService)

	srv := server.NewServer(cfg, handlers, static.NewOsFs(cfg.ServeDir), m)
	done := runGracefulShutdown(srv)

	printBanner(cfg)

	if err := srv.Start(); err != nil {
		slog.Error("Error starting server", "error", err)
		os.Exit(1)
	}

	<-done
	slog.Info("Server stopped")
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func printBanner(cfg *config.Config) {
	base := "http://localhost:" + cfg.Port
	slog.Info("Server started", "url", base, "serving", cfg.ServeDir, "script_url", cfg.ScriptURL)
	slog.Info("Emergency Blood Request Form", "url", base+"/pages/emergency_blood_request.html")
	slog.Info("Emergency Request System", "url", base+"/pages/emergency_request_system.html")
	if cfg.MetricsAddr != "" {
		slog.Info("Metrics available", "addr", cfg.MetricsAddr)
	}
	slog.Info("Press Ctrl+C to stop the server")
}
