package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/antoniostano/dante/internal/brain"
	"github.com/antoniostano/dante/internal/chat"
	"github.com/antoniostano/dante/internal/config"
	"github.com/antoniostano/dante/internal/httpapi"
	"github.com/antoniostano/dante/internal/memory"
	"github.com/antoniostano/dante/internal/observability"
	"github.com/antoniostano/dante/internal/session"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("could not load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	store, err := memory.NewStore(ctx, cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("memory store init failed: %v", err)
	}
	defer store.Close()

	adapter, err := brain.NewAdapter(brain.Config{
		Mode:   cfg.BrainAdapterMode,
		APIURL: cfg.BrainAPIURL,
		APIKey: cfg.BrainAPIKey,
		Model:  cfg.BrainModel,
	})
	if err != nil {
		log.Fatalf("brain adapter init failed: %v", err)
	}

	sessions := session.NewManager(cfg.SessionInactivityTimeout, cfg.RateMaxRequests, cfg.RateWindow)
	sessions.SetExpireHook(func(_ *session.Session) {
		metrics.SessionEvents.WithLabelValues("expired").Inc()
		metrics.ActiveSessions.Set(float64(sessions.ActiveCount()))
	})

	chatSvc := chat.NewService(store, adapter, metrics, chat.Config{
		MaxHistoryMessages:     cfg.MaxHistoryMessages,
		SummarizationThreshold: cfg.SummarizationThreshold,
		MessagesToSummarize:    cfg.MessagesToSummarize,
		MaxMessageLen:          cfg.MaxMessageLen,
	})

	api := httpapi.New(cfg, sessions, chatSvc, metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	sessions.StartJanitor(runCtx, 5*time.Second)

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
