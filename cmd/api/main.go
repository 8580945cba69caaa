package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/local-legends/npc-engine/internal/config"
	"github.com/local-legends/npc-engine/internal/handlers"
	"github.com/local-legends/npc-engine/internal/logger"
	"github.com/local-legends/npc-engine/internal/middleware"
	"github.com/local-legends/npc-engine/internal/registry"
	"github.com/local-legends/npc-engine/internal/services"
	"github.com/local-legends/npc-engine/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting NPC Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"model_name", cfg.ModelName)

	store, err := storage.NewRedisSessionStore(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to create session store", "error", err)
		os.Exit(1)
	}

	storeCtx, storeCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storeCancel()
	if err := store.WaitForConnection(storeCtx); err != nil {
		log.Error("Failed to connect to session store", "error", err)
		os.Exit(1)
	}

	npcRegistry := registry.Load(cfg.DataDir, log)
	if npcRegistry.Count() == 0 {
		log.Warn("No NPCs loaded; interactions will fail until data/npcs.json is provided")
	}

	runtime := services.NewOpenAIRuntime(cfg.OpenAIAPIKey, cfg.ModelName, log)
	agentService := services.NewNPCAgentService(npcRegistry, store, runtime, log)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	sessionHandler := handlers.NewSessionHandler(store, log)
	mux.Handle("/v1/session", sessionHandler)
	mux.Handle("/v1/session/", sessionHandler)

	npcHandler := handlers.NewNPCHandler(agentService, log)
	mux.Handle("/v1/npcs", npcHandler)
	mux.Handle("/v1/npcs/", npcHandler)

	interactHandler := handlers.NewInteractHandler(agentService, store, log)
	mux.Handle("/v1/npc/", interactHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing session store", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
