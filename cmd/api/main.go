package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"chat-backend/cmd"
	"chat-backend/internal/api"
	"chat-backend/internal/chat"
	"chat-backend/internal/config"
	"chat-backend/internal/storage"
)

func createServer(cfg *config.Config, store *chat.ConversationStore, uploads storage.Provider) *http.Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300, // Cache preflight response for 5 minutes
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	api.NewChatService(store).AddRoutes(r)
	api.NewUploadService(uploads, cfg.UploadBucket, cfg.MaxUploadBytes).AddRoutes(r)

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: r,
	}
}

func main() {
	log.Println("Starting chat server...")

	cmd.LoadEnvFile()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	if cfg.LogFile != "" {
		f, err := cmd.SetupLogFile(cfg.LogFile)
		if err != nil {
			log.Fatalf("error setting up log file: %v", err)
		}
		defer f.Close()
	}

	slog.Info("starting backend", "port", cfg.Port, "llm_provider", cfg.LLMProvider, "initial_model", cfg.InitialModel, "storage_backend", cfg.StorageBackend)

	models, err := chat.NewModelRegistry(cfg.ModelEngines(), cfg.InitialModel)
	if err != nil {
		log.Fatalf("error creating model registry: %v", err)
	}

	generator, err := cmd.CreateGenerator(cfg)
	if err != nil {
		log.Fatalf("error creating llm generator: %v", err)
	}

	uploads, err := cmd.CreateStorage(context.Background(), cfg)
	if err != nil {
		log.Fatalf("error creating storage: %v", err)
	}

	store := chat.NewConversationStore(generator, models, cfg.MaxContextMessages, cfg.MaxActiveUsers)

	server := createServer(cfg, store, uploads)

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("API server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", server.Addr, err)
	}

	log.Println("Server stopped.")
}
