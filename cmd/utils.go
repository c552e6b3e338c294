package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"chat-backend/internal/config"
	"chat-backend/internal/llm"
	"chat-backend/internal/storage"
)

func LoadEnvFile() {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	if configPath == "" {
		log.Printf("no env file specified, using os.Environ only")
		return
	}

	log.Printf("loading env from file %s", configPath)
	err := godotenv.Load(configPath)
	if err != nil {
		log.Fatalf("error loading .env file '%s': %v", configPath, err)
	}
}

// SetupLogFile tees the standard logger (which also backs slog's default
// handler) into path. The returned closer must be closed on shutdown.
func SetupLogFile(path string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, fmt.Errorf("error creating directory for log file: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}

	log.SetOutput(io.MultiWriter(f, os.Stderr))
	return f, nil
}

func CreateGenerator(cfg *config.Config) (llm.Generator, error) {
	generator, err := llm.NewGenerator(llm.Provider(cfg.LLMProvider), cfg.LLMOptions())
	if err != nil {
		return nil, err
	}

	if cfg.GenerationTimeout > 0 {
		slog.Info("generation timeout enabled", "timeout", cfg.GenerationTimeout)
	} else {
		slog.Warn("no generation timeout configured, a hung backend will block its request indefinitely")
	}

	return llm.WithTimeout(generator, cfg.GenerationTimeout), nil
}

func CreateStorage(ctx context.Context, cfg *config.Config) (storage.Provider, error) {
	var provider storage.Provider
	switch cfg.StorageBackend {
	case config.StorageS3:
		s3p, err := storage.NewS3Provider(ctx, storage.S3ProviderConfig{
			S3EndpointURL:     cfg.S3EndpointURL,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
			S3Region:          cfg.S3Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 storage: %w", err)
		}
		provider = s3p
	default:
		local, err := storage.NewLocalProvider(cfg.StorageRoot)
		if err != nil {
			return nil, fmt.Errorf("failed to create local storage: %w", err)
		}
		provider = local
	}

	if err := provider.CreateBucket(ctx, cfg.UploadBucket); err != nil {
		return nil, fmt.Errorf("failed to create upload bucket: %w", err)
	}

	return provider, nil
}
