package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"imgpress/internal/engine"
	"imgpress/internal/events"
	"imgpress/internal/logger"
	"imgpress/internal/models"
	"imgpress/internal/server"
	"imgpress/internal/worker"
)

func main() {
	godotenv.Load()

	cfg, err := models.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.SetupDefault(cfg.LogLevel, cfg.LogPlaintext)

	for _, dir := range []string{cfg.UploadDir, cfg.ProcessedDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	eng := engine.New(cfg.ProcessedDir, cfg.Quality)
	pool := worker.NewPool(eng, cfg.Workers, cfg.QueueSize)
	pub := events.New(cfg.KafkaBroker, cfg.KafkaTopic)

	srv, err := server.New(cfg, pool, pub)
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()
	slog.Info("server started", "addr", cfg.ServerAddr)

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	slog.Info("shutting down")
	pool.Close()
	pub.Close()
}
