package main

import (
	"context"
	"feednana/config"
	"feednana/internal/repo"
	"feednana/internal/storage"
	"feednana/internal/worker"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	config.InitConfig()
	repo.InitMysql()
	repo.InitRedis()
	storage.InitMinio()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("thumbnail worker started")
	if err := worker.RunThumbnailWorker(ctx); err != nil {
		log.Fatalf("thumbnail worker stopped: %v", err)
	}
}
