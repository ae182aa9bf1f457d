package main

import (
	"context"
	"feednana/config"
	"feednana/internal/repo"
	"feednana/internal/service"
	"feednana/internal/storage"
	"feednana/router"
)

// main initializes services and starts the HTTP server.
func main() {
	config.InitConfig()
	repo.InitMysql()
	repo.InitRedis()
	storage.InitMinio()

	go service.RunSessionReaper(context.Background())

	router := router.InitRouter()

	router.Run(":8000")
}
