package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/clusterbreakdown/cost-report-service/config"
	"github.com/clusterbreakdown/cost-report-service/http/controller"
	routes "github.com/clusterbreakdown/cost-report-service/http/route"
	infraPkg "github.com/clusterbreakdown/cost-report-service/infra"
	"github.com/clusterbreakdown/cost-report-service/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()

	infra, err := infraPkg.InitInfra(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize infrastructure: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := infra.Close(ctx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	repo := repository.InitRepository(cfg, infra)
	ctrl := controller.NewController(cfg, infra, repo)

	router := routes.SetupRouter(ctrl)

	log.Printf("HTTP Server started on :%s", cfg.EnvConfig.HTTPPort)
	if err := router.Run(":" + cfg.EnvConfig.HTTPPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
