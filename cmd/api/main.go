// Command api serves the comparison API configured from the environment.
// It is equivalent to `waitstat serve`.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"waitstat/internal"
	"waitstat/internal/config"
	"waitstat/internal/container"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(cfg, internal.DefaultLogger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	if cfg.Database.Enabled() {
		db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		if err := appContainer.InitWithDatabase(ctx, db); err != nil {
			log.Fatalf("Failed to initialize container: %v", err)
		}
	}

	log.Printf("Starting waitstat API on port %s", cfg.Server.Port)
	if err := appContainer.Server().Run(ctx, ":"+cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
