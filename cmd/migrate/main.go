package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/adisyon/backend/internal/infrastructure/config"
	"github.com/adisyon/backend/internal/infrastructure/logger"
	"github.com/adisyon/backend/internal/infrastructure/persistence"
	"github.com/adisyon/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
)

func main() {
	var (
		dryRun = flag.Bool("dry-run", false, "print the managed tables without touching the database")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewForEnvironment(cfg.App.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	if *dryRun {
		for _, model := range models.All() {
			fmt.Printf("%T\n", model)
		}
		return
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	log.Info("Running schema migration",
		zap.String("database", cfg.Database.DBName),
		zap.Int("models", len(models.All())),
	)
	if err := db.DB.AutoMigrate(models.All()...); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
	log.Info("Migration completed successfully")
}
