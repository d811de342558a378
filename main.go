package main

import (
	"context"
	"log"
	"time"

	"catalog-api/cmd"
	"catalog-api/internal/data/repository"
	"catalog-api/internal/data/repository/memory"
	"catalog-api/internal/wire"
	"catalog-api/pkg/database"
	"catalog-api/pkg/mailer"
	"catalog-api/pkg/token"
	"catalog-api/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("db_driver", config.Database.Driver),
	)

	// Open the store
	repos, closeStore := openStore(config, logger)
	defer closeStore()

	// Credentials and mail delivery
	tokens, err := token.NewManager(config.JWT)
	if err != nil {
		logger.Fatal("Failed to init token manager", zap.Error(err))
	}

	var sender mailer.Sender
	if config.Email.Host != "" {
		sender = mailer.NewSMTPSender(config.Email, logger)
		logger.Info("Email delivery via SMTP", zap.String("host", config.Email.Host))
	} else {
		sender = mailer.NewLogSender(logger)
		logger.Warn("SMTP_HOST not set, confirmation codes are only logged")
	}

	// Wire all dependencies
	app := wire.Wiring(repos, tokens, sender, config, logger)

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

func openStore(config *utils.Config, logger *zap.Logger) (*repository.Repository, func()) {
	if config.Database.Driver == "memory" {
		logger.Warn("Using in-memory store, data is lost on restart")
		return memory.New().Repository(), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.InitDB(ctx, database.ConnString(config.Database), config.Database.MaxConns)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	return repository.NewRepository(db, logger), db.Close
}
