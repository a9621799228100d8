package main

import (
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tower-climb/internal/api"
	"tower-climb/internal/checkout"
	"tower-climb/internal/config"
	"tower-climb/internal/db"
	"tower-climb/internal/session"
	"tower-climb/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbConn, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()

	if err := db.Migrate(dbConn, "migrations"); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	zapLogger, _ := zap.NewProduction()
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(zapLogger)
	logger := pkg.NewZapLogger(zapLogger)

	redemptions := db.NewRedemptionStore(dbConn)
	sessions := session.NewManager(redemptions, logger)
	defer sessions.StopAll()

	provider := checkout.NewHTTPProvider(cfg.PaymentAPIBase, cfg.PaymentAPIKey)
	initiator := checkout.NewInitiator(provider, cfg.AppID, logger)
	verifier := checkout.NewVerifier(provider, logger)
	codes := checkout.NewCodeIssuer(cfg.RedemptionSecret, cfg.AppID)

	e := echo.New()
	handlers := &api.Handlers{
		Sessions: sessions,
		Checkout: initiator,
		Verifier: verifier,
		Codes:    codes,
		Logger:   logger,
	}
	api.RegisterHandlers(e, handlers)

	port := fmt.Sprintf(":%s", cfg.ServerPort)
	logger.Info("Starting server", zap.String("port", cfg.ServerPort))
	if err := e.Start(port); err != nil {
		logger.Error("Failed to run server", zap.Error(err))
	}
}
