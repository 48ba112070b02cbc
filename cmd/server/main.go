package main

import (
	"context"
	"log"

	"webplatform/internal/api"
	"webplatform/internal/catalog"
	"webplatform/internal/config"
	"webplatform/internal/contacts"
	"webplatform/internal/database"
	"webplatform/internal/l10n"
	"webplatform/internal/logging"
	"webplatform/internal/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	database.InitGorm(cfg)
	database.SyncConfig(database.GormDB, cfg)

	bundle, err := l10n.NewBundle()
	if err != nil {
		logger.Fatal("Failed to load translations", zap.Error(err))
	}
	localizer := l10n.NewLocalizer(bundle, cfg.Language)

	contactBackend := database.NewContactBackend(database.GormDB)
	contactsManager := contacts.NewManager(
		contacts.NewContactsStore(contactBackend),
		contacts.NewEMailProvider(localizer),
	)
	hub := ws.NewHub()
	go hub.Run(context.Background())

	appStore := catalog.NewClient(cfg, database.NewCatalogCache(database.GormDB), logger)

	r := gin.New()
	r.Use(logging.GinLogger(logger), gin.Recovery(), api.CORS())

	api.RegisterRoutes(r,
		api.NewContactHandler(contactsManager, contactBackend, hub),
		api.NewAppStoreHandler(appStore),
	)

	// Address book change feed
	r.GET("/ws", gin.WrapF(hub.ServeWs))

	logger.Info("Server starting",
		zap.String("port", cfg.Port),
		zap.Bool("appstore_enabled", appStore.IsAppStoreEnabled()),
	)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to run server", zap.Error(err))
	}
}
