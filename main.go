package main

import (
	"log"

	api "sansynapse-backend/cmd/api"
	pushdomain "sansynapse-backend/internal/push/domain"
	pushRepo "sansynapse-backend/internal/push/repository"
	pushUsecase "sansynapse-backend/internal/push/usecase"
	"sansynapse-backend/pkg/config"
	"sansynapse-backend/pkg/database"
	"sansynapse-backend/pkg/fcm"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.FCMServiceAccount == "" {
		log.Fatal("FCM_SERVICE_ACCOUNT is not configured, cannot deliver push notifications")
	}

	// Initialize database (profile store with device registrations)
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(&pushdomain.DeviceToken{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	tokenRepo := pushRepo.NewDeviceTokenRepository(db)

	// Initialize FCM client
	fcmClient := fcm.NewClientWithEndpoints([]byte(cfg.FCMServiceAccount), cfg.FCMEndpoint, cfg.FCMTokenURI)

	// Initialize dispatcher
	dispatcher := pushUsecase.NewDispatcher(tokenRepo, fcmClient)

	// Initialize HTTP handler
	handler := api.NewHandler(dispatcher)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
