// File: lovebug/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lovebug/config"
	"lovebug/database"
	profileRepo "lovebug/database/repository/profile"
	"lovebug/handlers"
	"lovebug/middleware"
	"lovebug/routes"
	"lovebug/services/notification"
	"lovebug/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	profRepo := profileRepo.NewMongoProfileRepo()

	// services.
	tokenManager := &notification.TokenManager{
		Credential: notification.ServiceAccountCredential{
			ClientEmail:   config.AppConfig.FirebaseClientEmail,
			PrivateKeyPEM: config.AppConfig.FirebasePrivateKey,
		},
		TokenURL:     config.AppConfig.OAuthTokenURL,
		Scope:        config.AppConfig.MessagingScope,
		SafetyMargin: time.Duration(config.AppConfig.TokenSafetyMarginSec) * time.Second,
	}

	dispatcher := &notification.FCMClient{
		Endpoint:  config.AppConfig.FCMEndpoint,
		ProjectID: config.AppConfig.FirebaseProjectID,
	}

	payloadBuilder := &notification.PayloadBuilder{
		CallChannelID:    config.AppConfig.CallChannelID,
		DefaultChannelID: config.AppConfig.DefaultChannelID,
		IOSCallCategory:  config.AppConfig.IOSCallCategory,
	}

	notificationService := &notification.DefaultNotificationService{
		Profiles:   profRepo,
		Tokens:     tokenManager,
		Dispatcher: dispatcher,
		Builder:    payloadBuilder,
		Cache:      utils.GetCacheClient(),
	}

	notificationHandler := handlers.NewNotificationHandler(notificationService)
	pushProfileHandler := handlers.NewPushProfileHandler(notificationService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Notification endpoints.
		SendPushNotificationHandler: notificationHandler.SendPushNotificationHandler,

		// Push profile endpoints.
		UpdatePushTokenHandler:         pushProfileHandler.UpdatePushTokenHandler,
		UpdateNotificationPrefsHandler: pushProfileHandler.UpdateNotificationPrefsHandler,
		GetPushProfileHandler:          pushProfileHandler.GetPushProfileHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
