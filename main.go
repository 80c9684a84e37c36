package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "alertfi-backend/cmd/api"
	adminUsecase "alertfi-backend/internal/admin/usecase"
	authdomain "alertfi-backend/internal/auth/domain"
	authRepo "alertfi-backend/internal/auth/repository"
	authUsecase "alertfi-backend/internal/auth/usecase"
	detectordomain "alertfi-backend/internal/detector/domain"
	detectorRepo "alertfi-backend/internal/detector/repository"
	detectorUsecase "alertfi-backend/internal/detector/usecase"
	"alertfi-backend/internal/ingestion/consumer"
	ingestionUsecase "alertfi-backend/internal/ingestion/usecase"
	"alertfi-backend/internal/notification"
	"alertfi-backend/pkg/cache"
	"alertfi-backend/pkg/config"
	"alertfi-backend/pkg/database"
	"alertfi-backend/pkg/email"
	"alertfi-backend/pkg/fcm"
	"alertfi-backend/pkg/logger"
	"alertfi-backend/pkg/mqtt"
	"alertfi-backend/pkg/pubsub"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, "alertfi-backend")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}, &authdomain.FCMToken{}, &detectordomain.Detector{}, &detectordomain.Reading{}); err != nil {
		zlog.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	fcmTokenRepo := authRepo.NewFCMTokenRepository(db)
	detectorRepository := detectorRepo.NewGormDetectorRepository(db)
	readingRepository := detectorRepo.NewGormReadingRepository(db)

	// Push notifications fall back to a logging no-op without Firebase credentials
	var notifier notification.Notifier
	if cfg.FirebaseCredentials != "" {
		fcmClient, err := fcm.NewClient(ctx, cfg.FirebaseCredentials, zlog)
		if err != nil {
			zlog.Warn("Failed to initialize FCM client, push notifications disabled", zap.Error(err))
		} else {
			notifier = fcmClient
			zlog.Info("FCM client initialized")
		}
	} else {
		zlog.Warn("FIREBASE_CREDENTIALS not set, push notifications disabled")
	}

	gate := notification.NewGate(userRepo, fcmTokenRepo, notifier, zlog)
	gate.SetSendTimeout(cfg.NotifierTimeout)
	gate.SetConcurrency(cfg.NotifierConcurrency)

	if cfg.RedisAddr != "" {
		rdb, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			zlog.Warn("Redis unavailable, alert cooldown disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			gate.SetCooldown(notification.NewRedisCooldown(rdb), api.GetRuntimeAlertCooldown)
			zlog.Info("Alert cooldown enabled", zap.String("redis_addr", cfg.RedisAddr))
		}
	}

	if cfg.AlertEmailEnabled && cfg.BrevoAPIKey != "" {
		gate.SetAlertMailer(email.NewBrevoClient(cfg.BrevoAPIKey, cfg.AlertEmailSender, ""))
		zlog.Info("Alert email enabled")
	}

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, fcmTokenRepo, cfg, zlog)
	detectorUsecaseInstance := detectorUsecase.NewDetectorUsecase(detectorRepository, readingRepository)
	adminUsecaseInstance := adminUsecase.NewAdminUsecase(userRepo, detectorRepository, readingRepository)

	pipeline := ingestionUsecase.NewIngestionUsecase(detectorRepository, readingRepository, gate, zlog)
	pipeline.SetGateTimeout(cfg.NotifierTimeout + 5*time.Second)

	if cfg.GoogleProjectID != "" && cfg.PubSubReadingsTopic != "" {
		publisher, err := pubsub.NewPublisher(ctx, cfg.GoogleProjectID, cfg.PubSubReadingsTopic, cfg.GoogleCredentials)
		if err != nil {
			zlog.Warn("Failed to initialize Pub/Sub publisher, reading events disabled", zap.Error(err))
		} else {
			defer publisher.Close()
			pipeline.SetEventPublisher(publisher)
			zlog.Info("Reading events enabled", zap.String("topic", cfg.PubSubReadingsTopic))
		}
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := authUsecaseInstance.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			zlog.Error("Failed to seed admin user", zap.Error(err))
		}
	}

	// MQTT device transport
	if cfg.MQTTBroker != "" {
		mqttClient, err := mqtt.NewClient(mqtt.Config{
			Broker:   cfg.MQTTBroker,
			ClientID: cfg.MQTTClientID,
			Username: cfg.MQTTUsername,
			Password: cfg.MQTTPassword,
		}, zlog)
		if err != nil {
			zlog.Warn("Failed to connect to MQTT broker, MQTT ingestion disabled", zap.Error(err))
		} else {
			defer mqttClient.Disconnect()
			mqttConsumer := consumer.NewMQTTConsumer(pipeline, zlog)
			if err := mqttClient.Subscribe(cfg.MQTTTopic, 1, mqttConsumer.HandleMessage); err != nil {
				zlog.Error("Failed to subscribe to MQTT topic", zap.String("topic", cfg.MQTTTopic), zap.Error(err))
			} else {
				zlog.Info("MQTT ingestion started", zap.String("topic", cfg.MQTTTopic))
			}
		}
	}

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, detectorUsecaseInstance, pipeline, adminUsecaseInstance, cfg, zlog)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("Server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	zlog.Info("Received signal, shutting down", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Error during shutdown", zap.Error(err))
	}

	zlog.Info("Server stopped")
}
