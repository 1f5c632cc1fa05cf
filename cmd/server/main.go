package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andreadp02/participium/internal/client"
	"github.com/andreadp02/participium/internal/config"
	"github.com/andreadp02/participium/internal/handler"
	"github.com/andreadp02/participium/internal/kafka"
	"github.com/andreadp02/participium/internal/middleware"
	"github.com/andreadp02/participium/internal/repository"
	"github.com/andreadp02/participium/internal/service"

	"github.com/cenkalti/backoff/v4"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set up logger
	logger, err := createLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	db, err := connectToDB(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize Kafka producer (if enabled)
	var producer *kafka.Producer
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, "participium", logger)
		defer producer.Close()
		logger.Info("Initialized Kafka producer", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	// Initialize repositories
	reportRepo := repository.NewReportRepository(db, logger)
	notificationRepo := repository.NewNotificationRepository(db, logger)
	userRepo := repository.NewUserRepository(db, logger)

	// Initialize clients
	imageClient := client.NewImageClient(cfg.ImageService.URL, cfg.ImageService.ServiceKey, logger)

	// Initialize services
	reportService := service.NewReportService(reportRepo, imageClient, logger)
	notificationService := service.NewNotificationService(notificationRepo, reportRepo, userRepo, logger)

	// Initialize handlers
	var events handler.EventPublisher
	if producer != nil {
		events = producer
	}
	reportHandler := handler.NewReportHandler(reportService, notificationService, events, cfg.Kafka.EventsTopic, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger)

	// Set up HTTP server with Gin
	router := setupRouter(reportHandler, notificationHandler, cfg.Auth.JWTSecret, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited properly")
}

func createLogger(level string) (*zap.Logger, error) {
	var zapLevel zap.AtomicLevel
	switch level {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config := zap.Config{
		Level:            zapLevel,
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}

func connectToDB(dbConfig config.DatabaseConfig, logger *zap.Logger) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.DBName,
		dbConfig.SSLMode,
	)

	// Retry the initial connection; the database may still be coming up.
	var db *sqlx.DB
	connect := func() error {
		var err error
		db, err = sqlx.Connect("pgx", dsn)
		if err != nil {
			logger.Warn("Database not ready, retrying", zap.Error(err))
		}
		return err
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
	if err := backoff.Retry(connect, policy); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(dbConfig.MaxOpenConns)
	db.SetMaxIdleConns(dbConfig.MaxIdleConns)
	db.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)

	return db, nil
}

func setupRouter(
	reportHandler *handler.ReportHandler,
	notificationHandler *handler.NotificationHandler,
	jwtSecret string,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Use middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Report routes
		reports := v1.Group("/reports")
		{
			// Public report endpoints
			reports.GET("", reportHandler.GetAllReports)
			reports.GET("/status/:status", reportHandler.GetReportsByStatus)
			reports.GET("/:id", reportHandler.GetReportByID)

			// Protected report endpoints
			authed := reports.Group("")
			authed.Use(middleware.AuthMiddleware(jwtSecret, logger))
			authed.POST("", reportHandler.SubmitReport)

			// Staff-only report endpoints
			staff := authed.Group("")
			staff.Use(middleware.RequireRole("municipality"))
			staff.PATCH("/:id/status", reportHandler.UpdateReportStatus)
			staff.DELETE("/:id", reportHandler.DeleteReport)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		{
			notifications.Use(middleware.AuthMiddleware(jwtSecret, logger))
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.GET("/:id", notificationHandler.GetNotificationByID)
			notifications.PATCH("/:id/read", notificationHandler.MarkNotificationRead)

			// Staff-only notification endpoints
			staff := notifications.Group("")
			staff.Use(middleware.RequireRole("municipality"))
			staff.POST("", notificationHandler.SendNotification)
		}
	}

	return router
}
