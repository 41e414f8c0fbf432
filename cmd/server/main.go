package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"dropmarket.backend/internal/config"
	"dropmarket.backend/internal/infrastructure/models"
	"dropmarket.backend/internal/infrastructure/repositories"
	"dropmarket.backend/internal/interfaces/http/handlers"
	"dropmarket.backend/internal/interfaces/http/middleware"
	"dropmarket.backend/internal/interfaces/telegram"
	"dropmarket.backend/internal/session"
	"dropmarket.backend/internal/usecases"
	"dropmarket.backend/pkg/jwt"
	"dropmarket.backend/pkg/logger"
	"dropmarket.backend/pkg/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// noopSender stands in for the chat transport when no bot token is
// configured. Notifications are dropped silently.
type noopSender struct{}

func (noopSender) SendMessage(context.Context, int64, string) error { return nil }

func (noopSender) SendPhoto(context.Context, int64, string, string) error { return nil }

func openDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Backend {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.URL()), &gorm.Config{})
	default:
		return gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{})
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	logger.Init(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Verification{}, &models.Order{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	logger.Info(context.Background(), "Database ready", zap.String("backend", cfg.Database.Backend))

	// Take lock: redis when configured, in-process otherwise.
	var takeLock usecases.TakeLock = usecases.NewMemoryTakeLock()
	if cfg.Redis.URL != "" {
		if err := redis.Init(cfg.Redis.URL, cfg.Redis.Password); err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		takeLock = redis.NewTakeLock(redis.GetClient(), 10*time.Second)
		logger.Info(context.Background(), "Redis take lock enabled")
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)

	userRepo := repositories.NewUserRepository(db)
	verificationRepo := repositories.NewVerificationRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	// Chat transport. Without a token the operator API still works but
	// notifications go nowhere.
	var (
		sender usecases.Sender = noopSender{}
		botAPI *tgbotapi.BotAPI
	)
	if cfg.Telegram.Token != "" {
		botAPI, err = tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			return fmt.Errorf("failed to connect to telegram: %w", err)
		}
	}

	if botAPI != nil {
		sender = telegram.NewAPISender(botAPI)
	}

	notifier := usecases.NewNotifier(sender, userRepo, cfg.Admin.AuditChatID, cfg.Notify.Timeout)
	userUsecase := usecases.NewUserUsecase(userRepo)
	verificationUsecase := usecases.NewVerificationUsecase(userRepo, verificationRepo, notifier)
	orderUsecase := usecases.NewOrderUsecase(orderRepo, userRepo, takeLock, notifier)
	sessions := session.NewManager(userUsecase, verificationUsecase, orderUsecase, notifier)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if botAPI != nil {
		bot := telegram.NewBot(botAPI, cfg.Admin.UserID, sessions, userUsecase, orderUsecase, verificationUsecase)
		go bot.Run(ctx)
		logger.Info(context.Background(), "Telegram bot started")
	}

	authHandler := handlers.NewAuthHandler(cfg.Admin.TokenHash, jwtService)
	orderHandler := handlers.NewOrderHandler(orderUsecase)
	verificationHandler := handlers.NewVerificationHandler(verificationUsecase)
	adminHandler := handlers.NewAdminHandler(userUsecase, notifier, orderUsecase)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	registerAPIV1Routes(r, routeDeps{
		authHandler:         authHandler,
		orderHandler:        orderHandler,
		verificationHandler: verificationHandler,
		adminHandler:        adminHandler,
		authMiddleware:      middleware.AuthMiddleware(jwtService),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(context.Background(), "HTTP server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Notify.Timeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
