package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/charry07/lavaca-app/internal/config"
	"github.com/charry07/lavaca-app/internal/infrastructure/jobs"
	"github.com/charry07/lavaca-app/internal/infrastructure/models"
	"github.com/charry07/lavaca-app/internal/infrastructure/repositories"
	"github.com/charry07/lavaca-app/internal/interfaces/http/handlers"
	"github.com/charry07/lavaca-app/internal/usecases"
	"github.com/charry07/lavaca-app/pkg/jwt"
	"github.com/charry07/lavaca-app/pkg/logger"
	"github.com/charry07/lavaca-app/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(cfg config.DatabaseConfig) (*gorm.DB, error) {
		if cfg.Driver == "postgres" {
			return gorm.Open(postgres.New(postgres.Config{
				DSN:                  cfg.URL(),
				PreferSimpleProtocol: true,
			}), &gorm.Config{})
		}
		return gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{})
	}
	newOTPStore = redis.NewOTPStore
	runServer   = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB    = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Participant{},
		&models.FeedEvent{},
		&models.FeedEventUser{},
		&models.Group{},
		&models.GroupMember{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	otpStore, err := newOTPStore(cfg.Security.OTPEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize otp store: %w", err)
	}

	userRepo := repositories.NewUserRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	feedRepo := repositories.NewFeedEventRepository(db)
	groupRepo := repositories.NewGroupRepository(db)
	otpRepo := repositories.NewOTPRepository(otpStore, cfg.OTP.Expiry)
	uow := repositories.NewUnitOfWork(db)

	feedUsecase := usecases.NewFeedUsecase(feedRepo, uow, cfg.Feed.MaxEvents, cfg.Feed.QueryLimit)
	authUsecase := usecases.NewAuthUsecase(userRepo, otpRepo, jwtService, cfg.OTP.Expiry, cfg.OTP.DevMode)
	sessionUsecase := usecases.NewSessionUsecase(sessionRepo, userRepo, feedUsecase, uow)
	groupUsecase := usecases.NewGroupUsecase(groupRepo, userRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reminderJob := jobs.NewDebtReminderJob(sessionRepo, feedUsecase)
	go reminderJob.Start(ctx)

	r := buildRouter(routeDeps{
		authHandler:    handlers.NewAuthHandler(authUsecase),
		userHandler:    handlers.NewUserHandler(authUsecase),
		sessionHandler: handlers.NewSessionHandler(sessionUsecase),
		feedHandler:    handlers.NewFeedHandler(feedUsecase),
		groupHandler:   handlers.NewGroupHandler(groupUsecase),
		jwtService:     jwtService,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		reminderJob.Stop()
		cancel()
	}()

	log.Printf("🐮 La Vaca backend starting on port %s", cfg.Server.Port)
	log.Printf("API: http://localhost:%s/api/v1", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
