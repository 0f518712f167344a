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
	"gorm.io/gorm"

	"expenseflow.backend/internal/config"
	"expenseflow.backend/internal/infrastructure/jobs"
	"expenseflow.backend/internal/infrastructure/ocr"
	"expenseflow.backend/internal/infrastructure/rates"
	"expenseflow.backend/internal/infrastructure/repositories"
	"expenseflow.backend/internal/interfaces/http/handlers"
	"expenseflow.backend/internal/interfaces/http/middleware"
	"expenseflow.backend/internal/usecases"
	"expenseflow.backend/pkg/jwt"
	"expenseflow.backend/pkg/logger"
	"expenseflow.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	newSessionStore = redis.NewSessionStore
	runServer       = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB        = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	companyRepo := repositories.NewCompanyRepository(db)
	expenseRepo := repositories.NewExpenseRepository(db)
	approvalRepo := repositories.NewApprovalTransactionRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize Session Store
	sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	// Initialize outbound clients
	rateProvider := rates.NewHTTPRateProvider(cfg.Rates)
	receiptExtractor := ocr.NewHTTPReceiptExtractor(cfg.OCR)

	// Initialize usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService)
	userUsecase := usecases.NewUserUsecase(userRepo, expenseRepo, approvalRepo, uow)
	currencyUsecase := usecases.NewCurrencyUsecase(companyRepo, expenseRepo, rateProvider, uow)
	expenseUsecase := usecases.NewExpenseUsecase(expenseRepo, userRepo, companyRepo, currencyUsecase, receiptExtractor)
	approvalUsecase := usecases.NewApprovalUsecase(expenseRepo, approvalRepo, userRepo, uow, cfg.Approval.FinalStep)
	dashboardUsecase := usecases.NewDashboardUsecase(userRepo, expenseRepo, companyRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase, sessionStore)
	expenseHandler := handlers.NewExpenseHandler(expenseUsecase)
	approvalHandler := handlers.NewApprovalHandler(approvalUsecase)
	dashboardHandler := handlers.NewDashboardHandler(dashboardUsecase)
	adminHandler := handlers.NewAdminHandler(userUsecase, currencyUsecase, approvalUsecase, dashboardUsecase)

	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reconciliationJob := jobs.NewCurrencyReconciliationJob(currencyUsecase, companyRepo, cfg.Jobs.ReconciliationInterval)
	go reconciliationJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r, sqlDB)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:      authHandler,
		expenseHandler:   expenseHandler,
		approvalHandler:  approvalHandler,
		dashboardHandler: dashboardHandler,
		adminHandler:     adminHandler,
		authMiddleware:   authMiddleware,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		reconciliationJob.Stop()
		cancel()
	}()

	// Start server
	log.Printf("🚀 ExpenseFlow Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
