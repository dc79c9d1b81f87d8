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

	"loyalty-ledger.backend/internal/config"
	"loyalty-ledger.backend/internal/infrastructure/jobs"
	"loyalty-ledger.backend/internal/infrastructure/repositories"
	"loyalty-ledger.backend/internal/interfaces/http/handlers"
	"loyalty-ledger.backend/internal/interfaces/http/middleware"
	"loyalty-ledger.backend/internal/usecases"
	"loyalty-ledger.backend/pkg/cache"
	"loyalty-ledger.backend/pkg/jwt"
	"loyalty-ledger.backend/pkg/logger"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	openCache  = cache.Open
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
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

	store, err := openCache(cfg.Cache.Backend, cfg.Cache.RedisURL, cfg.Cache.RedisPassword)
	if err != nil {
		logger.Error(context.Background(), "Failed to initialize cache", zap.Error(err))
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer store.Close()
	logger.Info(context.Background(), "Cache initialized", zap.String("backend", cfg.Cache.Backend))

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
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

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Initialize repositories
	walletRepo := repositories.NewWalletRepository(db)
	intentRepo := repositories.NewSpendIntentRepository(db)
	voucherRepo := repositories.NewVoucherRepository(db)
	ruleRepo := repositories.NewActivityRuleRepository(db)

	// Initialize usecases
	policy := usecases.NewAccessPolicy()
	ledgerUsecase := usecases.NewLedgerUsecase(walletRepo, store, usecases.CacheTTLs{
		Balance:      cfg.Cache.BalanceTTL,
		Transactions: cfg.Cache.TransactionTTL,
	})
	intentUsecase := usecases.NewSpendIntentUsecase(intentRepo, walletRepo, ledgerUsecase)
	voucherUsecase := usecases.NewVoucherUsecase(voucherRepo, policy)
	activityUsecase := usecases.NewActivityUsecase(ruleRepo, ledgerUsecase, store, cfg.Activity)

	if err := activityUsecase.SeedDefaultRules(context.Background()); err != nil {
		log.Printf("⚠️ Seeding activity rules failed: %v", err)
	}

	// Initialize handlers
	walletHandler := handlers.NewWalletHandler(ledgerUsecase, policy)
	intentHandler := handlers.NewSpendIntentHandler(intentUsecase, policy)
	voucherHandler := handlers.NewVoucherHandler(voucherUsecase)
	activityHandler := handlers.NewActivityHandler(activityUsecase)

	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	expiryJob := jobs.NewSpendIntentExpiryJob(intentRepo)
	go expiryJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		walletHandler:   walletHandler,
		intentHandler:   intentHandler,
		voucherHandler:  voucherHandler,
		activityHandler: activityHandler,
		authMiddleware:  authMiddleware,
		store:           store,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		expiryJob.Stop()
		cancel()
	}()

	log.Printf("🚀 Loyalty Ledger Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
