package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	_ "budgetmate/docs" // swagger docs

	"budgetmate/internal/auth"
	"budgetmate/internal/cache"
	"budgetmate/internal/config"
	"budgetmate/internal/db"
	"budgetmate/internal/handler"
	"budgetmate/internal/model"
	"budgetmate/internal/repository"
	"budgetmate/internal/router"
	"budgetmate/internal/service"
)

// @title BudgetMate API
// @version 1.0
// @description Personal finance tracker with income/expense ledger, JWT authentication and admin role.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logrus.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Transaction{},
	); err != nil {
		logrus.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	txnRepo := repository.NewTransactionRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, cacheClient)
	txnService := service.NewTransactionService(txnRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, jwtService, tokenStore)
	userHandler := handler.NewUserHandler(userService)
	txnHandler := handler.NewTransactionHandler(txnService)

	// Register routes
	router.Register(
		e,
		cfg,
		jwtService,
		tokenStore,
		authHandler,
		userHandler,
		txnHandler,
	)

	addr := ":" + cfg.ServerPort
	logrus.Infof("server listening on %s", addr)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logrus.Fatalf("server start: %v", err)
	}
}
