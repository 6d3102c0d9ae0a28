package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"budgetmate/internal/config"
	"budgetmate/internal/db"
	"budgetmate/internal/model"
	"budgetmate/internal/repository"
)

// Seeds the initial admin account. Registration over HTTP never grants the
// admin role to unauthenticated callers, so the first admin has to come
// from this CLI (subsequent admins can be registered by an existing one).
func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	name := flag.String("name", envOr("ADMIN_NAME", "Administrator"), "admin display name")
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email (required)")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (required)")
	flag.Parse()

	if *email == "" || *password == "" {
		logrus.Fatal("email and password are required (flags or ADMIN_EMAIL/ADMIN_PASSWORD)")
	}

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logrus.Fatalf("database init: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.User{}, &model.Transaction{}); err != nil {
		logrus.Fatalf("auto-migrate: %v", err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)

	existing, err := userRepo.FindByEmail(ctx, *email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.Fatalf("check existing admin: %v", err)
	}
	if existing != nil {
		if existing.Role == model.RoleAdmin {
			logrus.Infof("admin %s already exists, nothing to do", *email)
			return
		}
		existing.Role = model.RoleAdmin
		if err := userRepo.Update(ctx, existing); err != nil {
			logrus.Fatalf("promote existing user: %v", err)
		}
		logrus.Infof("promoted existing user %s to admin", *email)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		logrus.Fatalf("hash password: %v", err)
	}

	admin := &model.User{
		Name:         *name,
		Email:        *email,
		PasswordHash: string(hashed),
		Role:         model.RoleAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		logrus.Fatalf("create admin: %v", err)
	}
	logrus.Infof("created admin %s (id=%d)", admin.Email, admin.ID)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
