package main

import (
	"flag"

	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"
	"go-catalog-admin/pkg/config"
	"go-catalog-admin/pkg/database"
	"go-catalog-admin/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	email := flag.String("email", "admin@example.com", "account to reset")
	password := flag.String("password", "admin123", "new password")
	flag.Parse()

	// 1. Load config and logger
	cfg, err := config.Load(".")
	if err != nil {
		panic("load config: " + err.Error())
	}
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Log.Environment,
		ServiceName: "reset-password",
	}); err != nil {
		panic("init logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	userRepo := repository.NewUserRepo(db)

	// 3. Find user
	user, err := userRepo.FindByEmail(*email)
	if err != nil {
		log.Fatal("User not found", zap.String("email", *email), zap.Error(err))
	}

	// 4. Hash new password
	var hashed model.User
	if err := hashed.SetPassword(*password); err != nil {
		log.Fatal("Failed to hash password", zap.Error(err))
	}

	// 5. Update and end every open session
	if err := userRepo.UpdatePassword(user.ID, hashed.Password); err != nil {
		log.Fatal("Failed to update password", zap.Error(err))
	}
	if err := userRepo.UpdateTokenVersion(user.ID, uuid.NewString()); err != nil {
		log.Warn("Password reset but existing sessions were not revoked", zap.Error(err))
	}

	log.Info("Password reset", zap.String("email", user.Email))
}
