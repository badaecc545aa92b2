package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/chiedozieu/website-builder/internal/models"
	"github.com/chiedozieu/website-builder/pkg/config"
	"github.com/chiedozieu/website-builder/pkg/logger"
)

func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// gen_random_uuid defaults need pgcrypto on older postgres
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error; err != nil {
		log.Warn("create pgcrypto extension failed", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.WebsiteProject{},
		&models.Version{},
		&models.Conversation{},
		&models.PendingCharge{},
	); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	fmt.Fprintln(os.Stdout, "migrations completed")
}
