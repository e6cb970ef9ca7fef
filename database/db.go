package database

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"brideal-backend/models"
)

var DB *gorm.DB

// Connect loads .env (if present) and opens the Postgres connection from
// DB_HOST/DB_USER/DB_PASSWORD/DB_NAME/DB_PORT.
func Connect(log *zap.Logger) {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file, relying on environment")
	}

	host := envDefault("DB_HOST", "localhost")
	port := envDefault("DB_PORT", "5432")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"), port)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("could not connect to database", zap.Error(err))
	}
	DB = db
}

// AutoMigrate applies the schema for every model.
func AutoMigrate() error {
	return Migrate(DB)
}

// Migrate runs the (idempotent) migrations on db. Split out from the global
// so tests can migrate an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Dealer{},
		&models.Product{},
		&models.Draft{},
		&models.IdempotencyKey{},
	)
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
