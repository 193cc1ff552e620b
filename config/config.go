package config

import (
	"fmt"
	"os"

	"github.com/nextforms/forms-server/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDB opens the PostgreSQL connection from DB_* env vars and
// migrates the schema.
func ConnectDB() {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbName, port)

	// TranslateError turns driver unique-violation errors into
	// gorm.ErrDuplicatedKey, which the submission path relies on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		Log.Fatal("failed to connect database", zap.Error(err))
	}

	if err := Migrate(db); err != nil {
		Log.Fatal("failed to migrate", zap.Error(err))
	}

	DB = db
	Log.Info("connected to PostgreSQL and migrated")
}

// Migrate creates or updates the schema for all entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Form{},
		&models.Question{},
		&models.Option{},
		&models.Share{},
		&models.Submission{},
		&models.Answer{},
	)
}
