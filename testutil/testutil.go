// Package testutil wires an in-memory database so tests run without a
// PostgreSQL instance.
package testutil

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nextforms/forms-server/config"
	"github.com/nextforms/forms-server/models"
	"github.com/nextforms/forms-server/utils"
)

// SetupTestDB opens an isolated in-memory sqlite database, migrates the
// schema and installs it as the global connection. TranslateError matches
// the production config so duplicate-key handling behaves the same.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// A second pooled connection would see a different :memory: database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	config.DB = db
	return db
}

// CreateUser inserts a user with a bcrypt password and returns it.
func CreateUser(t *testing.T, db *gorm.DB, username, password string) models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{Username: username, DisplayName: username, Password: hash}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %q: %v", username, err)
	}
	return user
}

// Token issues a JWT for the user, as the login endpoint would.
func Token(t *testing.T, username string) string {
	t.Helper()
	token, err := utils.GenerateToken(username)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}
