package store

import (
	"testing"

	"github.com/lifeblood-dev/lifeblood/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	// A single connection keeps every session on the same in-memory
	// database and serializes writes.
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = gdb.AutoMigrate(
		&models.User{},
		&models.Otp{},
		&models.Donor{},
		&models.BloodRequest{},
		&models.ChatMessage{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return gdb
}

func createUser(t *testing.T, gdb *gorm.DB, email, bloodGroup, address string) models.User {
	t.Helper()

	user := models.User{
		Email:        email,
		PasswordHash: "x",
		FullName:     email,
		Address:      address,
		BloodGroup:   bloodGroup,
		Role:         "user",
	}

	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}

	return user
}
