package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/inkwell/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:inkwell-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, name, role string) db.User {
	t.Helper()
	user := db.User{
		Name:     name,
		Email:    fmt.Sprintf("%s-%d@example.com", Slugify(name), time.Now().UnixNano()),
		Password: "not-a-real-hash",
		Role:     role,
		IsActive: true,
	}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedCategory(t *testing.T, gdb *gorm.DB, name string) db.Category {
	t.Helper()
	category := db.Category{
		Name:     name,
		Slug:     Slugify(name),
		IsActive: true,
	}
	if err := gdb.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return category
}
