// Package testutil provides an in-memory database and fixtures for tests
// that exercise repositories, services and handlers.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"farm-service/internal/model"
)

// Models lists every persisted model in dependency order.
var Models = []interface{}{
	&model.User{},
	&model.Company{},
	&model.Region{},
	&model.Sector{},
	&model.Pivot{},
	&model.Field{},
	&model.CropRotation{},
}

// SetupTestDB opens a private in-memory sqlite database with all tables
// migrated. It is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(Models...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}
