package db

import (
	"context"
	"testing"

	"gorm.io/gorm"
)

// NewTestDB opens a private in-memory sqlite database and migrates models.
func NewTestDB(t testing.TB, models ...any) *gorm.DB {
	t.Helper()

	db, err := Open(context.Background(), sqlitePrefix+":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("migrate test db: %v", err)
		}
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
