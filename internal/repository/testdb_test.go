package repository

import (
	"path/filepath"
	"testing"

	"neurogrid-backend/internal/client"
	"neurogrid-backend/internal/config"

	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := client.InitDBClient(config.Database{
		Driver:       "sqlite",
		URL:          filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000",
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("init test db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
