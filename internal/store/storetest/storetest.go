// Package storetest opens throwaway in-memory databases for package
// tests, migrated to the same schema the server runs.
package storetest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/RobasAhmedShah/hmr-backend/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

var seq atomic.Int64

func Open(t *testing.T) *gorm.DB {
	t.Helper()
	// A named shared-cache database keeps gorm's pooled connections on
	// the same in-memory store.
	dsn := fmt.Sprintf("file:test%d?mode=memory&cache=shared&_fk=1", seq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}
