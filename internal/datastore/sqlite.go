package datastore

import (
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tphakala/simple-notes/internal/conf"
	"github.com/tphakala/simple-notes/internal/errors"
	"github.com/tphakala/simple-notes/internal/logger"
)

const sqliteMemory = ":memory:"

// OpenSQLite opens (creating if needed) the SQLite database at path.
// ":memory:" gives a private in-memory database.
func OpenSQLite(path string, timeout time.Duration, log logger.Logger) (Interface, error) {
	if path == "" {
		return nil, errors.Newf("sqlite path is empty").
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}

	dsn := path
	if path != sqliteMemory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, dbError(err, "open", "backend", conf.BackendSQLite, "path", path)
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	}

	db, err := gorm.Open(sqlite.Open(dsn), newGormConfig(log))
	if err != nil {
		return nil, dbError(err, "open", "backend", conf.BackendSQLite, "path", path)
	}

	// SQLite allows one writer; a single connection also keeps an in-memory
	// database alive for the life of the store.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, dbError(err, "open", "backend", conf.BackendSQLite)
	}
	sqlDB.SetMaxOpenConns(1)

	store, err := newGormStore(db, conf.BackendSQLite, timeout)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return store, nil
}
