package datastore

import (
	"net"
	"strconv"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/tphakala/simple-notes/internal/conf"
	"github.com/tphakala/simple-notes/internal/logger"
)

// Connection pool limits for the mysql backend.
const (
	mysqlMaxOpenConns    = 10
	mysqlMaxIdleConns    = 5
	mysqlConnMaxLifetime = time.Hour
)

// mysqlDSN builds the driver DSN. Times are read and written in UTC.
func mysqlDSN(settings *conf.MySQLSettings) string {
	cfg := mysqldriver.NewConfig()
	cfg.User = settings.Username
	cfg.Passwd = settings.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(settings.Host, strconv.Itoa(settings.Port))
	cfg.DBName = settings.Database
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// OpenMySQL connects to MySQL and migrates the notes table.
func OpenMySQL(settings *conf.MySQLSettings, timeout time.Duration, log logger.Logger) (Interface, error) {
	db, err := gorm.Open(mysql.Open(mysqlDSN(settings)), newGormConfig(log))
	if err != nil {
		return nil, dbError(err, "open", "backend", conf.BackendMySQL,
			"host", settings.Host, "database", settings.Database)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, dbError(err, "open", "backend", conf.BackendMySQL)
	}
	sqlDB.SetMaxOpenConns(mysqlMaxOpenConns)
	sqlDB.SetMaxIdleConns(mysqlMaxIdleConns)
	sqlDB.SetConnMaxLifetime(mysqlConnMaxLifetime)

	store, err := newGormStore(db, conf.BackendMySQL, timeout)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return store, nil
}
