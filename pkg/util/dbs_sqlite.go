//go:build !mysql && !pg

package util

import (
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OpenDatabase opens a gorm connection for the configured driver. An empty
// DSN falls back to an in-memory sqlite database, which is what the tests use.
// Driver errors are translated so unique violations surface as
// gorm.ErrDuplicatedKey regardless of the backend.
func OpenDatabase(cfg *gorm.Config, driver, dsn string) (*gorm.DB, error) {
	cfg.TranslateError = true
	switch driver {
	case "mysql":
		return gorm.Open(mysql.Open(dsn), cfg)
	case "pg":
		return gorm.Open(postgres.Open(dsn), cfg)
	}
	if dsn == "" {
		dsn = "file::memory:"
	}
	return gorm.Open(sqlite.Open(dsn), cfg)
}
