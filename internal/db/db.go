// Package db opens the relational store and brings its schema up to date.
package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Irenepaul17/new-log-sub000/internal/config"
	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
)

// Open connects to the configured database. Sqlite parent directories are
// created on demand.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Driver) {
	case "sqlite", "sqlite3":
		if err := ensureDir(cfg.DSN); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(cfg.DSN)
	case "postgres", "postgresql":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, errs.Invalidf("unsupported database driver %q", cfg.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, errs.Wrapf(err, "open %s database", cfg.Driver)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, errs.Wrap(err, "get sql.DB")
	}
	if dialector.Name() == "sqlite" {
		// sqlite serializes writers; one connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	}
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	return gdb, nil
}

func ensureDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrapf(err, "create database dir %s", dir)
	}
	return nil
}

// Migrate creates or updates every table and the per-table asset indexes.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(models.All()...); err != nil {
		return errs.Wrap(err, "auto migrate")
	}
	for _, table := range models.AssetTables() {
		stmt := fmt.Sprintf(
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_%s_station_identifier ON %s (station, identifier)",
			table, table,
		)
		if err := gdb.Exec(stmt).Error; err != nil {
			return errs.Wrapf(err, "create unique index on %s", table)
		}
	}
	return nil
}

// Ping checks that the database answers.
func Ping(ctx context.Context, gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
