package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"linkboard/backend/common"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// ErrRecordNotFound is returned (wrapped) by repository lookups that match no row.
var ErrRecordNotFound = gorm.ErrRecordNotFound

const (
	dialectSQLite   = "SQLite"
	dialectMySQL    = "MySQL"
	dialectPostgres = "PostgreSQL"
)

func chooseDialector() (gorm.Dialector, string) {
	dsn := common.SQLDSN
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.Open(dsn), dialectPostgres
	case dsn != "":
		return mysql.Open(strings.TrimPrefix(dsn, "mysql://")), dialectMySQL
	default:
		return sqlite.Open(sqliteDSN(common.SQLitePath)), dialectSQLite
	}
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=foreign_keys(1)"
}

func ensureSQLiteDir(path string) error {
	if strings.HasPrefix(path, ":memory:") || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create database directory %s: %w", dir, err)
	}
	return nil
}

func InitDB() (err error) {
	dialector, dialect := chooseDialector()
	if dialect == dialectSQLite {
		common.SysLog("SQL_DSN not set, using SQLite as database: " + common.SQLitePath)
		if err := ensureSQLiteDir(common.SQLitePath); err != nil {
			return err
		}
	} else {
		common.SysLog("Using " + dialect + " database")
	}

	logLevel := logger.Silent
	if common.DebugEnabled {
		logLevel = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	if dialect == dialectSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		// a single connection keeps :memory: databases shared and avoids SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	}

	if err = Migrate(db); err != nil {
		return err
	}

	DB = db
	common.SysLog("Database initialized successfully.")
	return nil
}

// Migrate creates or updates the users, links and votes tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&User{}, &Link{}); err != nil {
		return fmt.Errorf("failed to auto migrate database schema: %w", err)
	}
	return nil
}

func CloseDB() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	common.SysLog("Closing database connection.")
	return sqlDB.Close()
}
