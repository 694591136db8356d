package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/talkincode/gamestore/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// getDatabase opens the configured database. Postgres when selected,
// otherwise a local sqlite file under the workdir.
func getDatabase(dbcfg config.DBConfig, workdir string) *gorm.DB {
	loglevel := logger.Silent
	if dbcfg.Debug {
		loglevel = logger.Info
	}
	gormCfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(loglevel),
	}

	var dial gorm.Dialector
	switch dbcfg.Type {
	case "postgres":
		dsn := dbcfg.URL
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=Asia/Shanghai",
				dbcfg.Host, dbcfg.User, dbcfg.Passwd, dbcfg.Name, dbcfg.Port)
		}
		dial = postgres.Open(dsn)
	default:
		dbfile := dbcfg.Name
		if dbfile == "" {
			dbfile = "gamestore.db"
		}
		if !filepath.IsAbs(dbfile) && workdir != "" {
			_ = os.MkdirAll(workdir, 0o755)
			dbfile = filepath.Join(workdir, dbfile)
		}
		dial = sqlite.Open(dbfile)
	}

	db, err := gorm.Open(dial, gormCfg)
	if err != nil {
		zap.S().Panicf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		zap.S().Panicf("failed to fetch database pool: %v", err)
	}
	if dbcfg.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(dbcfg.MaxConn)
	}
	if dbcfg.IdleConn > 0 {
		sqlDB.SetMaxIdleConns(dbcfg.IdleConn)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db
}
