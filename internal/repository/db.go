package repository

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"efi_checklist/internal/model"

	slogGorm "github.com/orandin/slog-gorm" // slogGormはエイリアス
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const sqliteURLPrefix = "sqlite://"

// NewDB は GORM の接続を作成します。
// "sqlite://<path>" 形式の URL はローカル SQLite、それ以外は Postgres DSN として扱います。
func NewDB(databaseURL string, appLogger *slog.Logger) (*gorm.DB, error) {
	if appLogger == nil {
		appLogger = slog.Default()
	}

	// APP_ENV によって GORM のログレベルを切り替え
	var gormLogLevel gormlogger.LogLevel
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		gormLogLevel = gormlogger.Info
	} else {
		gormLogLevel = gormlogger.Warn
	}

	slogGormLogger := slogGorm.New(
		slogGorm.WithHandler(appLogger.Handler()),
		slogGorm.WithTraceAll(),
		slogGorm.WithSlowThreshold(500*time.Millisecond),
	)

	dialector, isSQLite := openDialector(databaseURL)
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: slogGormLogger.LogMode(gormLogLevel),
	})
	if err != nil {
		appLogger.Error("Failed to connect to database with GORM", slog.Any("error", err))
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		return nil, err
	}

	if err = sqlDB.Ping(); err != nil {
		appLogger.Error("Error pinging database", slog.Any("error", err))
		sqlDB.Close()
		return nil, err
	}

	// コネクションプールの設定
	if isSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	appLogger.Info("Database connection established with GORM", slog.Bool("sqlite", isSQLite))
	return db, nil
}

// AutoMigrate creates or updates the tables this service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Profile{})
}

func openDialector(databaseURL string) (gorm.Dialector, bool) {
	if strings.HasPrefix(databaseURL, sqliteURLPrefix) {
		return sqlite.Open(strings.TrimPrefix(databaseURL, sqliteURLPrefix)), true
	}
	return postgres.Open(databaseURL), false
}
