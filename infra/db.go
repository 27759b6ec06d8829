package infra

import (
	"database/sql"
	"fmt"
	"gin-marketplace/logger"
	"gin-marketplace/models"
	"strings"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// sqliteDriverName is go-sqlite3 with LOWER replaced by a Unicode aware version. The
// built-in one only folds ASCII.
const sqliteDriverName = "sqlite3_marketplace"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", strings.ToLower, true)
		},
	})
}

func openSQLite(dsn string) gorm.Dialector {
	return sqlite.New(sqlite.Config{DriverName: sqliteDriverName, DSN: dsn})
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}
}

func SetupDB(cfg *Config) (*gorm.DB, error) {
	// DB_NAMEが設定されている場合はPostgreSQLを使用
	if cfg.Database.Name != "" {
		// 本番環境ではsslmode=require、それ以外はsslmode=disable
		sslmode := "disable"
		if cfg.IsProd() {
			sslmode = "require"
		}

		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s connect_timeout=10",
			cfg.Database.Host,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
			cfg.Database.Port,
			sslmode,
		)

		db, err := gorm.Open(postgres.Open(dsn), gormConfig())
		if err != nil {
			return nil, fmt.Errorf("connect to postgres %s@%s/%s: %w", cfg.Database.User, cfg.Database.Host, cfg.Database.Name, err)
		}
		logger.Log.Info("Setup postgres database", zap.String("host", cfg.Database.Host), zap.String("dbname", cfg.Database.Name))
		return db, nil
	}

	// デフォルトはSQLiteのインメモリ
	db, err := SetupMemoryDB()
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Setup sqlite database (in-memory)")
	return db, nil
}

// SetupMemoryDB opens a private in-memory SQLite database. The pool is pinned to a single
// connection because every new connection to ":memory:" would see an empty database.
func SetupMemoryDB() (*gorm.DB, error) {
	db, err := gorm.Open(openSQLite(":memory:"), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite in-memory: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	return db, nil
}

// SetupSessionDB セッション用のSQLiteデータベース接続を設定
func SetupSessionDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(openSQLite(cfg.Session.DBPath), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open session database %s: %w", cfg.Session.DBPath, err)
	}
	logger.Log.Info("Setup session SQLite database", zap.String("path", cfg.Session.DBPath))
	return db, nil
}

func MigrateMarketplace(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Item{}, &models.CartEntry{}); err != nil {
		return fmt.Errorf("migrate marketplace schema: %w", err)
	}
	return nil
}

func MigrateSessions(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Session{}); err != nil {
		return fmt.Errorf("migrate session schema: %w", err)
	}
	return nil
}
