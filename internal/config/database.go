package config

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance
var DB *gorm.DB

// ConnectDatabase opens the backend selected by cfg.Database.Driver
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	dialector, target := buildDialector(cfg.Database)

	level := logger.Error
	if cfg.IsDev() {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(level),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	configurePool(sqlDB, cfg.Database.Driver)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	DB = db
	log.Printf("✅ Database connected successfully [%s %s]", cfg.Database.Driver, target)
	return db, nil
}

func configurePool(sqlDB *sql.DB, driver string) {
	if driver == DriverSQLite {
		// one writer; also keeps a shared in-memory database alive
		sqlDB.SetMaxOpenConns(1)
		return
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)
}

// buildDialector returns the gorm dialector and a loggable target without credentials
func buildDialector(d DatabaseConfig) (gorm.Dialector, string) {
	switch d.Driver {
	case DriverPostgres:
		return postgres.Open(d.URL), "DATABASE_URL"
	case DriverMySQL:
		return mysql.Open(buildMySQLDSN(d)), fmt.Sprintf("%s:%s/%s", d.Host, d.Port, d.DBName)
	default:
		if d.SQLitePath != "" {
			return sqlite.Open(d.SQLitePath + "?_foreign_keys=on"), d.SQLitePath
		}
		return sqlite.Open("file:visaconsult?mode=memory&cache=shared&_foreign_keys=on"), "in-memory"
	}
}

// buildMySQLDSN returns the MySQL connection string. clientFoundRows makes
// RowsAffected count matched rows, so an update that rewrites identical
// values is not mistaken for a missing row.
func buildMySQLDSN(d DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.DBName,
	)
}

// CloseDatabase closes the connection opened by ConnectDatabase
func CloseDatabase() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	DB = nil
	return sqlDB.Close()
}
