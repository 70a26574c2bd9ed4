package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/blog/internal/config"
	"github.com/example/blog/internal/models"
)

type Database struct {
	Gorm *gorm.DB
	SQL  *sql.DB
}

// Connect opens a lib/pq pool, verifies it and hands it to gorm.
func Connect(cfg *config.Config) (*Database, error) {
	sqlDB, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return &Database{Gorm: gormDB, SQL: sqlDB}, nil
}

func gormLogLevel(level string) logger.LogLevel {
	if level == "debug" {
		return logger.Info
	}
	return logger.Warn
}

// Migrate creates or updates the users and posts tables.
func (d *Database) Migrate() error {
	if err := d.Gorm.AutoMigrate(&models.User{}, &models.Post{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return d.EnsureCreatedAtIndex()
}

// EnsureCreatedAtIndex backs the newest-first listing.
func (d *Database) EnsureCreatedAtIndex() error {
	return d.Gorm.Exec("CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts (created_at DESC, id DESC);").Error
}

func (d *Database) Close() error {
	if d.SQL != nil {
		return d.SQL.Close()
	}
	return nil
}
