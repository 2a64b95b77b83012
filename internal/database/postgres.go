package database

import (
	"database/sql"
	"fmt"

	"studysphere-alert/internal/config"

	_ "github.com/lib/pq"
)

// NewPostgresDB PostgreSQL への接続を作る
func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	dsn := cfg.GetDSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// コネクションプール設定
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Close 接続を閉じる
func Close(db *sql.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}
