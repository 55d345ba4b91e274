package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"codetrek/internal/platform/config"
	"codetrek/internal/platform/logger"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

func Connect(ctx context.Context, cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DBConnStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	log.Info("Connected to PostgreSQL", "host", cfg.DBHost, "db", cfg.DBName)
	return db, nil
}
