package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/01moynul/inventory-tracker/internal/config"
	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// OpenDB initializes and returns a connection pool for the configured driver.
func OpenDB(cfg config.Database) (*sql.DB, error) {
	driverName, dsn, err := driverDSN(cfg)
	if err != nil {
		return nil, err
	}

	// 1. Open a new connection pool.
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	// 2. Configure the connection pool settings.
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// 3. Ping the database to verify the connection.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}

	log.Printf("Database connection pool established successfully (%s)", cfg.Driver)
	return db, nil
}

// driverDSN maps the configured driver onto a registered database/sql driver.
// MySQL DSNs are forced to parseTime so created_at scans into time.Time.
func driverDSN(cfg config.Database) (string, string, error) {
	switch cfg.Driver {
	case "mysql":
		myCfg, err := mysql.ParseDSN(cfg.DSN)
		if err != nil {
			return "", "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		myCfg.ParseTime = true
		return "mysql", myCfg.FormatDSN(), nil
	case "postgres":
		return "pgx", cfg.DSN, nil
	}
	return "", "", fmt.Errorf("no sql driver for %q", cfg.Driver)
}
