package database

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	_ "github.com/lib/pq"

	"github.com/rakasatria/skillswap-backend/pkg/config"
)

var DB *sql.DB

func InitDB() (*sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	DB, err = sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("error open connecting: %w", err)
	}

	if err := DB.Ping(); err != nil {
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	logrus.WithFields(logrus.Fields{"event": "db_connected", "db": cfg.DBName}).Info("connected to database")
	return DB, nil
}

func CloseDB() error {
	if DB != nil {
		if err := DB.Close(); err != nil {
			return fmt.Errorf("error closing database connection: %w", err)
		}
		logrus.WithField("event", "db_closed").Info("database connection closed")
	}
	return nil
}
