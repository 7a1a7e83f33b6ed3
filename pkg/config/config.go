package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ListenAddr   string `envconfig:"LISTEN_ADDR" default:":8000"`
	CORSOrigins  string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	JWTSecret    string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpiryHrs int    `envconfig:"JWT_EXPIRY_HOURS" default:"168"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:""`
	DBName     string `envconfig:"DB_NAME" default:"skillswap"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

var (
	once sync.Once
	cfg  Config
	err  error
)

// Load reads .env (if present) and the process environment into Config.
func Load() (Config, error) {
	once.Do(func() {
		_ = godotenv.Load()
		err = envconfig.Process("", &cfg)
	})
	return cfg, err
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}
