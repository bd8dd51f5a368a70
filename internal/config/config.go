package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	AppName string
	AppEnv  string
	AppPort string

	DB       DBConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Auth     AuthConfig
	Routes   RoutesConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host          string
	Port          string
	RedisPassword string
	RedisDB       string
}

type RabbitMQConfig struct {
	URL string
}

type AuthConfig struct {
	Secret    string
	SignupTTL time.Duration
	SigninTTL time.Duration
}

// RoutesConfig selects which shape of the user route group is mounted.
// UserDeleteMode is either "self" (authenticated, deletes the caller) or
// "admin" (unauthenticated, deletes the id given in the request body).
type RoutesConfig struct {
	UserDeleteMode string
}

const (
	UserDeleteSelf  = "self"
	UserDeleteAdmin = "admin"
)

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	return &Config{
		AppName: os.Getenv("APP_NAME"),
		AppEnv:  os.Getenv("APP_ENV"),
		AppPort: getEnv("APP_PORT", "3000"),

		DB: DBConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  os.Getenv("DB_SSLMODE"),
		},

		Redis: RedisConfig{
			Host:          os.Getenv("REDIS_HOST"),
			Port:          os.Getenv("REDIS_PORT"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       os.Getenv("REDIS_DB"),
		},

		RabbitMQ: RabbitMQConfig{
			URL: os.Getenv("RABBITMQ_URL"),
		},

		Auth: AuthConfig{
			Secret:    os.Getenv("SECRET"),
			SignupTTL: getDurationEnv("SIGNUP_TOKEN_TTL", 3*time.Hour),
			SigninTTL: getDurationEnv("SIGNIN_TOKEN_TTL", 2*time.Hour),
		},

		Routes: RoutesConfig{
			UserDeleteMode: getEnv("USER_DELETE_MODE", UserDeleteSelf),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		logrus.WithField("key", key).Warnf("Invalid duration %q, using default %s", v, fallback)
		return fallback
	}
	return d
}
