package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = ".env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Env       string `validate:"oneof=local dev prod"`
	DB        db
	Server    server
	Auth      auth
	Logger    logger
	SeedAdmin bool
}

type db struct {
	Storage     string `validate:"oneof=memory postgres"`
	DatabaseURI string `validate:"required_if=Storage postgres"`
}

type server struct {
	RunAddress string `validate:"required,hostname_port"`
}

type auth struct {
	APISecretKey string `validate:"required,min=8"`
}

type logger struct {
	LogLevel string `validate:"omitempty,oneof=debug info warn error"`
	LogFile  string
}

// MustLoad загружает конфигурацию сервера и паникует, если она невалидна
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}
	return cfg
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("load %s: %w", envPath, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", EnvLocal)
	v.SetDefault("RUN_ADDRESS", "localhost:8080")
	v.SetDefault("STORAGE", StorageMemory)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SEED_ADMIN", true)

	cfg := &Config{
		Env: v.GetString("APP_ENV"),
		DB: db{
			Storage:     v.GetString("STORAGE"),
			DatabaseURI: v.GetString("DATABASE_URI"),
		},
		Server: server{RunAddress: v.GetString("RUN_ADDRESS")},
		Auth:   auth{APISecretKey: v.GetString("API_SECRET_KEY")},
		Logger: logger{
			LogLevel: v.GetString("LOG_LEVEL"),
			LogFile:  v.GetString("LOG_FILE"),
		},
		SeedAdmin: v.GetBool("SEED_ADMIN"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}

func (c *Config) IsDev() bool {
	return c.Env == EnvDev
}

func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal || c.Env == ""
}
