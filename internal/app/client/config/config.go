package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/sppgdatasystem/bgn/internal/domain/sync"
)

const (
	defaultEnv      = "local"
	defaultLogLevel = "info"
	defaultDataDir  = ".sppg"

	DriverSQLite   = "sqlite"
	DriverJSONFile = "jsonfile"
	DriverMemory   = "memory"
)

type Config struct {
	Env          string `validate:"oneof=local dev prod"`
	RemoteURL    string `validate:"omitempty,url"`
	APIKey       string
	StoreDriver  string `validate:"oneof=sqlite jsonfile memory"`
	DataDir      string `validate:"required_unless=StoreDriver memory"`
	SyncInterval int    `validate:"min=5"`
	PullTimeout  int    `validate:"min=1"`
	PushTimeout  int    `validate:"min=1"`
	LockTTL      int    `validate:"min=1"`
	LogLevel     string `validate:"omitempty,oneof=debug info warn error"`
}

// MustLoad загружает конфигурацию клиента и паникует, если она невалидна
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}
	return cfg
}

// Load читает .env (текущая или родительская директория) и переменные окружения
func Load() (*Config, error) {
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("load %s: %w", envPath, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", defaultEnv)
	v.SetDefault("STORE_DRIVER", DriverSQLite)
	v.SetDefault("DATA_DIR", defaultDataDir)
	v.SetDefault("SYNC_INTERVAL_SECONDS", 30)
	v.SetDefault("PULL_TIMEOUT_SECONDS", 30)
	v.SetDefault("PUSH_TIMEOUT_SECONDS", 5)
	v.SetDefault("LOCK_TTL_MINUTES", 30)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)

	// относительный каталог по умолчанию живет в домашней директории
	dataDir := v.GetString("DATA_DIR")
	if dataDir == defaultDataDir {
		if home, err := os.UserHomeDir(); err == nil {
			dataDir = filepath.Join(home, dataDir)
		}
	}

	cfg := &Config{
		Env:          v.GetString("APP_ENV"),
		RemoteURL:    v.GetString("REMOTE_URL"),
		APIKey:       v.GetString("API_KEY"),
		StoreDriver:  v.GetString("STORE_DRIVER"),
		DataDir:      dataDir,
		SyncInterval: v.GetInt("SYNC_INTERVAL_SECONDS"),
		PullTimeout:  v.GetInt("PULL_TIMEOUT_SECONDS"),
		PushTimeout:  v.GetInt("PUSH_TIMEOUT_SECONDS"),
		LockTTL:      v.GetInt("LOCK_TTL_MINUTES"),
		LogLevel:     v.GetString("LOG_LEVEL"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Sync параметры движка синхронизации
func (c *Config) Sync() sync.Config {
	cfg := sync.DefaultConfig()
	cfg.Interval = time.Duration(c.SyncInterval) * time.Second
	cfg.PullTimeout = time.Duration(c.PullTimeout) * time.Second
	cfg.PushTimeout = time.Duration(c.PushTimeout) * time.Second
	return cfg
}

func (c *Config) LockTTLDuration() time.Duration {
	return time.Duration(c.LockTTL) * time.Minute
}

func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "sppg.db")
}

func (c *Config) TablesDir() string {
	return filepath.Join(c.DataDir, "tables")
}

func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}
