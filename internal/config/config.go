package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ignatzorin/ledger-engine/internal/domain/valueobject"
)

// Хранилища, между которыми выбирает LEDGER_STORAGE.
const (
	StorageMemory   = "memory"
	StorageBolt     = "bolt"
	StoragePostgres = "postgres"
)

// Config хранит все параметры запуска приложения.
type Config struct {
	Env             string
	LogLevel        string
	Storage         string
	BoltPath        string
	DatabaseURL     string
	MigrationsPath  string
	Workers         int
	AmountPrecision int32
	HTTPPort        string
	MaxUploadSizeMB int64
	RateLimitLimit  int64
	RateLimitPeriod time.Duration
	AllowedOrigins  []string
}

// Load читает переменные окружения и возвращает готовую конфигурацию.
func Load() (*Config, error) {
	// Загружаем .env только если он существует, иначе используем системные переменные.
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("config: не удалось прочитать .env: %v", err)
	}

	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Storage:         getEnv("LEDGER_STORAGE", StorageMemory),
		BoltPath:        getEnv("BOLT_PATH", "ledger.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", ""),
		AmountPrecision: valueobject.DefaultPrecision,
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
	}

	var err error
	if cfg.Workers, err = parseInt(getEnv("LEDGER_WORKERS", "1")); err != nil {
		return nil, err
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("config: LEDGER_WORKERS должен быть положительным, получено %d", cfg.Workers)
	}
	if cfg.MaxUploadSizeMB, err = parseInt64(getEnv("MAX_UPLOAD_MB", "10")); err != nil {
		return nil, err
	}
	// Rate limiting настройки
	if cfg.RateLimitLimit, err = parseInt64(getEnv("RATE_LIMIT_LIMIT", "10")); err != nil {
		return nil, err
	}
	if cfg.RateLimitPeriod, err = parseDuration(getEnv("RATE_LIMIT_PERIOD", "1m")); err != nil {
		return nil, err
	}

	cfg.AllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"))

	switch cfg.Storage {
	case StorageMemory, StorageBolt:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("config: DATABASE_URL обязателен для LEDGER_STORAGE=%s", StoragePostgres)
		}
	default:
		return nil, fmt.Errorf("config: неизвестное хранилище LEDGER_STORAGE=%q", cfg.Storage)
	}

	return cfg, nil
}

// IsDevelopment сообщает, включён ли режим разработки.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// getEnv возвращает значение переменной окружения или дефолт.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// splitList разбирает список через запятую, убирая пробелы и пустые элементы.
func splitList(v string) []string {
	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func parseDuration(v string) (time.Duration, error) {
	dur, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: не удалось распарсить длительность %q: %w", v, err)
	}
	return dur, nil
}

func parseInt64(v string) (int64, error) {
	num, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: не удалось распарсить число %q: %w", v, err)
	}
	return num, nil
}

func parseInt(v string) (int, error) {
	num, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: не удалось распарсить число %q: %w", v, err)
	}
	return num, nil
}
