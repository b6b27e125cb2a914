package config

import (
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

type Config struct {
	TelegramToken string
	DBDSN         string
	Environment   string

	Storage string // file | postgres
	DataDir string

	// Куда отправлять уведомления о записи; 0 - не отправлять
	NotifyChatID int64

	// Кому доступны команды timeslot_* и timmie_*; пусто - всем
	InstructorIDs []int64

	RateLimitPerSec float64
	RateLimitBurst  int
}

// SetDefaults регистрирует ключи и значения по умолчанию
func SetDefaults(v *viper.Viper) {
	v.SetDefault("TELEGRAM_TOKEN", "")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("ENV", "development")
	v.SetDefault("STORAGE", StorageFile)
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("NOTIFY_CHAT_ID", 0)
	v.SetDefault("INSTRUCTOR_IDS", "")
	v.SetDefault("RATE_LIMIT_PER_SEC", 2.0)
	v.SetDefault("RATE_LIMIT_BURST", 5)
}

// Load читает .env (если есть), переменные окружения и флаги, привязанные к v
func Load(v *viper.Viper) (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err == nil {
		log.Println("✅ Loaded configuration from .env file")
	}

	SetDefaults(v)
	v.AutomaticEnv()

	instructors, err := parseIDs(v.GetString("INSTRUCTOR_IDS"))
	if err != nil {
		return nil, fmt.Errorf("INSTRUCTOR_IDS: %w", err)
	}

	cfg := &Config{
		TelegramToken:   v.GetString("TELEGRAM_TOKEN"),
		DBDSN:           v.GetString("DB_DSN"),
		Environment:     v.GetString("ENV"),
		Storage:         strings.ToLower(v.GetString("STORAGE")),
		DataDir:         v.GetString("DATA_DIR"),
		NotifyChatID:    v.GetInt64("NOTIFY_CHAT_ID"),
		InstructorIDs:   instructors,
		RateLimitPerSec: v.GetFloat64("RATE_LIMIT_PER_SEC"),
		RateLimitBurst:  v.GetInt("RATE_LIMIT_BURST"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность настроек хранилища и лимитов
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageFile:
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for file storage")
		}
	case StoragePostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required for postgres storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE %q (want %s or %s)", c.Storage, StorageFile, StoragePostgres)
	}

	if c.RateLimitPerSec <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_SEC must be positive")
	}
	if c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1")
	}

	return nil
}

// IsInstructor true, если пользователь может управлять слотами и timmie
func (c *Config) IsInstructor(userID int64) bool {
	if len(c.InstructorIDs) == 0 {
		return true
	}
	return slices.Contains(c.InstructorIDs, userID)
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
