package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE", "")
	t.Setenv("INSTRUCTOR_IDS", "")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, StorageFile, cfg.Storage)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Zero(t, cfg.NotifyChatID)
	assert.Empty(t, cfg.InstructorIDs)
	assert.Equal(t, 2.0, cfg.RateLimitPerSec)
	assert.Equal(t, 5, cfg.RateLimitBurst)
	assert.True(t, cfg.IsInstructor(12345), "empty allowlist lets everyone manage")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("STORAGE", "POSTGRES")
	t.Setenv("DB_DSN", "postgres://bot@localhost/bot")
	t.Setenv("NOTIFY_CHAT_ID", "-1001234567890")
	t.Setenv("INSTRUCTOR_IDS", " 11, 22 ,,33")
	t.Setenv("RATE_LIMIT_PER_SEC", "0.5")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, "postgres://bot@localhost/bot", cfg.GetDBDSN())
	assert.Equal(t, int64(-1001234567890), cfg.NotifyChatID)
	assert.Equal(t, []int64{11, 22, 33}, cfg.InstructorIDs)
	assert.Equal(t, 0.5, cfg.RateLimitPerSec)

	assert.True(t, cfg.IsInstructor(22))
	assert.False(t, cfg.IsInstructor(44))
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad instructor id", env: map[string]string{"INSTRUCTOR_IDS": "11,abc"}},
		{name: "unknown storage", env: map[string]string{"STORAGE": "redis"}},
		{name: "postgres without dsn", env: map[string]string{"STORAGE": "postgres", "DB_DSN": ""}},
		{name: "zero rate", env: map[string]string{"RATE_LIMIT_PER_SEC": "0"}},
		{name: "zero burst", env: map[string]string{"RATE_LIMIT_BURST": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STORAGE", "file")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(viper.New())
			assert.Error(t, err)
		})
	}
}
