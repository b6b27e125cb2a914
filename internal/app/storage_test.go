package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Freeeeeet/timeslot_bot/internal/config"
	"github.com/Freeeeeet/timeslot_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenFileStorage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := &config.Config{Storage: config.StorageFile, DataDir: dir}

	storage, err := OpenStorage(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer storage.Close()

	slot := model.Timeslot{ID: "abcde", Time: time.Now().Unix(), InstructorID: 7}
	require.NoError(t, storage.Timeslots.Mutate(ctx, func(slots *[]model.Timeslot) error {
		*slots = append(*slots, slot)
		return nil
	}))
	require.NoError(t, storage.Delegates.Mutate(ctx, func(grants *model.DelegateGrants) error {
		(*grants)[1] = []int64{7}
		return nil
	}))

	for _, name := range []string{"timeslots.json", "timmie.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	reopened, err := OpenStorage(ctx, cfg, zap.NewNop())
	require.NoError(t, err)

	slots, err := reopened.Timeslots.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Timeslot{slot}, slots)

	prefs, err := reopened.Preferences.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, prefs)
}

func TestOpenFileStorageReadsLegacyFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	legacy := `[
  {"id": "aB3x9", "time": 1717243200.0, "instructor": 42, "booking": {}},
  {"id": "Zk7Qp", "time": 1717246800.5, "instructor": 42,
   "booking": {"user_id": 99, "got_username": "ghost", "meta_username": ""}}
]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "timeslots.json"), []byte(legacy), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "timmie.json"), []byte(`{"99": [42]}`), 0o644))

	storage, err := OpenStorage(ctx, &config.Config{Storage: config.StorageFile, DataDir: dir}, zap.NewNop())
	require.NoError(t, err)

	slots, err := storage.Timeslots.Read(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.True(t, slots[0].IsOpen())
	assert.Equal(t, int64(1717246800), slots[1].Time)
	require.NotNil(t, slots[1].Booking)
	assert.Equal(t, "ghost", slots[1].Booking.GotUsername)

	grants, err := storage.Delegates.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DelegateGrants{99: {42}}, grants)
}

func TestOpenStorageUnknownBackend(t *testing.T) {
	_, err := OpenStorage(context.Background(), &config.Config{Storage: "sqlite"}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		logger, err := NewLogger(env)
		require.NoError(t, err, env)
		assert.NotNil(t, logger)
	}
}
