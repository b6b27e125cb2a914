package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Freeeeeet/timeslot_bot/internal/config"
	"github.com/Freeeeeet/timeslot_bot/internal/model"
	"github.com/Freeeeeet/timeslot_bot/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Storage три независимые коллекции бота
type Storage struct {
	Timeslots   repository.Document[[]model.Timeslot]
	Delegates   repository.Document[model.DelegateGrants]
	Preferences repository.Document[model.UserPreferences]

	pool *pgxpool.Pool
}

// OpenStorage открывает хранилище, выбранное в конфиге. Для postgres
// сначала применяются миграции.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		return openPostgresStorage(ctx, cfg.DBDSN, logger)
	case config.StorageFile:
		return openFileStorage(cfg.DataDir, logger)
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

func openFileStorage(dir string, logger *zap.Logger) (*Storage, error) {
	timeslots, err := repository.NewFileDocument(
		filepath.Join(dir, repository.CollectionTimeslots+".json"), []model.Timeslot{})
	if err != nil {
		return nil, err
	}
	delegates, err := repository.NewFileDocument(
		filepath.Join(dir, repository.CollectionDelegates+".json"), model.DelegateGrants{})
	if err != nil {
		return nil, err
	}
	preferences, err := repository.NewFileDocument(
		filepath.Join(dir, repository.CollectionPreferences+".json"), model.UserPreferences{})
	if err != nil {
		return nil, err
	}

	logger.Info("✅ File storage opened", zap.String("data_dir", dir))

	return &Storage{
		Timeslots:   timeslots,
		Delegates:   delegates,
		Preferences: preferences,
	}, nil
}

func openPostgresStorage(ctx context.Context, dsn string, logger *zap.Logger) (*Storage, error) {
	pool, err := OpenPool(ctx, dsn)
	if err != nil {
		return nil, err
	}

	migrator, err := NewMigrator(pool, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	defer migrator.Close()

	if err := migrator.Up(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("✅ Postgres storage opened")

	return &Storage{
		Timeslots:   repository.NewPostgresDocument(pool, repository.CollectionTimeslots, []model.Timeslot{}),
		Delegates:   repository.NewPostgresDocument(pool, repository.CollectionDelegates, model.DelegateGrants{}),
		Preferences: repository.NewPostgresDocument(pool, repository.CollectionPreferences, model.UserPreferences{}),
		pool:        pool,
	}, nil
}

// OpenPool подключается к базе и проверяет соединение
func OpenPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Close освобождает соединения с базой, если они есть
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
