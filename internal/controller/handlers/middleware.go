package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type loggerKey struct{}

// WithLogger кладёт логгер запроса в контекст
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFromContext логгер запроса или fallback
func LoggerFromContext(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return logger
	}
	return fallback
}

// UpdateUserID автор апдейта; 0 если апдейт не от пользователя
func UpdateUserID(update *models.Update) int64 {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID
	case update.EditedMessage != nil && update.EditedMessage.From != nil:
		return update.EditedMessage.From.ID
	default:
		return 0
	}
}

// LoggingMiddleware присваивает апдейту request_id и логирует обработку
func LoggingMiddleware(logger *zap.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			requestLogger := logger.With(
				zap.String("request_id", uuid.NewString()),
				zap.Int64("update_id", update.ID),
				zap.Int64("telegram_id", UpdateUserID(update)),
			)

			started := time.Now()
			next(WithLogger(ctx, requestLogger), b, update)

			requestLogger.Debug("Update handled", zap.Duration("duration", time.Since(started)))
		}
	}
}

// limiterIdleTTL лимитеры неактивных пользователей удаляются
const limiterIdleTTL = 10 * time.Minute

// RateLimiter token bucket на каждого пользователя
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*userLimiter
	limit    rate.Limit
	burst    int
	now      func() time.Time
	lastGC   time.Time
}

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[int64]*userLimiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow true, если пользователь не превысил лимит
func (rl *RateLimiter) Allow(userID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastGC) > limiterIdleTTL {
		for id, ul := range rl.limiters {
			if now.Sub(ul.lastSeen) > limiterIdleTTL {
				delete(rl.limiters, id)
			}
		}
		rl.lastGC = now
	}

	ul, ok := rl.limiters[userID]
	if !ok {
		ul = &userLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[userID] = ul
	}
	ul.lastSeen = now

	return ul.limiter.AllowN(now, 1)
}

// Size количество отслеживаемых пользователей
func (rl *RateLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// RateLimitMiddleware отбрасывает апдейты пользователей сверх лимита
func RateLimitMiddleware(limiter *RateLimiter, logger *zap.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			userID := UpdateUserID(update)
			if userID != 0 && !limiter.Allow(userID) {
				LoggerFromContext(ctx, logger).Warn("Rate limit exceeded, update dropped",
					zap.Int64("telegram_id", userID))
				return
			}
			next(ctx, b, update)
		}
	}
}
