package callbacks

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// StartBookingFunc начинает запись пользователя userID на слот
type StartBookingFunc func(ctx context.Context, b *bot.Bot, chatID, userID int64, slotID string)

// SkipMetaFunc завершает запись без Meta username
type SkipMetaFunc func(ctx context.Context, b *bot.Bot, chatID, userID int64)

// Handler маршрутизирует нажатия inline кнопок
type Handler struct {
	logger       *zap.Logger
	startBooking StartBookingFunc
	skipMeta     SkipMetaFunc
}

func NewHandler(logger *zap.Logger, startBooking StartBookingFunc, skipMeta SkipMetaFunc) *Handler {
	return &Handler{
		logger:       logger,
		startBooking: startBooking,
		skipMeta:     skipMeta,
	}
}

// HandleCallbackQuery главный обработчик callback query
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	// Telegram ждёт ответа на любой callback, иначе кнопка "висит"
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callback.ID,
	})
	if err != nil {
		h.logger.Warn("Failed to answer callback", zap.Error(err))
	}

	userID := callback.From.ID
	chatID := userID
	if callback.Message.Message != nil {
		chatID = callback.Message.Message.Chat.ID
	}

	data := callback.Data
	switch {
	case data == SkipMeta:
		h.skipMeta(ctx, b, chatID, userID)
	default:
		slotID, ok := ParseBookData(data)
		if !ok {
			h.logger.Warn("Unknown callback data",
				zap.Int64("telegram_id", userID),
				zap.String("data", data))
			return
		}
		h.startBooking(ctx, b, chatID, userID, slotID)
	}
}
