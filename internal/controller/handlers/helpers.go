package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/Freeeeeet/timeslot_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireInstructor проверяет, что пользователю доступно управление слотами
func (h *Handlers) requireInstructor(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	userID := update.Message.From.ID
	if h.cfg.IsInstructor(userID) {
		return true
	}

	h.log(ctx).Warn("Instructor command rejected", zap.Int64("telegram_id", userID))
	h.sendError(ctx, b, update.Message.Chat.ID, ErrNotInstructor)
	return false
}

// viewerLocation зона, в которой пользователь видит время; UTC, если не задана
func (h *Handlers) viewerLocation(ctx context.Context, userID int64) *time.Location {
	loc, err := h.preferenceService.Location(ctx, userID)
	if err == nil {
		return loc
	}
	if !errors.Is(err, service.ErrTimezoneNotSet) {
		h.log(ctx).Error("Failed to get timezone",
			zap.Int64("telegram_id", userID),
			zap.Error(err))
	}
	return time.UTC
}

// sendError отправляет текст из ErrorMessage
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	h.sendMessage(ctx, b, chatID, ErrorMessage(err))
}

// sendMessage отправляет HTML-сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.sendWithMarkup(ctx, b, chatID, text, nil)
}

func (h *Handlers) sendWithMarkup(ctx context.Context, b *bot.Bot, chatID int64, text string, markup *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		h.log(ctx).Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// log логгер запроса с request_id, если его положил middleware
func (h *Handlers) log(ctx context.Context) *zap.Logger {
	return LoggerFromContext(ctx, h.logger)
}
