package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Freeeeeet/timeslot_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/timeslot_bot/internal/controller/callbacks/keyboard"
	"github.com/Freeeeeet/timeslot_bot/internal/controller/state"
	"github.com/Freeeeeet/timeslot_bot/internal/model"
	"github.com/Freeeeeet/timeslot_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleBook /book [id]. Без ID показывает доступные слоты, с ID начинает
// диалог записи.
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID

	slotID := service.NormalizeID(commandArgs(update.Message))
	if slotID == "" {
		h.showOpenTimeslots(ctx, b, chatID, telegramID)
		return
	}

	h.StartBooking(ctx, b, chatID, telegramID, slotID)
}

// StartBooking проверяет предусловия и спрашивает GoT username.
// Вызывается и из /book, и из inline кнопки.
func (h *Handlers) StartBooking(ctx context.Context, b *bot.Bot, chatID, telegramID int64, slotID string) {
	hasBooking, err := h.timeslotService.HasOpenBooking(ctx, telegramID)
	if err != nil {
		h.log(ctx).Error("Failed to check booking", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}
	if hasBooking {
		h.sendMessage(ctx, b, chatID, textAlreadyBooked)
		return
	}

	exists, err := h.timeslotService.Exists(ctx, slotID)
	if err != nil {
		h.log(ctx).Error("Failed to check timeslot", zap.String("timeslot_id", slotID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}
	if !exists {
		h.sendMessage(ctx, b, chatID, textSlotNotExists)
		return
	}

	available, err := h.timeslotService.IsAvailable(ctx, slotID)
	if err != nil {
		h.log(ctx).Error("Failed to check timeslot", zap.String("timeslot_id", slotID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}
	if !available {
		h.sendMessage(ctx, b, chatID, textSlotTaken)
		return
	}

	if pruned := h.stateManager.Prune(); pruned > 0 {
		h.log(ctx).Debug("Stale dialogs pruned", zap.Int("count", pruned))
	}
	h.stateManager.Begin(telegramID, slotID)

	h.log(ctx).Info("Booking dialog started",
		zap.Int64("telegram_id", telegramID),
		zap.String("timeslot_id", slotID))

	h.sendMessage(ctx, b, chatID, fmt.Sprintf(textAskGotUsername, html.EscapeString(slotID)))
}

// handleGotUsernameStep обрабатывает ввод GoT username
func (h *Handlers) handleGotUsernameStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID

	username, err := validateUsername(update.Message.Text, true)
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}

	if !h.stateManager.SetGotUsername(telegramID, username) {
		// Диалог успели отменить или он устарел
		return
	}

	markup := keyboard.NewBuilder().
		Row(keyboard.Button("⏭ Skip", callbacks.SkipMeta)).
		Build()

	h.sendWithMarkup(ctx, b, chatID, fmt.Sprintf(textAskMetaUsername, html.EscapeString(username)), markup)
}

// handleMetaUsernameStep обрабатывает ввод Meta username и завершает запись
func (h *Handlers) handleMetaUsernameStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	meta, err := validateUsername(update.Message.Text, false)
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}

	h.finishBooking(ctx, b, chatID, update.Message.From.ID, meta)
}

// HandleSkip /skip - запись без Meta username
func (h *Handlers) HandleSkip(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	h.SkipMeta(ctx, b, update.Message.Chat.ID, update.Message.From.ID)
}

// SkipMeta завершает запись с пустым Meta username
func (h *Handlers) SkipMeta(ctx context.Context, b *bot.Bot, chatID, telegramID int64) {
	if h.stateManager.GetState(telegramID) != state.StateBookingMetaUsername {
		h.sendMessage(ctx, b, chatID, "❌ Nothing to skip.")
		return
	}

	h.finishBooking(ctx, b, chatID, telegramID, "")
}

func (h *Handlers) finishBooking(ctx context.Context, b *bot.Bot, chatID, telegramID int64, meta string) {
	dialog, ok := h.stateManager.Take(telegramID)
	if !ok {
		return
	}

	slot, err := h.timeslotService.Book(ctx, dialog.SlotID, model.Booking{
		UserID:       telegramID,
		GotUsername:  dialog.GotUsername,
		MetaUsername: meta,
	})
	if err != nil {
		if isPreconditionError(err) {
			h.log(ctx).Info("Booking rejected",
				zap.Int64("telegram_id", telegramID),
				zap.String("timeslot_id", dialog.SlotID),
				zap.Error(err))
		} else {
			h.log(ctx).Error("Failed to book timeslot",
				zap.Int64("telegram_id", telegramID),
				zap.String("timeslot_id", dialog.SlotID),
				zap.Error(err))
		}
		h.sendError(ctx, b, chatID, err)
		return
	}

	loc := h.viewerLocation(ctx, telegramID)
	h.sendMessage(ctx, b, chatID, "✅ Timeslot booked successfully.\n"+RenderTimeslot(*slot, loc))

	h.notifyBooked(ctx, b, *slot)
}

// notifyBooked уведомление в служебный чат, если он настроен
func (h *Handlers) notifyBooked(ctx context.Context, b *bot.Bot, slot model.Timeslot) {
	if h.cfg.NotifyChatID == 0 {
		return
	}

	h.sendMessage(ctx, b, h.cfg.NotifyChatID, "📣 Timeslot booked:\n"+RenderTimeslot(slot, time.UTC))
}

func validateUsername(text string, required bool) (string, error) {
	username := strings.TrimSpace(text)
	if username == "" && required {
		return "", service.ErrEmptyUsername
	}
	if utf8.RuneCountInString(username) > UsernameMaxLength {
		return "", ErrUsernameTooLong
	}
	return username, nil
}

func isPreconditionError(err error) bool {
	return errors.Is(err, service.ErrSlotUnavailable) ||
		errors.Is(err, service.ErrAlreadyBooked) ||
		errors.Is(err, service.ErrEmptyUsername)
}
