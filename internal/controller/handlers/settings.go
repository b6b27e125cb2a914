package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/timeslot_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleSetTimezone /set_timezone <IANA zone>; без аргумента показывает текущую
func (h *Handlers) HandleSetTimezone(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID
	timezone := commandArgs(update.Message)

	if timezone == "" {
		current, err := h.preferenceService.GetTimezone(ctx, telegramID)
		if err != nil {
			h.log(ctx).Error("Failed to get timezone", zap.Int64("telegram_id", telegramID), zap.Error(err))
			h.sendError(ctx, b, chatID, err)
			return
		}
		if current == "" {
			h.sendMessage(ctx, b, chatID, "🕐 Your timezone is not set.\n\nUsage: /set_timezone Europe/Berlin")
			return
		}
		h.sendMessage(ctx, b, chatID, fmt.Sprintf("🕐 Your timezone is <code>%s</code>.", html.EscapeString(current)))
		return
	}

	name, err := h.preferenceService.SetTimezone(ctx, telegramID, timezone)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidTimezone) {
			h.log(ctx).Error("Failed to set timezone", zap.Int64("telegram_id", telegramID), zap.Error(err))
		}
		h.sendError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Your timezone has been set to <code>%s</code>.", html.EscapeString(name)))
}

// HandleSetLocale /set_locale <country>; при неоднозначном вводе
// показывает подходящие территории
func (h *Handlers) HandleSetLocale(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID
	query := commandArgs(update.Message)

	if query == "" {
		current, err := h.preferenceService.GetLocale(ctx, telegramID)
		if err != nil {
			h.log(ctx).Error("Failed to get locale", zap.Int64("telegram_id", telegramID), zap.Error(err))
			h.sendError(ctx, b, chatID, err)
			return
		}
		if current == "" {
			h.sendMessage(ctx, b, chatID, "🌍 Your locale is not set, dates are read as DD/MM.\n\nUsage: /set_locale United States")
			return
		}
		h.sendMessage(ctx, b, chatID, fmt.Sprintf("🌍 Your locale is <code>%s</code>.", current))
		return
	}

	territory, err := h.preferenceService.SetLocale(ctx, telegramID, query)
	if err != nil {
		if !errors.Is(err, service.ErrUnknownTerritory) {
			h.log(ctx).Error("Failed to set locale", zap.Int64("telegram_id", telegramID), zap.Error(err))
			h.sendError(ctx, b, chatID, err)
			return
		}

		matches := service.FindTerritories(query)
		if len(matches) == 0 {
			h.sendError(ctx, b, chatID, err)
			return
		}

		var sb strings.Builder
		sb.WriteString("🤔 Several locales match, be more specific:\n")
		for _, t := range matches {
			fmt.Fprintf(&sb, "\n- %s (<code>%s</code>)", html.EscapeString(t.Name), t.Code)
		}
		h.sendMessage(ctx, b, chatID, sb.String())
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Your locale has been set to %s (<code>%s</code>).",
		html.EscapeString(territory.Name), territory.Code))
}
