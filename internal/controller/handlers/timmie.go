package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleTimmieAdd /timmie_add <user> - разрешает пользователю запись на
// слоты вызывающего инструктора
func (h *Handlers) HandleTimmieAdd(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	if !h.requireInstructor(ctx, b, update) {
		return
	}

	chatID := update.Message.Chat.ID
	instructorID := update.Message.From.ID

	timmieID, ok := TargetUser(update.Message, commandArgs(update.Message))
	if !ok {
		h.sendError(ctx, b, chatID, ErrUserNotSpecified)
		return
	}

	if err := h.delegateService.Authorize(ctx, timmieID, instructorID); err != nil {
		h.log(ctx).Error("Failed to add timmie",
			zap.Int64("timmie_id", timmieID),
			zap.Int64("instructor_id", instructorID),
			zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Timmie %s added for %s.", UserLink(timmieID), UserLink(instructorID)))
}

// HandleTimmieRemove /timmie_remove <user>
func (h *Handlers) HandleTimmieRemove(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	if !h.requireInstructor(ctx, b, update) {
		return
	}

	chatID := update.Message.Chat.ID
	instructorID := update.Message.From.ID

	timmieID, ok := TargetUser(update.Message, commandArgs(update.Message))
	if !ok {
		h.sendError(ctx, b, chatID, ErrUserNotSpecified)
		return
	}

	if err := h.delegateService.Revoke(ctx, timmieID, instructorID); err != nil {
		h.log(ctx).Error("Failed to remove timmie",
			zap.Int64("timmie_id", timmieID),
			zap.Int64("instructor_id", instructorID),
			zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Timmie %s removed for %s.", UserLink(timmieID), UserLink(instructorID)))
}

// HandleTimmieList /timmie_list [user] - timmie инструктора, по умолчанию
// вызывающего
func (h *Handlers) HandleTimmieList(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	if !h.requireInstructor(ctx, b, update) {
		return
	}

	chatID := update.Message.Chat.ID
	args := commandArgs(update.Message)

	instructorID, ok := TargetUser(update.Message, args)
	if !ok {
		if args != "" {
			h.sendError(ctx, b, chatID, ErrUserNotSpecified)
			return
		}
		instructorID = update.Message.From.ID
	}

	timmies, err := h.delegateService.DelegatesOf(ctx, instructorID)
	if err != nil {
		h.log(ctx).Error("Failed to list timmies", zap.Int64("instructor_id", instructorID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}

	if len(timmies) == 0 {
		h.sendMessage(ctx, b, chatID, "📭 You don't have any timmies.")
		return
	}

	h.sendMessage(ctx, b, chatID, "👥 Timmies:\n"+RenderUsers(timmies))
}
