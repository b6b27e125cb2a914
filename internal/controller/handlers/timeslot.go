package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/timeslot_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/timeslot_bot/internal/controller/callbacks/keyboard"
	"github.com/Freeeeeet/timeslot_bot/internal/model"
	"github.com/Freeeeeet/timeslot_bot/internal/service"
	"github.com/Freeeeeet/timeslot_bot/internal/timeparse"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleTimeslotAdd /timeslot_add <HH:MM | DATE HH:MM>
func (h *Handlers) HandleTimeslotAdd(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	if !h.requireInstructor(ctx, b, update) {
		return
	}

	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID

	loc, err := h.preferenceService.Location(ctx, telegramID)
	if err != nil {
		if !errors.Is(err, service.ErrTimezoneNotSet) {
			h.log(ctx).Error("Failed to get timezone", zap.Int64("telegram_id", telegramID), zap.Error(err))
		}
		h.sendError(ctx, b, chatID, err)
		return
	}

	monthFirst, err := h.preferenceService.IsMonthFirst(ctx, telegramID)
	if err != nil {
		h.log(ctx).Error("Failed to get locale", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}

	start, err := timeparse.Parse(commandArgs(update.Message), loc, monthFirst, h.now())
	if err != nil {
		formats := timeparse.Formats(monthFirst)
		h.sendMessage(ctx, b, chatID, fmt.Sprintf(
			"%s Please use either <code>%s</code> or <code>%s</code>. You can leave out the ':' if you want.",
			ErrorMessage(err), formats[0], formats[1]))
		return
	}

	slot := model.Timeslot{
		ID:           service.GenerateID(),
		Time:         start.Unix(),
		InstructorID: telegramID,
	}

	if err := h.timeslotService.Add(ctx, slot); err != nil {
		h.log(ctx).Error("Failed to add timeslot", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, "✅ Timeslot added:\n"+RenderTimeslot(slot, loc))
}

// HandleTimeslotList /timeslot_list [user] - все слоты или слоты одного инструктора
func (h *Handlers) HandleTimeslotList(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	if !h.requireInstructor(ctx, b, update) {
		return
	}

	chatID := update.Message.Chat.ID
	args := commandArgs(update.Message)

	var (
		slots []model.Timeslot
		err   error
	)
	if instructorID, ok := TargetUser(update.Message, args); ok {
		slots, err = h.timeslotService.ListByInstructor(ctx, instructorID)
	} else if args != "" {
		h.sendError(ctx, b, chatID, ErrUserNotSpecified)
		return
	} else {
		slots, err = h.timeslotService.List(ctx)
	}
	if err != nil {
		h.log(ctx).Error("Failed to list timeslots", zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}

	if len(slots) == 0 {
		h.sendMessage(ctx, b, chatID, textNoTimeslots)
		return
	}

	model.SortByTime(slots)
	loc := h.viewerLocation(ctx, update.Message.From.ID)

	h.sendMessage(ctx, b, chatID, "🗓 Timeslots:\n"+RenderTimeslots(slots, loc))
}

// HandleTimeslotRemove /timeslot_remove <id>
func (h *Handlers) HandleTimeslotRemove(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	if !h.requireInstructor(ctx, b, update) {
		return
	}

	chatID := update.Message.Chat.ID
	id := service.NormalizeID(commandArgs(update.Message))
	if id == "" {
		h.sendError(ctx, b, chatID, ErrMissingArgument)
		return
	}

	removed, err := h.timeslotService.Remove(ctx, id)
	if err != nil {
		h.log(ctx).Error("Failed to remove timeslot", zap.String("timeslot_id", id), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}
	if removed == 0 {
		h.sendError(ctx, b, chatID, service.ErrSlotNotFound)
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Timeslot <code>%s</code> removed.", html.EscapeString(id)))
}

// HandleTimeslots /timeslots - свободные слоты инструкторов, разрешивших
// пользователю запись
func (h *Handlers) HandleTimeslots(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	h.showOpenTimeslots(ctx, b, update.Message.Chat.ID, update.Message.From.ID)
}

func (h *Handlers) showOpenTimeslots(ctx context.Context, b *bot.Bot, chatID, telegramID int64) {
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

	slots, err := h.timeslotService.ListOpenVisibleTo(ctx, telegramID)
	if err != nil {
		h.log(ctx).Error("Failed to list open timeslots", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}
	if len(slots) == 0 {
		h.sendMessage(ctx, b, chatID, textNoTimeslots)
		return
	}

	model.SortByTime(slots)
	loc := h.viewerLocation(ctx, telegramID)

	buttons := make([]models.InlineKeyboardButton, 0, len(slots))
	for _, slot := range slots {
		label := fmt.Sprintf("📅 %s", slot.StartTime(loc).Format("02.01 15:04"))
		buttons = append(buttons, keyboard.Button(label, callbacks.BookData(slot.ID)))
	}
	markup := keyboard.NewBuilder().Grid(buttons, keyboard.SlotButtonsPerRow).Build()

	var sb strings.Builder
	sb.WriteString("🗓 Timeslots:\n")
	sb.WriteString(RenderTimeslots(slots, loc))
	sb.WriteString("\n\nTap a button or use /book &lt;id&gt;")

	h.sendWithMarkup(ctx, b, chatID, sb.String(), markup)
}
