package handlers

import (
	"context"
	"fmt"
	"html"

	"github.com/Freeeeeet/timeslot_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 <b>Commands</b>\n\n" +
	"<b>Settings</b>\n" +
	"/set_timezone &lt;zone&gt; - set your timezone, e.g. Europe/Berlin\n" +
	"/set_locale &lt;country&gt; - set your locale, decides DD/MM or MM/DD\n\n" +
	"<b>Booking</b>\n" +
	"/timeslots - timeslots open for you\n" +
	"/book [id] - book a timeslot\n" +
	"/cancel - abort the current booking\n\n" +
	"<b>Instructors</b>\n" +
	"/timeslot_add &lt;HH:MM | DATE HH:MM&gt; - add a timeslot\n" +
	"/timeslot_list [user] - list timeslots\n" +
	"/timeslot_remove &lt;id&gt; - remove a timeslot\n" +
	"/timmie_add &lt;user&gt; - allow a user to book your timeslots\n" +
	"/timmie_remove &lt;user&gt; - revoke it\n" +
	"/timmie_list [user] - list timmies\n\n" +
	"A user is given by replying to their message, by a mention or by numeric id."

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Hi, %s!\n\nThis bot books timeslots with instructors.\n\n%s",
		html.EscapeString(update.Message.From.FirstName),
		helpText,
	)

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Nothing to cancel.")
		return
	}

	h.stateManager.ClearState(telegramID)

	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Booking cancelled.")
}

// HandleTextMessage обрабатывает текст вне команд: шаги диалога записи
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	// Незнакомые команды не должны попадать в диалог
	if _, _, isCommand := ParseCommand(update.Message.Text); isCommand {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	switch currentState {
	case state.StateBookingGotUsername:
		h.handleGotUsernameStep(ctx, b, update)
	case state.StateBookingMetaUsername:
		h.handleMetaUsernameStep(ctx, b, update)
	default:
		h.log(ctx).Debug("No active dialog, ignoring message",
			zap.Int64("telegram_id", telegramID))
	}
}
