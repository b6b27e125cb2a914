package controller

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/timeslot_bot/internal/config"
	"github.com/Freeeeeet/timeslot_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/timeslot_bot/internal/controller/handlers"
	"github.com/Freeeeeet/timeslot_bot/internal/controller/state"
	"github.com/Freeeeeet/timeslot_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Services ядро, которое вызывают обработчики
type Services struct {
	Timeslots   *service.TimeslotService
	Delegates   *service.DelegateService
	Preferences *service.PreferenceService
}

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

// NewBotController создаёт бота с middleware и регистрирует обработчики.
// opts добавляются после стандартных опций.
func NewBotController(cfg *config.Config, services Services, logger *zap.Logger, opts ...bot.Option) (*BotController, error) {
	// Создаём менеджер состояний
	stateManager := state.NewManager()

	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(
		services.Timeslots,
		services.Delegates,
		services.Preferences,
		stateManager,
		cfg,
		logger,
	)

	callbackHandler := callbacks.NewHandler(logger, cmdHandlers.StartBooking, cmdHandlers.SkipMeta)

	limiter := handlers.NewRateLimiter(cfg.RateLimitPerSec, cfg.RateLimitBurst)

	options := []bot.Option{
		bot.WithMiddlewares(
			handlers.LoggingMiddleware(logger),
			handlers.RateLimitMiddleware(limiter, logger),
		),
		bot.WithDefaultHandler(cmdHandlers.HandleTextMessage),
	}
	options = append(options, opts...)

	b, err := bot.New(cfg.TelegramToken, options...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	c := &BotController{
		bot:             b,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
	c.registerHandlers()

	return c, nil
}

type commandRoute struct {
	name        string
	description string
	handler     bot.HandlerFunc
	menu        bool
}

func (c *BotController) routes() []commandRoute {
	h := c.handlers
	return []commandRoute{
		{"start", "🚀 Start", h.HandleStart, true},
		{"help", "❓ Commands", h.HandleHelp, true},
		{"timeslots", "🗓 Timeslots open for you", h.HandleTimeslots, true},
		{"book", "📝 Book a timeslot", h.HandleBook, true},
		{"skip", "⏭ Skip the Meta username", h.HandleSkip, false},
		{"cancel", "✖️ Abort booking", h.HandleCancel, true},
		{"set_timezone", "🕐 Set your timezone", h.HandleSetTimezone, true},
		{"set_locale", "🌍 Set your locale", h.HandleSetLocale, true},
		{"timeslot_add", "➕ Add a timeslot (instructor)", h.HandleTimeslotAdd, true},
		{"timeslot_list", "📋 List timeslots (instructor)", h.HandleTimeslotList, true},
		{"timeslot_remove", "🗑 Remove a timeslot (instructor)", h.HandleTimeslotRemove, true},
		{"timmie_add", "👤 Add a timmie (instructor)", h.HandleTimmieAdd, true},
		{"timmie_remove", "🚫 Remove a timmie (instructor)", h.HandleTimmieRemove, true},
		{"timmie_list", "👥 List timmies (instructor)", h.HandleTimmieList, true},
	}
}

// registerHandlers регистрирует все обработчики команд
func (c *BotController) registerHandlers() {
	// Команды принимают аргументы и суффикс @bot, поэтому MatchTypeExact не подходит
	for _, route := range c.routes() {
		c.bot.RegisterHandlerMatchFunc(handlers.MatchCommand(route.name), route.handler)
	}

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Остальной текст (шаги диалога) попадает в default handler
}

// SetCommands устанавливает список команд в меню бота
func (c *BotController) SetCommands(ctx context.Context) error {
	var commands []models.BotCommand
	for _, route := range c.routes() {
		if route.menu {
			commands = append(commands, models.BotCommand{Command: route.name, Description: route.description})
		}
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		return fmt.Errorf("set my commands: %w", err)
	}

	c.logger.Info("✅ Bot commands menu set", zap.Int("commands", len(commands)))
	return nil
}

// Start запускает long polling и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}
