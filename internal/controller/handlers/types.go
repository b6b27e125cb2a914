package handlers

import (
	"time"

	"github.com/Freeeeeet/timeslot_bot/internal/config"
	"github.com/Freeeeeet/timeslot_bot/internal/controller/state"
	"github.com/Freeeeeet/timeslot_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	timeslotService   *service.TimeslotService
	delegateService   *service.DelegateService
	preferenceService *service.PreferenceService
	stateManager      *state.Manager
	cfg               *config.Config
	now               func() time.Time
	logger            *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	timeslotService *service.TimeslotService,
	delegateService *service.DelegateService,
	preferenceService *service.PreferenceService,
	stateManager *state.Manager,
	cfg *config.Config,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		timeslotService:   timeslotService,
		delegateService:   delegateService,
		preferenceService: preferenceService,
		stateManager:      stateManager,
		cfg:               cfg,
		now:               time.Now,
		logger:            logger,
	}
}

// SetClock подменяет текущее время при разборе ввода
func (h *Handlers) SetClock(now func() time.Time) {
	h.now = now
}
