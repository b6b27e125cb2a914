package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/timeslot_bot/internal/model"
	"github.com/Freeeeeet/timeslot_bot/internal/repository"
	"go.uber.org/zap"
)

// ExpiryWindow сколько слот живёт после своего начала
const ExpiryWindow = 10 * time.Minute

// GrantStore то, что нужно сервису слотов от реестра timmie
type GrantStore interface {
	GrantsFor(ctx context.Context, delegateID int64) ([]int64, error)
	ClearAll(ctx context.Context, delegateID int64) error
}

type TimeslotService struct {
	doc    repository.Document[[]model.Timeslot]
	grants GrantStore
	now    func() time.Time
	logger *zap.Logger
}

type TimeslotOption func(*TimeslotService)

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) TimeslotOption {
	return func(s *TimeslotService) {
		s.now = now
	}
}

// WithGrantStore подключает реестр timmie: видимость слотов и сброс
// разрешений после записи
func WithGrantStore(grants GrantStore) TimeslotOption {
	return func(s *TimeslotService) {
		s.grants = grants
	}
}

func NewTimeslotService(doc repository.Document[[]model.Timeslot], logger *zap.Logger, opts ...TimeslotOption) *TimeslotService {
	s := &TimeslotService{
		doc:    doc,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add добавляет слот, чистит просроченные и сохраняет коллекцию.
// Повторяющиеся ID не отклоняются.
func (s *TimeslotService) Add(ctx context.Context, slot model.Timeslot) error {
	expired := 0
	err := s.doc.Mutate(ctx, func(slots *[]model.Timeslot) error {
		*slots = append(*slots, slot)
		expired = s.sweep(slots)
		return nil
	})
	if err != nil {
		return fmt.Errorf("add timeslot: %w", err)
	}

	s.logger.Info("Timeslot added",
		zap.String("timeslot_id", slot.ID),
		zap.Int64("instructor_id", slot.InstructorID),
		zap.Int64("time", slot.Time),
		zap.Int("expired", expired),
	)

	return nil
}

// List возвращает все слоты в порядке хранения
func (s *TimeslotService) List(ctx context.Context) ([]model.Timeslot, error) {
	return s.filter(ctx, func(model.Timeslot) bool { return true })
}

// ListByInstructor возвращает слоты одного инструктора
func (s *TimeslotService) ListByInstructor(ctx context.Context, instructorID int64) ([]model.Timeslot, error) {
	return s.filter(ctx, func(slot model.Timeslot) bool {
		return slot.InstructorID == instructorID
	})
}

// ListOpen возвращает незанятые слоты
func (s *TimeslotService) ListOpen(ctx context.Context) ([]model.Timeslot, error) {
	return s.filter(ctx, func(slot model.Timeslot) bool {
		return slot.IsOpen()
	})
}

// ListOpenVisibleTo возвращает незанятые слоты инструкторов, которые
// разрешили timmie записываться от их имени
func (s *TimeslotService) ListOpenVisibleTo(ctx context.Context, delegateID int64) ([]model.Timeslot, error) {
	if s.grants == nil {
		return []model.Timeslot{}, nil
	}

	instructors, err := s.grants.GrantsFor(ctx, delegateID)
	if err != nil {
		return nil, fmt.Errorf("get grants: %w", err)
	}
	if len(instructors) == 0 {
		return []model.Timeslot{}, nil
	}

	allowed := make(map[int64]struct{}, len(instructors))
	for _, id := range instructors {
		allowed[id] = struct{}{}
	}

	return s.filter(ctx, func(slot model.Timeslot) bool {
		_, ok := allowed[slot.InstructorID]
		return ok && slot.IsOpen()
	})
}

// Exists проверяет, есть ли слот с таким ID
func (s *TimeslotService) Exists(ctx context.Context, id string) (bool, error) {
	slots, err := s.filter(ctx, func(slot model.Timeslot) bool { return slot.ID == id })
	if err != nil {
		return false, err
	}
	return len(slots) > 0, nil
}

// IsAvailable true, если слот существует и не занят
func (s *TimeslotService) IsAvailable(ctx context.Context, id string) (bool, error) {
	slots, err := s.filter(ctx, func(slot model.Timeslot) bool {
		return slot.ID == id && slot.IsOpen()
	})
	if err != nil {
		return false, err
	}
	return len(slots) > 0, nil
}

// HasOpenBooking true, если пользователь уже занял какой-либо слот
func (s *TimeslotService) HasOpenBooking(ctx context.Context, userID int64) (bool, error) {
	slots, err := s.doc.Read(ctx)
	if err != nil {
		return false, fmt.Errorf("read timeslots: %w", err)
	}
	return bookedBy(slots, userID, s.cutoff()), nil
}

// Book занимает первый свободный слот с этим ID. Поиск, проверка и запись
// выполняются под одной блокировкой коллекции, поэтому из двух
// одновременных попыток успешна только одна; проигравший получает
// ErrSlotUnavailable. После записи разрешения timmie этого пользователя
// сбрасываются полностью.
func (s *TimeslotService) Book(ctx context.Context, id string, booking model.Booking) (*model.Timeslot, error) {
	if booking.GotUsername == "" {
		return nil, ErrEmptyUsername
	}

	var booked model.Timeslot
	cutoff := s.cutoff()

	err := s.doc.Mutate(ctx, func(slots *[]model.Timeslot) error {
		if bookedBy(*slots, booking.UserID, cutoff) {
			return ErrAlreadyBooked
		}

		for i := range *slots {
			slot := &(*slots)[i]
			if slot.ID != id || !slot.IsOpen() || slot.Time < cutoff {
				continue
			}

			b := booking
			slot.Booking = &b
			booked = *slot
			return nil
		}

		return ErrSlotUnavailable
	})
	if err != nil {
		return nil, fmt.Errorf("book timeslot %s: %w", id, err)
	}

	s.logger.Info("Timeslot booked",
		zap.String("timeslot_id", id),
		zap.Int64("user_id", booking.UserID),
		zap.Int64("instructor_id", booked.InstructorID),
	)

	// Разрешения носят рекомендательный характер: запись уже сохранена,
	// поэтому ошибку сброса только логируем
	if s.grants != nil {
		if err := s.grants.ClearAll(ctx, booking.UserID); err != nil {
			s.logger.Error("Failed to clear delegate grants after booking",
				zap.Int64("user_id", booking.UserID),
				zap.Error(err),
			)
		}
	}

	return &booked, nil
}

// Remove удаляет все слоты с этим ID, чистит просроченные и сохраняет
// коллекцию. Возвращает количество удалённых по ID.
func (s *TimeslotService) Remove(ctx context.Context, id string) (int, error) {
	removed := 0
	expired := 0

	err := s.doc.Mutate(ctx, func(slots *[]model.Timeslot) error {
		kept := (*slots)[:0]
		for _, slot := range *slots {
			if slot.ID == id {
				removed++
				continue
			}
			kept = append(kept, slot)
		}
		*slots = kept
		expired = s.sweep(slots)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("remove timeslot %s: %w", id, err)
	}

	s.logger.Info("Timeslot removed",
		zap.String("timeslot_id", id),
		zap.Int("removed", removed),
		zap.Int("expired", expired),
	)

	return removed, nil
}

// sweep выбрасывает слоты, начавшиеся раньше чем ExpiryWindow назад
func (s *TimeslotService) sweep(slots *[]model.Timeslot) int {
	cutoff := s.cutoff()
	kept := (*slots)[:0]
	for _, slot := range *slots {
		if slot.Time < cutoff {
			continue
		}
		kept = append(kept, slot)
	}
	expired := len(*slots) - len(kept)
	*slots = kept
	return expired
}

func (s *TimeslotService) cutoff() int64 {
	return s.now().Add(-ExpiryWindow).Unix()
}

// filter читает коллекцию; просроченные слоты не возвращаются, даже если
// их ещё не удалила очистка
func (s *TimeslotService) filter(ctx context.Context, keep func(model.Timeslot) bool) ([]model.Timeslot, error) {
	slots, err := s.doc.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read timeslots: %w", err)
	}

	cutoff := s.cutoff()
	result := make([]model.Timeslot, 0, len(slots))
	for _, slot := range slots {
		if slot.Time >= cutoff && keep(slot) {
			result = append(result, slot)
		}
	}
	return result, nil
}

func bookedBy(slots []model.Timeslot, userID int64, cutoff int64) bool {
	for _, slot := range slots {
		if slot.Time >= cutoff && slot.Booking != nil && slot.Booking.UserID == userID {
			return true
		}
	}
	return false
}
