package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/timeslot_bot/internal/model"
	"github.com/Freeeeeet/timeslot_bot/internal/repository"
	"go.uber.org/zap"
)

// PreferenceService часовой пояс и территория пользователя
type PreferenceService struct {
	doc    repository.Document[model.UserPreferences]
	logger *zap.Logger
}

func NewPreferenceService(doc repository.Document[model.UserPreferences], logger *zap.Logger) *PreferenceService {
	return &PreferenceService{
		doc:    doc,
		logger: logger,
	}
}

// SetTimezone сохраняет IANA-зону пользователя
func (s *PreferenceService) SetTimezone(ctx context.Context, userID int64, timezone string) (string, error) {
	timezone = strings.TrimSpace(timezone)
	if timezone == "" {
		return "", ErrInvalidTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimezone, timezone)
	}
	// "Local" годится для LoadLocation, но не описывает зону пользователя
	if loc == time.Local {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimezone, timezone)
	}

	err = s.update(ctx, userID, func(pref *model.UserPreference) {
		pref.Timezone = loc.String()
	})
	if err != nil {
		return "", fmt.Errorf("set timezone: %w", err)
	}

	s.logger.Info("Timezone set",
		zap.Int64("user_id", userID),
		zap.String("timezone", loc.String()),
	)
	return loc.String(), nil
}

// GetTimezone возвращает зону пользователя или пустую строку
func (s *PreferenceService) GetTimezone(ctx context.Context, userID int64) (string, error) {
	pref, err := s.get(ctx, userID)
	if err != nil {
		return "", err
	}
	return pref.Timezone, nil
}

// Location зона пользователя; ErrTimezoneNotSet если он её не задал
func (s *PreferenceService) Location(ctx context.Context, userID int64) (*time.Location, error) {
	timezone, err := s.GetTimezone(ctx, userID)
	if err != nil {
		return nil, err
	}
	if timezone == "" {
		return nil, ErrTimezoneNotSet
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, timezone)
	}
	return loc, nil
}

// SetLocale сохраняет территорию по коду или английскому названию
func (s *PreferenceService) SetLocale(ctx context.Context, userID int64, query string) (Territory, error) {
	territory, err := ResolveTerritory(query)
	if err != nil {
		return Territory{}, err
	}

	err = s.update(ctx, userID, func(pref *model.UserPreference) {
		pref.Locale = territory.Code
	})
	if err != nil {
		return Territory{}, fmt.Errorf("set locale: %w", err)
	}

	s.logger.Info("Locale set",
		zap.Int64("user_id", userID),
		zap.String("locale", territory.Code),
	)
	return territory, nil
}

// GetLocale возвращает код территории пользователя или пустую строку
func (s *PreferenceService) GetLocale(ctx context.Context, userID int64) (string, error) {
	pref, err := s.get(ctx, userID)
	if err != nil {
		return "", err
	}
	return pref.Locale, nil
}

// IsMonthFirst true, если пользователь пишет дату как MM/DD.
// Без заданной территории - день вперёд.
func (s *PreferenceService) IsMonthFirst(ctx context.Context, userID int64) (bool, error) {
	locale, err := s.GetLocale(ctx, userID)
	if err != nil {
		return false, err
	}
	return IsMonthFirstTerritory(locale), nil
}

func (s *PreferenceService) get(ctx context.Context, userID int64) (model.UserPreference, error) {
	prefs, err := s.doc.Read(ctx)
	if err != nil {
		return model.UserPreference{}, fmt.Errorf("read preferences: %w", err)
	}
	return prefs[userID], nil
}

func (s *PreferenceService) update(ctx context.Context, userID int64, fn func(*model.UserPreference)) error {
	return s.doc.Mutate(ctx, func(prefs *model.UserPreferences) error {
		if *prefs == nil {
			*prefs = make(model.UserPreferences)
		}
		pref := (*prefs)[userID]
		fn(&pref)
		(*prefs)[userID] = pref
		return nil
	})
}
