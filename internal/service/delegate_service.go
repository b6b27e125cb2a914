package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/Freeeeeet/timeslot_bot/internal/model"
	"github.com/Freeeeeet/timeslot_bot/internal/repository"
	"go.uber.org/zap"
)

// DelegateService реестр timmie: какие инструкторы разрешили пользователю
// записываться от их имени
type DelegateService struct {
	doc    repository.Document[model.DelegateGrants]
	logger *zap.Logger
}

func NewDelegateService(doc repository.Document[model.DelegateGrants], logger *zap.Logger) *DelegateService {
	return &DelegateService{
		doc:    doc,
		logger: logger,
	}
}

// Authorize добавляет инструктора в разрешения timmie (идемпотентно)
func (s *DelegateService) Authorize(ctx context.Context, delegateID, instructorID int64) error {
	added := false
	err := s.doc.Mutate(ctx, func(grants *model.DelegateGrants) error {
		if *grants == nil {
			*grants = make(model.DelegateGrants)
		}
		instructors := (*grants)[delegateID]
		if slices.Contains(instructors, instructorID) {
			return nil
		}
		(*grants)[delegateID] = append(instructors, instructorID)
		added = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("authorize delegate: %w", err)
	}

	if added {
		s.logger.Info("Delegate authorized",
			zap.Int64("delegate_id", delegateID),
			zap.Int64("instructor_id", instructorID),
		)
	}
	return nil
}

// Revoke убирает инструктора из разрешений timmie; если его нет - ничего
func (s *DelegateService) Revoke(ctx context.Context, delegateID, instructorID int64) error {
	err := s.doc.Mutate(ctx, func(grants *model.DelegateGrants) error {
		instructors, ok := (*grants)[delegateID]
		if !ok {
			return nil
		}
		instructors = slices.DeleteFunc(instructors, func(id int64) bool {
			return id == instructorID
		})
		if len(instructors) == 0 {
			delete(*grants, delegateID)
			return nil
		}
		(*grants)[delegateID] = instructors
		return nil
	})
	if err != nil {
		return fmt.Errorf("revoke delegate: %w", err)
	}

	s.logger.Info("Delegate revoked",
		zap.Int64("delegate_id", delegateID),
		zap.Int64("instructor_id", instructorID),
	)
	return nil
}

// ClearAll удаляет все разрешения timmie (после успешной записи)
func (s *DelegateService) ClearAll(ctx context.Context, delegateID int64) error {
	cleared := 0
	err := s.doc.Mutate(ctx, func(grants *model.DelegateGrants) error {
		cleared = len((*grants)[delegateID])
		delete(*grants, delegateID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear delegate grants: %w", err)
	}

	if cleared > 0 {
		s.logger.Info("Delegate grants cleared",
			zap.Int64("delegate_id", delegateID),
			zap.Int("instructors", cleared),
		)
	}
	return nil
}

// GrantsFor возвращает инструкторов, разрешивших timmie запись
func (s *DelegateService) GrantsFor(ctx context.Context, delegateID int64) ([]int64, error) {
	grants, err := s.doc.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read delegates: %w", err)
	}

	instructors := grants[delegateID]
	if instructors == nil {
		return []int64{}, nil
	}
	return instructors, nil
}

// DelegatesOf возвращает всех timmie инструктора, отсортированных по ID
func (s *DelegateService) DelegatesOf(ctx context.Context, instructorID int64) ([]int64, error) {
	grants, err := s.doc.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read delegates: %w", err)
	}

	delegates := []int64{}
	for delegateID, instructors := range grants {
		if slices.Contains(instructors, instructorID) {
			delegates = append(delegates, delegateID)
		}
	}
	slices.Sort(delegates)

	return delegates, nil
}
