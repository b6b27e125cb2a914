package state

import (
	"sync"
	"time"
)

// Manager хранит диалоги пользователей в памяти процесса
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*UserData // telegramID -> UserData
	now    func() time.Time
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		states: make(map[int64]*UserData),
		now:    time.Now,
	}
}

// Begin начинает запись на слот slotID, прежний диалог сбрасывается
func (sm *Manager) Begin(telegramID int64, slotID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states[telegramID] = &UserData{
		State:     StateBookingGotUsername,
		SlotID:    slotID,
		UpdatedAt: sm.now(),
	}
}

// Get возвращает копию диалога; устаревший диалог считается отсутствующим
func (sm *Manager) Get(telegramID int64) (UserData, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	userData, exists := sm.states[telegramID]
	if !exists || sm.now().Sub(userData.UpdatedAt) > DialogTTL {
		return UserData{}, false
	}
	return *userData, true
}

// GetState получает текущий шаг пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	userData, ok := sm.Get(telegramID)
	if !ok {
		return StateNone
	}
	return userData.State
}

// SetGotUsername запоминает имя и переводит к шагу Meta
func (sm *Manager) SetGotUsername(telegramID int64, username string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	userData, exists := sm.states[telegramID]
	if !exists || userData.State != StateBookingGotUsername {
		return false
	}

	userData.GotUsername = username
	userData.State = StateBookingMetaUsername
	userData.UpdatedAt = sm.now()
	return true
}

// ClearState очищает состояние и данные пользователя
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}

// Take забирает диалог на шаге Meta и удаляет его. Из двух одновременных
// сообщений данные получит только одно.
func (sm *Manager) Take(telegramID int64) (UserData, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	userData, exists := sm.states[telegramID]
	if !exists || userData.State != StateBookingMetaUsername {
		return UserData{}, false
	}
	delete(sm.states, telegramID)

	if sm.now().Sub(userData.UpdatedAt) > DialogTTL {
		return UserData{}, false
	}
	return *userData, true
}

// Prune удаляет устаревшие диалоги, возвращает сколько удалено
func (sm *Manager) Prune() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for id, userData := range sm.states {
		if sm.now().Sub(userData.UpdatedAt) > DialogTTL {
			delete(sm.states, id)
			removed++
		}
	}
	return removed
}
