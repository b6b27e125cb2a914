package state

import "time"

// UserState шаг диалога, в котором находится пользователь
type UserState string

const (
	StateNone UserState = "" // Нет активного диалога

	// Шаги записи на слот
	StateBookingGotUsername  UserState = "booking_got_username"
	StateBookingMetaUsername UserState = "booking_meta_username"
)

// DialogTTL через сколько незавершённый диалог забывается
const DialogTTL = 15 * time.Minute

// UserData данные незавершённой записи
type UserData struct {
	State       UserState
	SlotID      string
	GotUsername string
	UpdatedAt   time.Time
}
