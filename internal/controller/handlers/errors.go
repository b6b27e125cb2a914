package handlers

import (
	"errors"

	"github.com/Freeeeeet/timeslot_bot/internal/service"
	"github.com/Freeeeeet/timeslot_bot/internal/timeparse"
)

// Ошибки уровня команд
var (
	ErrNotInstructor    = errors.New("user is not an instructor")
	ErrUserNotSpecified = errors.New("target user not specified")
	ErrMissingArgument  = errors.New("missing command argument")
	ErrUsernameTooLong  = errors.New("username too long")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrTimezoneNotSet):
		return "❌ You need to set your timezone first: /set_timezone Europe/Berlin"
	case errors.Is(err, service.ErrInvalidTimezone):
		return "❌ Unknown timezone. Use an IANA name like Europe/Berlin or America/New_York."
	case errors.Is(err, service.ErrUnknownTerritory):
		return "❌ Unknown locale. Use a country name or a two-letter code like US or DE."
	case errors.Is(err, service.ErrAlreadyBooked):
		return textAlreadyBooked
	case errors.Is(err, service.ErrSlotNotFound):
		return textSlotNotExists
	case errors.Is(err, service.ErrSlotUnavailable):
		return "❌ Failed to book timeslot: it does not exist or is already booked."
	case errors.Is(err, service.ErrEmptyUsername):
		return "❌ Ghosts of Tabor username is required. Try again:"
	case errors.Is(err, ErrUsernameTooLong):
		return "❌ Username is too long. Try again:"
	case errors.Is(err, timeparse.ErrInvalidFormat):
		return "❌ Invalid timeslot format."
	case errors.Is(err, ErrNotInstructor):
		return "❌ This command is only available to instructors."
	case errors.Is(err, ErrUserNotSpecified):
		return "❌ Reply to the user's message, mention them or pass their numeric id."
	case errors.Is(err, ErrMissingArgument):
		return "❌ Missing argument. See /help"
	default:
		return "❌ Something went wrong. Please try again later."
	}
}
