package handlers

// Ограничения ввода в диалоге записи
const (
	UsernameMaxLength = 64
)

// Тексты, которые встречаются в нескольких обработчиках
const (
	textNoTimeslots     = "📭 There are no timeslots available."
	textAlreadyBooked   = "❌ You already have a booking."
	textSlotNotExists   = "❌ Timeslot does not exist."
	textSlotTaken       = "❌ Timeslot is already booked."
	textAskGotUsername  = "🎮 Booking timeslot <code>%s</code>\n\nStep 1 of 2: enter your Ghosts of Tabor username.\n\nTo abort use /cancel"
	textAskMetaUsername = "✅ GoT username: <code>%s</code>\n\nStep 2 of 2: enter your Meta username (if using Meta party voice) or /skip."
)
