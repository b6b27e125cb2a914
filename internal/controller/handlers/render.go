package handlers

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/timeslot_bot/internal/model"
)

// FormatSlotTime дата и время слота в зоне зрителя
func FormatSlotTime(t time.Time) string {
	return t.Format("02.01.2006 15:04 MST")
}

// UserLink ссылка на пользователя по ID (HTML)
func UserLink(userID int64) string {
	return fmt.Sprintf(`<a href="tg://user?id=%d">%d</a>`, userID, userID)
}

// RenderTimeslot одна строка списка слотов
func RenderTimeslot(slot model.Timeslot, loc *time.Location) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "- ID:<code>%s</code> %s (BOA: %s)",
		html.EscapeString(slot.ID),
		FormatSlotTime(slot.StartTime(loc)),
		UserLink(slot.InstructorID),
	)

	if booking := slot.Booking; booking != nil {
		meta := booking.MetaUsername
		if meta == "" {
			meta = "N/A"
		}
		fmt.Fprintf(&sb, " - Booked by %s (GOT: <code>%s</code>, Meta: <code>%s</code>)",
			UserLink(booking.UserID),
			html.EscapeString(booking.GotUsername),
			html.EscapeString(meta),
		)
	}

	return sb.String()
}

// RenderTimeslots список слотов, по строке на слот
func RenderTimeslots(slots []model.Timeslot, loc *time.Location) string {
	lines := make([]string, 0, len(slots))
	for _, slot := range slots {
		lines = append(lines, RenderTimeslot(slot, loc))
	}
	return strings.Join(lines, "\n")
}

// RenderUsers список пользователей для /timmie_list
func RenderUsers(ids []int64) string {
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, "- "+UserLink(id))
	}
	return strings.Join(lines, "\n")
}
