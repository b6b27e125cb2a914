package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/timeslot_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOpenTimeslot(t *testing.T) {
	slot := model.Timeslot{
		ID:           "aB3x9",
		Time:         time.Date(2024, 12, 25, 7, 0, 0, 0, time.UTC).Unix(),
		InstructorID: 42,
	}

	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	assert.Equal(t,
		`- ID:<code>aB3x9</code> 25.12.2024 10:00 MSK (BOA: <a href="tg://user?id=42">42</a>)`,
		RenderTimeslot(slot, moscow))

	assert.Equal(t,
		`- ID:<code>aB3x9</code> 25.12.2024 07:00 UTC (BOA: <a href="tg://user?id=42">42</a>)`,
		RenderTimeslot(slot, nil))
}

func TestRenderBookedTimeslotEscapesUsernames(t *testing.T) {
	slot := model.Timeslot{
		ID:           "Zk7Qp",
		Time:         time.Date(2024, 12, 25, 7, 0, 0, 0, time.UTC).Unix(),
		InstructorID: 42,
		Booking:      &model.Booking{UserID: 99, GotUsername: "<ghost>&co"},
	}

	line := RenderTimeslot(slot, time.UTC)
	assert.Contains(t, line, `Booked by <a href="tg://user?id=99">99</a>`)
	assert.Contains(t, line, "GOT: <code>&lt;ghost&gt;&amp;co</code>")
	assert.Contains(t, line, "Meta: <code>N/A</code>")
}

func TestRenderTimeslots(t *testing.T) {
	slots := []model.Timeslot{
		{ID: "a", Time: 0, InstructorID: 1},
		{ID: "b", Time: 60, InstructorID: 1},
	}

	out := RenderTimeslots(slots, time.UTC)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "<code>a</code> 01.01.1970 00:00 UTC")
	assert.Contains(t, out, "<code>b</code> 01.01.1970 00:01 UTC")

	assert.Empty(t, RenderTimeslots(nil, time.UTC))
	assert.Equal(t, "- "+UserLink(5)+"\n- "+UserLink(6), RenderUsers([]int64{5, 6}))
}
