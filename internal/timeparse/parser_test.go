package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestParse(t *testing.T) {
	berlin := mustLoad(t, "Europe/Berlin")

	tests := []struct {
		name       string
		input      string
		monthFirst bool
		now        time.Time
		want       time.Time
	}{
		{
			name:  "time later today",
			input: "23:00",
			now:   time.Date(2024, 1, 15, 20, 0, 0, 0, berlin),
			want:  time.Date(2024, 1, 15, 23, 0, 0, 0, berlin),
		},
		{
			name:  "time already passed rolls to tomorrow",
			input: "23:00",
			now:   time.Date(2024, 1, 15, 23, 50, 0, 0, berlin),
			want:  time.Date(2024, 1, 16, 23, 0, 0, 0, berlin),
		},
		{
			name:  "exactly now rolls to tomorrow",
			input: "12:30",
			now:   time.Date(2024, 1, 15, 12, 30, 0, 0, berlin),
			want:  time.Date(2024, 1, 16, 12, 30, 0, 0, berlin),
		},
		{
			name:  "colon is optional",
			input: "0930",
			now:   time.Date(2024, 1, 15, 8, 0, 0, 0, berlin),
			want:  time.Date(2024, 1, 15, 9, 30, 0, 0, berlin),
		},
		{
			name:  "three digits",
			input: "930",
			now:   time.Date(2024, 1, 15, 8, 0, 0, 0, berlin),
			want:  time.Date(2024, 1, 15, 9, 30, 0, 0, berlin),
		},
		{
			name:  "end of month rolls into next month",
			input: "07:00",
			now:   time.Date(2024, 1, 31, 22, 0, 0, 0, berlin),
			want:  time.Date(2024, 2, 1, 7, 0, 0, 0, berlin),
		},
		{
			name:  "day first date this year",
			input: "25/12 10:00",
			now:   time.Date(2024, 3, 1, 9, 0, 0, 0, berlin),
			want:  time.Date(2024, 12, 25, 10, 0, 0, 0, berlin),
		},
		{
			name:  "day first date already passed rolls to next year",
			input: "25/12 10:00",
			now:   time.Date(2024, 12, 26, 9, 0, 0, 0, berlin),
			want:  time.Date(2025, 12, 25, 10, 0, 0, 0, berlin),
		},
		{
			name:       "month first date",
			input:      "12/25 10:00",
			monthFirst: true,
			now:        time.Date(2024, 3, 1, 9, 0, 0, 0, berlin),
			want:       time.Date(2024, 12, 25, 10, 0, 0, 0, berlin),
		},
		{
			name:  "dash separator without colon",
			input: "5-3 1815",
			now:   time.Date(2024, 2, 1, 9, 0, 0, 0, berlin),
			want:  time.Date(2024, 3, 5, 18, 15, 0, 0, berlin),
		},
		{
			name:  "today's date with passed time rolls year",
			input: "15/01 08:00",
			now:   time.Date(2024, 1, 15, 9, 0, 0, 0, berlin),
			want:  time.Date(2025, 1, 15, 8, 0, 0, 0, berlin),
		},
		{
			name:  "surrounding spaces",
			input: "  18:00 ",
			now:   time.Date(2024, 1, 15, 9, 0, 0, 0, berlin),
			want:  time.Date(2024, 1, 15, 18, 0, 0, 0, berlin),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input, berlin, tt.monthFirst, tt.now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			assert.Equal(t, berlin, got.Location())
		})
	}
}

func TestParseUsesCallerZone(t *testing.T) {
	tokyo := mustLoad(t, "Asia/Tokyo")
	// 23:00 UTC 15 января это уже 08:00 16 января в Токио
	now := time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC)

	got, err := Parse("09:00", tokyo, false, now)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 1, 16, 9, 0, 0, 0, tokyo).Equal(got))
	assert.Equal(t, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC).Unix(), got.Unix())
}

func TestParseNilLocationIsUTC(t *testing.T) {
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	got, err := Parse("10:00", nil, false, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), got)
}

func TestParseInvalid(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		input      string
		monthFirst bool
	}{
		{name: "empty", input: ""},
		{name: "words", input: "tomorrow at noon"},
		{name: "hour out of range", input: "24:00"},
		{name: "minute out of range", input: "12:60"},
		{name: "single minute digit", input: "12:5"},
		{name: "month out of range", input: "10/13 10:00"},
		{name: "month out of range month first", input: "13/10 10:00", monthFirst: true},
		{name: "day zero", input: "00/10 10:00"},
		{name: "day not in month", input: "31/04 10:00"},
		{name: "leap day in common year after roll", input: "29/02 10:00"},
		{name: "missing time", input: "25/12"},
		{name: "trailing garbage", input: "10:00pm"},
		{name: "year given", input: "25/12/2024 10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input, time.UTC, tt.monthFirst, now)
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestParseLeapDayInLeapYear(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	got, err := Parse("29/02 10:00", time.UTC, false, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC), got)
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{"HH:MM", "DD/MM HH:MM"}, Formats(false))
	assert.Equal(t, []string{"HH:MM", "MM/DD HH:MM"}, Formats(true))
}
