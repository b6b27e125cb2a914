package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"
)

type SlotStatus string

const (
	SlotStatusOpen   SlotStatus = "open"
	SlotStatusBooked SlotStatus = "booked"
)

// Timeslot опубликованное инструктором окно для записи
type Timeslot struct {
	ID           string   `json:"id"`
	Time         int64    `json:"time"`       // начало, секунды Unix
	InstructorID int64    `json:"instructor"` // BOA
	Booking      *Booking `json:"booking,omitempty"`
}

// Booking данные записи, принадлежат ровно одному слоту
type Booking struct {
	UserID       int64  `json:"user_id"`
	GotUsername  string `json:"got_username"`
	MetaUsername string `json:"meta_username,omitempty"` // пустая строка - не указан
}

// Status возвращает состояние слота
func (t *Timeslot) Status() SlotStatus {
	if t.Booking == nil {
		return SlotStatusOpen
	}
	return SlotStatusBooked
}

// IsOpen true, если слот ещё никто не занял
func (t *Timeslot) IsOpen() bool {
	return t.Status() == SlotStatusOpen
}

// StartTime начало слота в указанной зоне
func (t *Timeslot) StartTime(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(t.Time, 0).In(loc)
}

// UnmarshalJSON принимает и файлы старого бота: время там дробное,
// а свободный слот хранился с пустым объектом booking
func (t *Timeslot) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID           string          `json:"id"`
		Time         json.Number     `json:"time"`
		InstructorID json.Number     `json:"instructor"`
		Booking      json.RawMessage `json:"booking"`
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode timeslot: %w", err)
	}

	ts, err := numberToInt64(raw.Time)
	if err != nil {
		return fmt.Errorf("timeslot %q time: %w", raw.ID, err)
	}

	instructor, err := numberToInt64(raw.InstructorID)
	if err != nil {
		return fmt.Errorf("timeslot %q instructor: %w", raw.ID, err)
	}

	*t = Timeslot{
		ID:           raw.ID,
		Time:         ts,
		InstructorID: instructor,
	}

	trimmed := bytes.TrimSpace(raw.Booking)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("{}")) {
		return nil
	}

	var booking Booking
	if err := json.Unmarshal(trimmed, &booking); err != nil {
		return fmt.Errorf("timeslot %q booking: %w", raw.ID, err)
	}
	if booking.UserID == 0 {
		return nil
	}
	t.Booking = &booking

	return nil
}

func numberToInt64(n json.Number) (int64, error) {
	if n == "" {
		return 0, nil
	}
	if v, err := n.Int64(); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	return int64(math.Trunc(f)), nil
}

// SortByTime сортирует слоты по времени начала (по возрастанию)
func SortByTime(slots []Timeslot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Time < slots[j].Time
	})
}
