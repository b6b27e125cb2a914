// Package timeparse разбирает время слота, введённое пользователем:
// "HH:MM" (сегодня или ближайшее такое время) или "DD/MM HH:MM"
// ("MM/DD HH:MM" для пользователей с порядком месяц-день).
package timeparse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidFormat = errors.New("invalid time format")

// Дата необязательна, двоеточие во времени тоже
var inputPattern = regexp.MustCompile(`^(?:(\d{1,2})[/-](\d{1,2})\s+)?(\d{1,2}):?(\d{2})$`)

// Formats возвращает два допустимых вида ввода для сообщения об ошибке
func Formats(monthFirst bool) []string {
	if monthFirst {
		return []string{"HH:MM", "MM/DD HH:MM"}
	}
	return []string{"HH:MM", "DD/MM HH:MM"}
}

// Parse переводит текст в момент времени в зоне loc.
//
// Без даты: сегодняшний день, а если это время уже наступило - завтра.
// С датой: текущий год, а если дата уже прошла - следующий год.
func Parse(text string, loc *time.Location, monthFirst bool, now time.Time) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	m := inputPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormat, text)
	}

	hour, _ := strconv.Atoi(m[3])
	minute, _ := strconv.Atoi(m[4])
	if hour > 23 || minute > 59 {
		return time.Time{}, fmt.Errorf("%w: time %02d:%02d out of range", ErrInvalidFormat, hour, minute)
	}

	now = now.In(loc)

	if m[1] == "" {
		start := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc)
		if !start.After(now) {
			start = time.Date(now.Year(), now.Month(), now.Day()+1, hour, minute, 0, 0, loc)
		}
		return start, nil
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if monthFirst {
		day, month = month, day
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w: date %02d/%02d out of range", ErrInvalidFormat, day, month)
	}

	start, err := dateInYear(now.Year(), time.Month(month), day, hour, minute, loc)
	if err != nil {
		return time.Time{}, err
	}

	if !start.After(now) {
		start, err = dateInYear(now.Year()+1, time.Month(month), day, hour, minute, loc)
		if err != nil {
			return time.Time{}, err
		}
	}

	return start, nil
}

// dateInYear отказывает в датах, которых нет в году (31/04, 29/02 не в високосный)
func dateInYear(year int, month time.Month, day, hour, minute int, loc *time.Location) (time.Time, error) {
	t := time.Date(year, month, day, hour, minute, 0, 0, loc)
	if t.Month() != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %02d/%02d does not exist in %d", ErrInvalidFormat, day, month, year)
	}
	return t, nil
}
