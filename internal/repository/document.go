package repository

import (
	"context"
	"encoding/json"
	"fmt"
)

// Имена коллекций, совпадают с файлами старого бота
const (
	CollectionTimeslots   = "timeslots"
	CollectionDelegates   = "timmie"
	CollectionPreferences = "settings"
)

// Document хранилище одной коллекции, которая читается и пишется целиком.
//
// Mutate - критическая секция: чтение, проверка и запись выполняются под
// одной блокировкой. Если fn вернула ошибку, ничего не записывается.
type Document[T any] interface {
	Read(ctx context.Context) (T, error)
	Mutate(ctx context.Context, fn func(*T) error) error
}

func decode[T any](data []byte, initial T) (T, error) {
	if len(data) == 0 {
		return cloneValue(initial)
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("decode document: %w", err)
	}
	return value, nil
}

// cloneValue копирует значение через JSON, чтобы вызывающий не держал
// ссылок на общий снимок
func cloneValue[T any](value T) (T, error) {
	var out T
	data, err := json.Marshal(value)
	if err != nil {
		return out, fmt.Errorf("encode document: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode document: %w", err)
	}
	return out, nil
}
