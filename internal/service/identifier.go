package service

import (
	"strings"

	"github.com/lithammer/shortuuid/v4"
)

const (
	// IDLength длина идентификатора слота
	IDLength = 5

	// IDAlphabet буквы и цифры без o, O и 0, чтобы их не путали
	IDAlphabet = "abcdefghijklmnpqrstuvwxyzABCDEFGHIJKLMNPQRSTUVWXYZ123456789"
)

// GenerateID возвращает короткий код слота. Уникальность не проверяется.
func GenerateID() string {
	code := shortuuid.NewWithAlphabet(IDAlphabet)
	// Младшие разряды распределены равномерно, старшие - нет
	return code[len(code)-IDLength:]
}

// NormalizeID убирает пробелы вокруг кода, введённого пользователем
func NormalizeID(id string) string {
	return strings.TrimSpace(id)
}
