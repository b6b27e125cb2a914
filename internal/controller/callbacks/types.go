package callbacks

import "strings"

// Форматы callback data
const (
	PrefixBook = "book:"     // book:aB3x9
	SkipMeta   = "book_skip" // пропустить Meta username
)

// BookData callback data кнопки записи на слот
func BookData(slotID string) string {
	return PrefixBook + slotID
}

// ParseBookData извлекает ID слота из "book:<id>"
func ParseBookData(data string) (string, bool) {
	slotID, ok := strings.CutPrefix(data, PrefixBook)
	if !ok || slotID == "" {
		return "", false
	}
	return slotID, true
}
