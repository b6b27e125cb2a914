package model

// UserPreference настройки пользователя для разбора времени
type UserPreference struct {
	Timezone string `json:"timezone,omitempty"` // IANA, например Europe/Berlin
	Locale   string `json:"locale,omitempty"`   // код территории ISO 3166, например US
}

// UserPreferences настройки всех пользователей по Telegram ID
type UserPreferences map[int64]UserPreference
