package handlers

import (
	"strconv"
	"strings"

	"github.com/go-telegram/bot/models"
)

// TargetUser определяет пользователя, к которому относится команда:
// ответ на его сообщение, text mention или числовой ID в аргументах.
// @username Bot API в ID не превращает, поэтому такой ввод не принимается.
func TargetUser(msg *models.Message, args string) (int64, bool) {
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil {
		return msg.ReplyToMessage.From.ID, true
	}

	for _, entity := range msg.Entities {
		if entity.Type == models.MessageEntityTypeTextMention && entity.User != nil {
			return entity.User.ID, true
		}
	}

	fields := strings.Fields(args)
	if len(fields) == 0 {
		return 0, false
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
