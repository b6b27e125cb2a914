package handlers

import (
	"strings"
	"unicode"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ParseCommand разбирает "/name@bot args" на имя команды и аргументы.
// Имя приводится к нижнему регистру, суффикс @bot отбрасывается.
func ParseCommand(text string) (name, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}

	head, rest := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		head, rest = text[:i], text[i:]
	}

	name = strings.TrimPrefix(head, "/")
	name, _, _ = strings.Cut(name, "@")
	if name == "" {
		return "", "", false
	}

	return strings.ToLower(name), strings.TrimSpace(rest), true
}

// MatchCommand условие для RegisterHandlerMatchFunc: сообщение - команда name
func MatchCommand(name string) bot.MatchFunc {
	return func(update *models.Update) bool {
		if update.Message == nil {
			return false
		}
		cmd, _, ok := ParseCommand(update.Message.Text)
		return ok && cmd == name
	}
}

// commandArgs аргументы команды из сообщения
func commandArgs(msg *models.Message) string {
	_, args, _ := ParseCommand(msg.Text)
	return args
}
