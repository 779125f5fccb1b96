package adminbot

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"github.com/spec-kit/lead-service/internal/domain"
)

// Command is what an admin's message asks for.
type Command string

const (
	CommandStart   Command = "start"
	CommandAll     Command = "all"
	CommandToday   Command = "today"
	CommandMonth   Command = "month"
	CommandYear    Command = "year"
	CommandUnknown Command = "unknown"
)

const (
	labelAllPrefix = "📋 All leads"

	labelToday = "📅 Today"
	labelMonth = "🗓 This month"
	labelYear  = "📆 This year"

	greetingText = "Hi! This is the website leads panel.\nChoose an action:"
	fallbackText = "I didn't understand you 🙂 Choose an action on the keyboard."
	failureText  = "Could not load leads, try again later."
)

// resolveCommand maps message text to a command. The "all" button matches by
// prefix so that its label can carry the current limit.
func resolveCommand(text string) Command {
	text = strings.TrimSpace(text)
	switch {
	case isStart(text):
		return CommandStart
	case strings.HasPrefix(text, labelAllPrefix):
		return CommandAll
	case text == labelToday:
		return CommandToday
	case text == labelMonth:
		return CommandMonth
	case text == labelYear:
		return CommandYear
	default:
		return CommandUnknown
	}
}

// isStart accepts /start, optionally addressed as /start@username.
func isStart(text string) bool {
	name, bot, addressed := strings.Cut(text, "@")
	if name != "/start" {
		return false
	}
	return !addressed || (bot != "" && !strings.ContainsAny(bot, " \t\n"))
}

// Period returns the lead period a query command asks for.
func (c Command) Period() (domain.Period, bool) {
	switch c {
	case CommandAll:
		return domain.PeriodAll, true
	case CommandToday:
		return domain.PeriodToday, true
	case CommandMonth:
		return domain.PeriodMonth, true
	case CommandYear:
		return domain.PeriodYear, true
	default:
		return "", false
	}
}

func allLabel(limit int) string {
	return fmt.Sprintf("%s (latest %d)", labelAllPrefix, limit)
}

func mainMenu(limit int) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(
		menu.Row(menu.Text(allLabel(limit))),
		menu.Row(menu.Text(labelToday), menu.Text(labelMonth)),
		menu.Row(menu.Text(labelYear)),
	)
	return menu
}
