package notifier

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramNotifier is an implementation of Notifier backed by a Telegram bot.
type telegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier creates a Telegram-backed push transport.
func NewTelegramNotifier(botToken string, chatID int64) (Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &telegramNotifier{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Send delivers the notification to the configured Telegram chat.
func (t *telegramNotifier) Send(n Notification) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s*\n", escapeMarkdown(n.Title)))
	sb.WriteString(escapeMarkdown(n.Body))
	if n.ForcePush {
		sb.WriteString("\n\n🔔 _priority alert_")
	}

	msg := tgbotapi.NewMessage(t.chatID, sb.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := t.bot.Send(msg)
	return err
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")
	return replacer.Replace(s)
}
