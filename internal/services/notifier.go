package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier отправляет служебные уведомления в Telegram. Все ошибки
// best-effort: уведомление не должно ломать основную операцию.
type Notifier struct {
	bot *tgbotapi.BotAPI
}

// NewNotifier returns nil (disabled notifier) when no token is configured;
// callers treat a nil *Notifier as a no-op.
func NewNotifier(token string) (*Notifier, error) {
	if token == "" {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init failed: %w", err)
	}
	bot.Debug = false
	log.Printf("telegram notifier authorized on account %s", bot.Self.UserName)
	return &Notifier{bot: bot}, nil
}

func (n *Notifier) Send(chatID int64, text string) {
	if n == nil || n.bot == nil || chatID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		log.Printf("telegram notify failed for chat %d: %v", chatID, err)
	}
}

func (n *Notifier) LeaveDecision(chatID int64, approved bool, startDate, endDate string) {
	decision := "approved ✅"
	if !approved {
		decision = "rejected ❌"
	}
	n.Send(chatID, fmt.Sprintf("Your leave request %s — %s has been %s", startDate, endDate, decision))
}
