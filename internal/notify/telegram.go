// Package notify delivers quiz reminders. The Telegram channel is optional:
// it is only wired up when a bot token is configured and a user has linked
// a chat id.
package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram sends reminders through a Telegram bot
type Telegram struct {
	api *tgbotapi.BotAPI
}

// NewTelegram creates a Telegram notifier from a bot token
func NewTelegram(token string) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Telegram{api: api}, nil
}

// SendReminder nudges a linked chat about today's unfinished words
func (t *Telegram) SendReminder(chatID int64, username string) error {
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"Hi %s! You haven't finished today's 20 words yet. A few minutes now keeps your streak alive.",
		username,
	))
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	return nil
}

// LogOnly is a fallback notifier used when no Telegram token is configured
type LogOnly struct{}

// SendReminder writes the reminder to the application log
func (LogOnly) SendReminder(chatID int64, username string) error {
	log.Printf("Reminder for %s (chat %d): today's words are waiting", username, chatID)
	return nil
}
