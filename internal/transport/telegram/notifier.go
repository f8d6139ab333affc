package telegram

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/samber/oops"
)

const defaultBroadcastDelay = 50 * time.Millisecond

// messageSender is the part of bot.Bot the notifier needs.
type messageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Notifier delivers text to chats sequentially, paced to stay under the
// Telegram rate limit (20 messages per second at the default delay).
type Notifier struct {
	sender messageSender
	delay  time.Duration
}

// NewNotifier creates a notifier sending through b.
func NewNotifier(b *bot.Bot, delay time.Duration) *Notifier {
	return newNotifier(b, delay)
}

func newNotifier(sender messageSender, delay time.Duration) *Notifier {
	if delay <= 0 {
		delay = defaultBroadcastDelay
	}
	return &Notifier{
		sender: sender,
		delay:  delay,
	}
}

// Broadcast sends text to every chat. A recipient that has blocked the bot
// is skipped; any other delivery failure is returned after the remaining
// recipients have been served.
func (n *Notifier) Broadcast(ctx context.Context, chatIDs []int64, text string) error {
	ticker := time.NewTicker(n.delay)
	defer ticker.Stop()

	var failed error
	for _, chatID := range chatIDs {
		_, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      text,
			ParseMode: models.ParseModeMarkdownV1,
		})
		if err != nil {
			if isBlockedByRecipient(err) {
				slog.Info("Recipient blocked the bot, skipping", "chat_id", chatID)
			} else {
				slog.Error("Failed to deliver notification", "chat_id", chatID, "error", err)
				failed = oops.With("chat_id", chatID, "context", "delivering notification").Wrap(err)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	return failed
}

// isBlockedByRecipient recognizes the Telegram "forbidden" family of errors:
// the user blocked the bot, deactivated the account, or kicked the bot.
func isBlockedByRecipient(err error) bool {
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "forbidden") || strings.Contains(message, "blocked")
}
