// internal/app/notifier.go
package app

import (
	"context"

	"homework_status_bot/internal/domain/homework"
	domainTelegram "homework_status_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// MaxMessageLength is the number of characters delivered per message.
// Longer texts are cut without notice.
const MaxMessageLength = 400

// Notifier delivers a text message to the monitored chat.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// ChatNotifier sends messages to a single Telegram chat.
type ChatNotifier struct {
	client domainTelegram.Client
	chatID int64
	logger *logrus.Entry
}

func NewChatNotifier(client domainTelegram.Client, chatID int64, logger *logrus.Entry) *ChatNotifier {
	return &ChatNotifier{
		client: client,
		chatID: chatID,
		logger: logger,
	}
}

// Notify sends text, truncated to MaxMessageLength. Transport errors are
// returned as a DELIVERY failure.
func (n *ChatNotifier) Notify(ctx context.Context, text string) error {
	text = truncate(text, MaxMessageLength)
	logCtx := n.logger.WithField("chat_id", n.chatID)

	if err := n.client.SendMessage(n.chatID, text, nil); err != nil {
		logCtx.WithError(err).Debug("Telegram rejected the message")
		return &homework.Failure{Kind: homework.KindDelivery, Err: err}
	}
	logCtx.Debug("Message sent to Telegram")
	return nil
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
