// Package telegram sends dashboard alerts through the Telegram Bot API.
package telegram

import (
	"fmt"
	"html"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client handles Telegram notifications.
type Client struct {
	bot            sender
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client. It calls getMe to verify the token.
func NewClient(botToken string, chatID int64, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	return newClient(bot, chatID, maxRetries, retryDelayBase), nil
}

func newClient(bot sender, chatID int64, maxRetries int, retryDelayBase time.Duration) *Client {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}
	return &Client{
		bot:            bot,
		chatID:         chatID,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}
}

// sendHTML sends an HTML message with linear-backoff retry.
func (c *Client) sendHTML(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		if i < c.maxRetries-1 {
			time.Sleep(c.retryDelayBase * time.Duration(i+1))
		}
	}
	return fmt.Errorf("failed after %d retries: %w", c.maxRetries, lastErr)
}

// SendNotification sends a signal alert.
func (c *Client) SendNotification(text string, at time.Time) error {
	return c.sendHTML(FormatNotification(text, at))
}

// SendError sends a dashboard error alert.
// Call this only on the first occurrence of a consecutive error sequence.
func (c *Client) SendError(message string) error {
	return c.sendHTML(fmt.Sprintf("⚠️ <b>Dashboard error</b>\n<code>%s</code>", html.EscapeString(message)))
}

// SendRecovery reports that syncing works again after consecutive failures.
func (c *Client) SendRecovery(failureCount int) error {
	return c.sendHTML(fmt.Sprintf("✅ <b>Dashboard recovered</b> after %d consecutive failure(s)", failureCount))
}

// FormatNotification renders a signal alert as Telegram HTML.
func FormatNotification(text string, at time.Time) string {
	return fmt.Sprintf("📈 <b>New Signal Alert</b>\n%s\nTime: <b>%s</b>",
		html.EscapeString(text),
		at.Format("2006-01-02 15:04:05"),
	)
}
