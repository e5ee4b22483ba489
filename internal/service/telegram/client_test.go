package telegram

import (
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeBot struct {
	fails int
	sent  []tgbotapi.MessageConfig
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.fails > 0 {
		f.fails--
		return tgbotapi.Message{}, errors.New("telegram down")
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func TestSendNotificationHTML(t *testing.T) {
	bot := &fakeBot{}
	c := newClient(bot, 42, 3, time.Millisecond)
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	if err := c.SendNotification("New BUY signal for <BTC>", at); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(bot.sent) != 1 {
		t.Fatalf("sent = %d", len(bot.sent))
	}
	msg := bot.sent[0]
	if msg.ChatID != 42 || msg.ParseMode != tgbotapi.ModeHTML {
		t.Fatalf("msg = %+v", msg)
	}
	if !strings.Contains(msg.Text, "&lt;BTC&gt;") || !strings.Contains(msg.Text, "2024-01-01 10:00:00") {
		t.Fatalf("text = %q", msg.Text)
	}
}

func TestSendRetries(t *testing.T) {
	bot := &fakeBot{fails: 2}
	c := newClient(bot, 1, 3, time.Millisecond)
	if err := c.SendError("Error loading data"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(bot.sent) != 1 {
		t.Fatalf("sent = %d", len(bot.sent))
	}

	bot = &fakeBot{fails: 5}
	c = newClient(bot, 1, 2, time.Millisecond)
	if err := c.SendRecovery(3); err == nil {
		t.Fatalf("expected error after retries")
	}
}
