package render

import (
	"context"
	"errors"
	"time"

	"SignalDesk/internal/domain/models"

	"github.com/shopspring/decimal"
)

type notifier interface {
	SendNotification(text string, at time.Time) error
	SendError(message string) error
	SendRecovery(failureCount int) error
}

// TelegramAdapter forwards notifications, the first failed pull of a streak,
// and the recovery once a pull succeeds again. Pushes and view changes never
// end a streak.
type TelegramAdapter struct {
	n   notifier
	d   submitter
	now func() time.Time

	failures int
}

func NewTelegramAdapter(n notifier, d submitter) *TelegramAdapter {
	return &TelegramAdapter{n: n, d: d, now: time.Now}
}

func (a *TelegramAdapter) send(name string, fn func() error) {
	// the client retries internally
	a.d.Submit(Job{Name: name, MaxAttempts: 1, Run: func(context.Context) error { return fn() }})
}

func (a *TelegramAdapter) OnNotification(message string) {
	at := a.now()
	a.send("telegram_notification", func() error { return a.n.SendNotification(message, at) })
}

func (a *TelegramAdapter) OnPullCompleted(err error) {
	if err != nil {
		a.failures++
		if a.failures > 1 {
			return
		}
		msg := err.Error()
		var um userMessager
		if errors.As(err, &um) {
			msg = um.UserMessage()
		}
		a.send("telegram_error", func() error { return a.n.SendError(msg) })
		return
	}
	if a.failures == 0 {
		return
	}
	n := a.failures
	a.failures = 0
	a.send("telegram_recovery", func() error { return a.n.SendRecovery(n) })
}

type userMessager interface {
	UserMessage() string
}

func (a *TelegramAdapter) OnSignalsChanged([]models.Signal)                             {}
func (a *TelegramAdapter) OnSignalsAdded(string, []models.Signal)                       {}
func (a *TelegramAdapter) OnError(string)                                               {}
func (a *TelegramAdapter) OnMetricsChanged(models.PerformanceSnapshot, decimal.Decimal) {}
func (a *TelegramAdapter) OnChartChanged([]models.ChartPoint)                           {}
func (a *TelegramAdapter) OnConnectionChanged(models.ConnectionStatus)                  {}
func (a *TelegramAdapter) OnClientsChanged(int)                                         {}
