package usecase

import (
	"testing"

	"SignalDesk/internal/domain/models"
)

func TestConnectionMonitorTransitions(t *testing.T) {
	m := NewConnectionMonitor()
	if m.Status() != models.StatusOffline {
		t.Fatalf("initial status = %s", m.Status())
	}
	if m.Disconnected() {
		t.Fatalf("disconnect while offline must not report a change")
	}
	if !m.Connected() || m.Status() != models.StatusOnline {
		t.Fatalf("expected Online")
	}
	if m.Connected() {
		t.Fatalf("repeated connect must not report a change")
	}
	if !m.Disconnected() || m.Status() != models.StatusOffline {
		t.Fatalf("expected Offline")
	}
	m.SetClients(3)
	if m.Clients() != 3 {
		t.Fatalf("clients = %d", m.Clients())
	}
}
