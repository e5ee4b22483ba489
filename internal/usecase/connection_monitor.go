package usecase

import (
	"sync"

	"SignalDesk/internal/domain/models"
)

// ConnectionMonitor tracks push transport connectivity. Offline until the first connect.
type ConnectionMonitor struct {
	mu      sync.RWMutex
	status  models.ConnectionStatus
	clients int
}

func NewConnectionMonitor() *ConnectionMonitor {
	return &ConnectionMonitor{status: models.StatusOffline}
}

// Connected records a transport connect. It reports whether the status changed.
func (c *ConnectionMonitor) Connected() bool { return c.set(models.StatusOnline) }

// Disconnected records a transport disconnect. It reports whether the status changed.
func (c *ConnectionMonitor) Disconnected() bool { return c.set(models.StatusOffline) }

func (c *ConnectionMonitor) set(s models.ConnectionStatus) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == s {
		return false
	}
	c.status = s
	return true
}

func (c *ConnectionMonitor) Status() models.ConnectionStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// SetClients stores the server-reported client count.
func (c *ConnectionMonitor) SetClients(n int) {
	c.mu.Lock()
	c.clients = n
	c.mu.Unlock()
}

func (c *ConnectionMonitor) Clients() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clients
}
