package app

import (
	"context"
	"sync"
	"time"

	"github.com/kilianp07/robocmd/infra/logger"
)

// Application is a component driven by the Manager.
type Application interface {
	Name() string
	// OnMonitor is called periodically from the monitor loop.
	OnMonitor()
}

// DefaultMonitorInterval is used when the Manager is created with a
// non-positive interval.
const DefaultMonitorInterval = time.Second

// Manager owns the registered applications and runs their monitor hooks.
type Manager struct {
	mu       sync.Mutex
	apps     []Application
	interval time.Duration
	log      logger.Logger
}

// NewManager creates a Manager ticking every interval.
func NewManager(interval time.Duration, log logger.Logger) *Manager {
	if interval <= 0 {
		interval = DefaultMonitorInterval
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Manager{interval: interval, log: log}
}

// Register adds an application to the monitor loop.
func (m *Manager) Register(a Application) {
	m.mu.Lock()
	m.apps = append(m.apps, a)
	m.mu.Unlock()
	m.log.Infof("application %s registered", a.Name())
}

// Applications returns the registered application names in order.
func (m *Manager) Applications() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.apps))
	for i, a := range m.apps {
		names[i] = a.Name()
	}
	return names
}

// Monitor calls OnMonitor on every registered application once.
func (m *Manager) Monitor() {
	m.mu.Lock()
	apps := append([]Application(nil), m.apps...)
	m.mu.Unlock()
	for _, a := range apps {
		a.OnMonitor()
	}
}

// Run drives the monitor loop until ctx is canceled.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Monitor()
		}
	}
}
