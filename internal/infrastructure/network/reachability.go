package network

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"medconnect/pkg/errors"
	"medconnect/pkg/logger"
)

type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Monitor tracks whether the backend host accepts connections. Writes check
// it before going out and fail fast with a NETWORK error.
type Monitor struct {
	host     string
	interval time.Duration
	dial     DialFunc

	reachable atomic.Bool
}

func NewMonitor(host string, interval time.Duration) *Monitor {
	d := &net.Dialer{Timeout: 5 * time.Second}
	m := &Monitor{
		host:     host,
		interval: interval,
		dial:     d.DialContext,
	}
	m.reachable.Store(true)
	return m
}

// Start checks once and then every interval until ctx is done.
func (m *Monitor) Start(ctx context.Context) {
	m.Check(ctx)

	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.Check(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (m *Monitor) Check(ctx context.Context) bool {
	conn, err := m.dial(ctx, "tcp", m.host)
	ok := err == nil
	if ok {
		conn.Close()
	}

	if prev := m.reachable.Swap(ok); prev != ok {
		if ok {
			logger.Info("Backend %s reachable again", m.host)
		} else {
			logger.Warn("Backend %s unreachable: %v", m.host, err)
		}
	}
	return ok
}

func (m *Monitor) Reachable() bool {
	return m.reachable.Load()
}

// Require returns a NETWORK error when the last check failed.
func (m *Monitor) Require() error {
	if !m.Reachable() {
		return errors.Network()
	}
	return nil
}
