package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// AvailabilityProber reports per-backend availability.
type AvailabilityProber interface {
	Availability(ctx context.Context) map[string]bool
}

const probeTimeout = 15 * time.Second

// healthMonitor keeps a cached availability snapshot so /health answers
// instantly instead of probing the CLI backend on every request.
type healthMonitor struct {
	prober   AvailabilityProber
	schedule string
	logger   *zap.Logger

	cron *cron.Cron

	mu        sync.RWMutex
	providers map[string]bool
	checkedAt time.Time
}

func newHealthMonitor(prober AvailabilityProber, schedule string, logger *zap.Logger) *healthMonitor {
	return &healthMonitor{
		prober:    prober,
		schedule:  schedule,
		logger:    logger,
		providers: map[string]bool{},
	}
}

// Start probes once immediately, then re-probes on the configured schedule.
func (m *healthMonitor) Start() error {
	m.probe()

	m.cron = cron.New()
	if _, err := m.cron.AddFunc(m.schedule, m.probe); err != nil {
		return fmt.Errorf("schedule availability probe: %w", err)
	}
	m.cron.Start()

	return nil
}

// Stop halts the re-probe schedule.
func (m *healthMonitor) Stop() {
	if m.cron != nil {
		m.cron.Stop()
	}
}

func (m *healthMonitor) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	providers := m.prober.Availability(ctx)

	m.mu.Lock()
	m.providers = providers
	m.checkedAt = time.Now().UTC()
	m.mu.Unlock()

	m.logger.Debug("provider availability probed", zap.Any("providers", providers))
}

// Snapshot returns the latest probe outcome.
func (m *healthMonitor) Snapshot() (map[string]bool, time.Time) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]bool, len(m.providers))
	for name, ok := range m.providers {
		out[name] = ok
	}
	return out, m.checkedAt
}
