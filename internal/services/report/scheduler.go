package report

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dinerops/pizzametrics/internal/domain"
	"github.com/dinerops/pizzametrics/internal/ports"
	"github.com/dinerops/pizzametrics/internal/services/registry"
)

// DefaultInterval is the report cadence when the host configures none.
const DefaultInterval = 10 * time.Second

// Scheduler wakes on a fixed interval, snapshots the registry, drains the
// latency buffers, renders the batch, and hands it to the publisher. Each
// tick runs in its own goroutine so a slow or failing export never delays
// the next tick or blocks recording.
type Scheduler struct {
	reg      *registry.Registry
	lat      *registry.Sampler
	probe    ports.HostProbe
	pub      ports.Publisher
	render   *Renderer
	interval time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	started bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

func NewScheduler(interval time.Duration, source string, reg *registry.Registry, lat *registry.Sampler, probe ports.HostProbe, pub ports.Publisher, log *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		reg:      reg,
		lat:      lat,
		probe:    probe,
		pub:      pub,
		render:   NewRenderer(source),
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
	}
}

// Start arms the report timer. Calling Start on a running scheduler is a
// no-op; the timer is never double-armed. Reporting stops when ctx is
// cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		t := time.NewTicker(s.interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-t.C:
				s.wg.Add(1)
				go func() {
					defer s.wg.Done()
					s.tick(ctx)
				}()
			}
		}
	}()
}

// Stop disarms the timer and waits for in-flight ticks to finish.
func (s *Scheduler) Stop() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	s.wg.Wait()
}

// tick runs one report cycle. A panic inside the cycle is contained here
// so the next tick still fires on schedule.
func (s *Scheduler) tick(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error("report tick panicked", zap.Any("panic", rec))
		}
	}()

	batch := s.buildBatch()
	batchID := uuid.NewString()
	s.log.Debug("pushing metrics",
		zap.String("batch", batchID),
		zap.Int("metrics", len(batch)),
	)

	if err := s.pub.Push(ctx, batch); err != nil {
		// Best effort: the batch is discarded, counters keep their
		// totals, but latency samples drained above are gone.
		s.log.Warn("metrics push failed",
			zap.String("batch", batchID),
			zap.Error(err),
		)
		return
	}
	s.log.Debug("metrics pushed", zap.String("batch", batchID))
}

// buildBatch reads one consistent cut of the registry and latency buffers
// and renders it. The latency drain is the irrevocable boundary: drained
// samples cannot be recovered if the subsequent push fails.
func (s *Scheduler) buildBatch() []domain.Metric {
	snap := s.reg.Snapshot()
	batch := make([]domain.Metric, 0, len(snap.Requests)+9)

	methods := make([]string, 0, len(snap.Requests))
	for m := range snap.Requests {
		methods = append(methods, m)
	}
	slices.Sort(methods)
	for _, m := range methods {
		batch = append(batch, s.render.Int("requests", "1", domain.Sum, snap.Requests[m], map[string]string{"method": m}))
	}

	batch = append(batch,
		s.render.Int("activeUsers", "1", domain.Gauge, snap.ActiveUsers, nil),
		s.render.Int("successfulLogins", "1", domain.Sum, snap.SuccessfulLogins, nil),
		s.render.Int("failedLogins", "1", domain.Sum, snap.FailedLogins, nil),
	)

	if cpu, err := s.probe.CPUPercent(); err != nil {
		s.log.Warn("cpu probe failed", zap.Error(err))
	} else {
		batch = append(batch, s.render.Double("cpuUsage", "%", domain.Gauge, cpu, nil))
	}
	if mem, err := s.probe.MemoryPercent(); err != nil {
		s.log.Warn("memory probe failed", zap.Error(err))
	} else {
		batch = append(batch, s.render.Double("memoryUsage", "%", domain.Gauge, mem, nil))
	}

	batch = append(batch,
		s.render.Int("pizzasSold", "1", domain.Sum, snap.PizzasSold, nil),
		s.render.Int("pizzaCreationFailures", "1", domain.Sum, snap.PizzaCreationFailures, nil),
		s.render.Double("totalRevenue", "1", domain.Sum, snap.TotalRevenue, nil),
	)

	for _, cat := range s.lat.Categories() {
		mean, ok := s.lat.DrainMean(cat)
		if !ok {
			continue
		}
		batch = append(batch, s.render.Double(cat+"Latency", "ms", domain.Gauge, mean, nil))
	}
	return batch
}
