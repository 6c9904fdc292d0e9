package simulation

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/seu-repo/vending-fleet/internal/observability/telemetry"
	"github.com/seu-repo/vending-fleet/internal/random"
)

// Interval is a half-open [Min,Max) range a timer period is drawn from.
type Interval struct {
	Min time.Duration `mapstructure:"min"`
	Max time.Duration `mapstructure:"max"`
}

func (iv Interval) draw(src random.Source) time.Duration {
	d := iv.Min
	if iv.Max > iv.Min {
		d += time.Duration(src.Float64() * float64(iv.Max-iv.Min))
	}
	if d <= 0 {
		// time.NewTicker panics on non-positive periods.
		d = time.Millisecond
	}
	return d
}

// Job is one named periodic callback.
type Job struct {
	Name     string
	Interval Interval
	Run      func()
}

// Scheduler runs two jobs on independent timers. Both timers are served by
// a single goroutine, so job bodies never overlap.
//
// Periods are drawn once per Start and kept until Stop.
type Scheduler struct {
	transactions Job
	events       Job
	src          random.Source
	log          *zap.Logger
	tracer       trace.Tracer

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
	txPeriod time.Duration
	evPeriod time.Duration
}

func NewScheduler(transactions, events Job, src random.Source, log *zap.Logger) *Scheduler {
	return &Scheduler{
		transactions: transactions,
		events:       events,
		src:          src,
		log:          log,
		tracer:       otel.Tracer("github.com/seu-repo/vending-fleet/simulation"),
	}
}

// Start draws both periods and starts the timers. It reports false, and does
// nothing, when already running.
func (s *Scheduler) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return false
	}

	s.txPeriod = s.transactions.Interval.draw(s.src)
	s.evPeriod = s.events.Interval.draw(s.src)
	s.stopChan = make(chan struct{})
	s.running = true

	s.wg.Add(1)
	go s.loop(s.stopChan, s.txPeriod, s.evPeriod)

	s.log.Info("Scheduler started",
		zap.Duration("transaction_period", s.txPeriod),
		zap.Duration("event_period", s.evPeriod),
	)
	return true
}

// Stop cancels both timers and waits for the loop to exit. A tick already
// running completes first. Safe to call at any time, any number of times.
// It must not be called from inside a job.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	close(s.stopChan)
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("Scheduler stopped")
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Periods returns the periods drawn by the last Start.
func (s *Scheduler) Periods() (transactions, events time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txPeriod, s.evPeriod
}

func (s *Scheduler) loop(stop <-chan struct{}, txPeriod, evPeriod time.Duration) {
	defer s.wg.Done()

	txTicker := time.NewTicker(txPeriod)
	defer txTicker.Stop()
	evTicker := time.NewTicker(evPeriod)
	defer evTicker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-txTicker.C:
			s.fire(stop, s.transactions, txPeriod)
		case <-evTicker.C:
			s.fire(stop, s.events, evPeriod)
		}
	}
}

func (s *Scheduler) fire(stop <-chan struct{}, job Job, period time.Duration) {
	// select picks randomly among ready cases; never start a tick after Stop.
	select {
	case <-stop:
		return
	default:
	}

	_, span := s.tracer.Start(context.Background(), "simulation.tick",
		trace.WithAttributes(
			attribute.String("job", job.Name),
			attribute.Int64("period_ms", period.Milliseconds()),
		),
	)
	start := time.Now()
	job.Run()
	telemetry.TickDuration.WithLabelValues(job.Name).Observe(time.Since(start).Seconds())
	span.End()
}
