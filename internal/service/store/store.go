package store

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/vending-fleet/internal/domain"
	"github.com/seu-repo/vending-fleet/internal/observability/telemetry"
)

const (
	DefaultTransactionCapacity = 200
	DefaultEventCapacity       = 300
)

type Options struct {
	TransactionCapacity int
	EventCapacity       int
}

func DefaultOptions() Options {
	return Options{
		TransactionCapacity: DefaultTransactionCapacity,
		EventCapacity:       DefaultEventCapacity,
	}
}

// Snapshot is a point-in-time copy of the fleet state. Callers may keep it;
// nothing inside aliases the live store except the immutable Location
// pointers.
type Snapshot struct {
	Machines      []domain.Machine     `json:"machines"`
	Transactions  []domain.Transaction `json:"transactions"`
	Events        []domain.SystemEvent `json:"events"`
	HourlyRevenue [24]int              `json:"hourly_revenue"`
	HourlyTraffic [24]int              `json:"hourly_traffic"`
	TakenAt       time.Time            `json:"taken_at"`
}

// Store owns all mutable fleet state.
type Store struct {
	mu sync.RWMutex

	machines []*domain.Machine
	byID     map[string]*domain.Machine

	transactions *History[domain.Transaction]
	events       *History[domain.SystemEvent]

	hourlyRevenue [24]int
	hourlyTraffic [24]int

	txSeq uint64
	evSeq uint64

	running bool
	log     *zap.Logger
}

func New(machines []*domain.Machine, revenue, traffic [24]int, opts Options, log *zap.Logger) *Store {
	if opts.TransactionCapacity <= 0 {
		opts.TransactionCapacity = DefaultTransactionCapacity
	}
	if opts.EventCapacity <= 0 {
		opts.EventCapacity = DefaultEventCapacity
	}

	byID := make(map[string]*domain.Machine, len(machines))
	for _, m := range machines {
		byID[m.ID] = m
	}

	s := &Store{
		machines:      machines,
		byID:          byID,
		transactions:  NewHistory[domain.Transaction](opts.TransactionCapacity),
		events:        NewHistory[domain.SystemEvent](opts.EventCapacity),
		hourlyRevenue: revenue,
		hourlyTraffic: traffic,
		log:           log,
	}
	s.refreshStatusGauge()

	log.Info("Fleet state initialized",
		zap.Int("machines", len(machines)),
		zap.Int("transaction_capacity", opts.TransactionCapacity),
		zap.Int("event_capacity", opts.EventCapacity),
	)
	return s
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	machines := make([]domain.Machine, len(s.machines))
	for i, m := range s.machines {
		machines[i] = m.Clone()
	}

	return Snapshot{
		Machines:      machines,
		Transactions:  s.transactions.Items(),
		Events:        s.events.Items(),
		HourlyRevenue: s.hourlyRevenue,
		HourlyTraffic: s.hourlyTraffic,
		TakenAt:       time.Now(),
	}
}

// Machine looks up one machine by id and returns a copy.
func (s *Store) Machine(id string) (domain.Machine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.byID[id]
	if !ok {
		return domain.Machine{}, false
	}
	return m.Clone(), true
}

func (s *Store) SetRunning(running bool) {
	s.mu.Lock()
	s.running = running
	s.mu.Unlock()
}

func (s *Store) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Mutate runs fn with exclusive access to the live state. It is the only
// write path into the store.
func (s *Store) Mutate(fn func(w *Writer)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&Writer{s: s})
	s.refreshStatusGauge()
}

func (s *Store) refreshStatusGauge() {
	counts := make(map[domain.MachineStatus]int, len(domain.MachineStatuses))
	for _, m := range s.machines {
		counts[m.Status]++
	}
	for _, st := range domain.MachineStatuses {
		telemetry.MachinesByStatus.WithLabelValues(string(st)).Set(float64(counts[st]))
	}
}

// Writer is the mutable view handed to Mutate callbacks. It must not be
// retained after the callback returns.
type Writer struct {
	s *Store
}

// Machines returns the live machine pointers in fleet order.
func (w *Writer) Machines() []*domain.Machine {
	return w.s.machines
}

func (w *Writer) Machine(id string) *domain.Machine {
	return w.s.byID[id]
}

func (w *Writer) NextTransactionID() string {
	w.s.txSeq++
	return fmt.Sprintf("TX-%06d", w.s.txSeq)
}

func (w *Writer) NextEventID() string {
	w.s.evSeq++
	return fmt.Sprintf("EV-%06d", w.s.evSeq)
}

func (w *Writer) PushTransaction(tx domain.Transaction) {
	if w.s.transactions.Push(tx) {
		telemetry.HistoryEvictionsTotal.WithLabelValues("transactions").Inc()
	}
}

func (w *Writer) PushEvent(ev domain.SystemEvent) {
	if w.s.events.Push(ev) {
		telemetry.HistoryEvictionsTotal.WithLabelValues("events").Inc()
	}
}

// RecordSale adds one sale of amount to the hour-of-day aggregates.
func (w *Writer) RecordSale(hour, amount int) {
	if hour < 0 || hour > 23 {
		return
	}
	w.s.hourlyRevenue[hour] += amount
	w.s.hourlyTraffic[hour]++
}
