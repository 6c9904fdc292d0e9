package simulation

import (
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/vending-fleet/internal/domain"
	"github.com/seu-repo/vending-fleet/internal/random"
	"github.com/seu-repo/vending-fleet/internal/service/catalog"
	"github.com/seu-repo/vending-fleet/internal/service/notify"
	"github.com/seu-repo/vending-fleet/internal/service/store"
)

// Config holds the in-process simulation parameters.
type Config struct {
	MachinesPerLocation int      `mapstructure:"machines_per_location"`
	TransactionInterval Interval `mapstructure:"transaction_interval"`
	EventInterval       Interval `mapstructure:"event_interval"`
	TransactionCapacity int      `mapstructure:"transaction_capacity"`
	EventCapacity       int      `mapstructure:"event_capacity"`
	// Seed fixes the random source; 0 seeds from the clock.
	Seed int64 `mapstructure:"seed"`
}

func DefaultConfig() Config {
	return Config{
		MachinesPerLocation: 4,
		TransactionInterval: Interval{Min: 2 * time.Second, Max: 4 * time.Second},
		EventInterval:       Interval{Min: 5 * time.Second, Max: 10 * time.Second},
		TransactionCapacity: store.DefaultTransactionCapacity,
		EventCapacity:       store.DefaultEventCapacity,
	}
}

type engineOptions struct {
	src      random.Source
	now      func() time.Time
	odds     Odds
	products []domain.Product
	machines []*domain.Machine
}

type Option func(*engineOptions)

// WithSource injects the random source used everywhere in the engine.
func WithSource(src random.Source) Option {
	return func(o *engineOptions) { o.src = src }
}

func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) { o.now = now }
}

func WithOdds(odds Odds) Option {
	return func(o *engineOptions) { o.odds = odds }
}

// WithFleet replaces the generated catalog and fleet.
func WithFleet(products []domain.Product, machines []*domain.Machine) Option {
	return func(o *engineOptions) {
		o.products = products
		o.machines = machines
	}
}

// Engine is the simulation controller. It owns the fleet state, the
// notification bus, both generators and their scheduler.
type Engine struct {
	store        *store.Store
	bus          *notify.Bus
	transactions *TransactionGenerator
	events       *EventGenerator
	scheduler    *Scheduler
	src          random.Source
	products     []domain.Product
	locations    []domain.Location
	log          *zap.Logger
}

func NewEngine(cfg Config, log *zap.Logger, opts ...Option) *Engine {
	o := engineOptions{now: time.Now, odds: DefaultOdds()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.src == nil {
		o.src = random.New(cfg.Seed)
	}

	locations := catalog.Locations()
	if o.products == nil {
		o.products = catalog.Products()
	}
	if o.machines == nil {
		o.machines = catalog.BuildFleet(o.src, o.products, locations, catalog.FleetOptions{
			MachinesPerLocation: cfg.MachinesPerLocation,
			Now:                 o.now(),
		})
	}

	revenue, traffic := catalog.SeedHourly(o.src)
	st := store.New(o.machines, revenue, traffic, store.Options{
		TransactionCapacity: cfg.TransactionCapacity,
		EventCapacity:       cfg.EventCapacity,
	}, log)
	bus := notify.NewBus()

	e := &Engine{
		store:     st,
		bus:       bus,
		src:       o.src,
		products:  o.products,
		locations: locations,
		log:       log,
	}
	e.transactions = NewTransactionGenerator(st, bus, o.products, o.src, o.odds, o.now, log.Named("transactions"))
	e.events = NewEventGenerator(st, bus, o.src, o.odds, o.now, log.Named("events"))
	e.scheduler = NewScheduler(
		Job{Name: "transactions", Interval: cfg.TransactionInterval, Run: func() { e.transactions.Tick() }},
		Job{Name: "events", Interval: cfg.EventInterval, Run: func() { e.events.Tick() }},
		o.src,
		log.Named("scheduler"),
	)
	return e
}

// Start begins generating. Calling it while running is a no-op.
func (e *Engine) Start() {
	if e.scheduler.Start() {
		e.store.SetRunning(true)
	}
}

// Stop halts generation. Safe before Start and on repeat calls.
func (e *Engine) Stop() {
	e.scheduler.Stop()
	e.store.SetRunning(false)
}

func (e *Engine) Running() bool {
	return e.scheduler.Running()
}

func (e *Engine) Snapshot() store.Snapshot {
	return e.store.Snapshot()
}

func (e *Engine) Machine(id string) (domain.Machine, bool) {
	return e.store.Machine(id)
}

// Products returns the catalog. Callers must not modify it.
func (e *Engine) Products() []domain.Product {
	return e.products
}

// Locations returns the site list. Callers must not modify it.
func (e *Engine) Locations() []domain.Location {
	return e.locations
}

// Source exposes the engine's random source to on-demand consumers such as
// the heatmap.
func (e *Engine) Source() random.Source {
	return e.src
}

// Periods returns the timer periods drawn by the last Start.
func (e *Engine) Periods() (transactions, events time.Duration) {
	return e.scheduler.Periods()
}

func (e *Engine) OnTransaction(fn func(domain.Transaction)) notify.Unsubscribe {
	return e.bus.OnTransaction(fn)
}

func (e *Engine) OnSystemEvent(fn func(domain.SystemEvent)) notify.Unsubscribe {
	return e.bus.OnSystemEvent(fn)
}

func (e *Engine) OnUpdate(fn func(notify.Update)) notify.Unsubscribe {
	return e.bus.OnUpdate(fn)
}
