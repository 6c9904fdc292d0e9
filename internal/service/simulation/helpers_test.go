package simulation

import (
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/vending-fleet/internal/domain"
	"github.com/seu-repo/vending-fleet/internal/random"
	"github.com/seu-repo/vending-fleet/internal/service/notify"
	"github.com/seu-repo/vending-fleet/internal/service/store"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

var testNow = time.Date(2024, 6, 3, 14, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

var testLocation = &domain.Location{ID: "LOC-T", Name: "Test Site", City: "Testville"}

func testMachine(id string, status domain.MachineStatus, slots ...domain.PlanogramSlot) *domain.Machine {
	return &domain.Machine{
		ID:        id,
		Name:      "Machine " + id,
		Location:  testLocation,
		Status:    status,
		Planogram: slots,
		Hardware: domain.HardwareStatus{
			BillValidator: domain.ComponentOK,
			CardReader:    domain.ComponentOK,
			MotorBoard:    domain.ComponentOK,
			Display:       domain.ComponentOK,
			Connectivity:  80,
		},
	}
}

type fixture struct {
	store  *store.Store
	bus    *notify.Bus
	txGen  *TransactionGenerator
	evGen  *EventGenerator
	events []domain.SystemEvent
	txs    []domain.Transaction
	order  []string
}

func newFixture(machines []*domain.Machine, products []domain.Product, odds Odds, seed int64) *fixture {
	src := random.New(seed)
	st := store.New(machines, [24]int{}, [24]int{}, store.DefaultOptions(), zap.NewNop())
	bus := notify.NewBus()
	f := &fixture{
		store: st,
		bus:   bus,
		txGen: NewTransactionGenerator(st, bus, products, src, odds, fixedClock, zap.NewNop()),
		evGen: NewEventGenerator(st, bus, src, odds, fixedClock, zap.NewNop()),
	}
	bus.OnTransaction(func(tx domain.Transaction) {
		f.txs = append(f.txs, tx)
		f.order = append(f.order, "transaction")
	})
	bus.OnSystemEvent(func(ev domain.SystemEvent) {
		f.events = append(f.events, ev)
		f.order = append(f.order, "event:"+ev.Code)
	})
	bus.OnUpdate(func(notify.Update) {
		f.order = append(f.order, "update")
	})
	return f
}

func (f *fixture) setStatus(id string, status domain.MachineStatus) {
	f.store.Mutate(func(w *store.Writer) {
		w.Machine(id).Status = status
	})
}

func (f *fixture) machine(id string) domain.Machine {
	m, _ := f.store.Machine(id)
	return m
}
