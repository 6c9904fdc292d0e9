package simulation

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/vending-fleet/internal/domain"
	"github.com/seu-repo/vending-fleet/internal/observability/telemetry"
	"github.com/seu-repo/vending-fleet/internal/random"
	"github.com/seu-repo/vending-fleet/internal/service/catalog"
	"github.com/seu-repo/vending-fleet/internal/service/notify"
	"github.com/seu-repo/vending-fleet/internal/service/store"
)

const lowStockThreshold = 2

// TransactionGenerator invents one card sale per tick.
type TransactionGenerator struct {
	store    *store.Store
	bus      *notify.Bus
	products []domain.Product
	src      random.Source
	odds     Odds
	now      func() time.Time
	log      *zap.Logger
}

func NewTransactionGenerator(st *store.Store, bus *notify.Bus, products []domain.Product, src random.Source, odds Odds, now func() time.Time, log *zap.Logger) *TransactionGenerator {
	return &TransactionGenerator{
		store:    st,
		bus:      bus,
		products: products,
		src:      src,
		odds:     odds,
		now:      now,
		log:      log,
	}
}

// Tick attempts one sale. It reports false when no machine can transact.
//
// The product is drawn from the whole catalog, not the machine's planogram.
// When no stocked slot carries it the transaction is still recorded but
// moves no stock and books no revenue.
func (g *TransactionGenerator) Tick() (domain.Transaction, bool) {
	var (
		tx       domain.Transaction
		events   []domain.SystemEvent
		produced bool
		phantom  bool
	)

	g.store.Mutate(func(w *store.Writer) {
		candidates := make([]*domain.Machine, 0, len(w.Machines()))
		for _, m := range w.Machines() {
			if m.Status.CanTransact() {
				candidates = append(candidates, m)
			}
		}
		if len(candidates) == 0 {
			return
		}

		m := random.Choice(g.src, candidates)
		product, idx := random.Pick(g.src, g.products, catalog.ProductWeight)
		if idx < 0 {
			return
		}
		slot := stockedSlot(m, product.ID)
		approved := random.Chance(g.src, g.odds.Approval)
		now := g.now()

		if approved && slot != nil {
			if slot.Stock > 0 {
				slot.Stock--
			}
			m.RevenueToday += product.Price
			m.TransactionsToday++
			m.LastActivity = now
			w.RecordSale(now.Hour(), product.Price)

			if ev, ok := stockEvent(w, m, slot, product, now); ok {
				w.PushEvent(ev)
				events = append(events, ev)
			}
		}
		phantom = slot == nil

		tx = domain.Transaction{
			ID:          w.NextTransactionID(),
			MachineID:   m.ID,
			MachineName: m.Name,
			ProductID:   product.ID,
			ProductName: product.Name,
			Amount:      product.Price,
			Timestamp:   now,
			Success:     approved,
		}
		w.PushTransaction(tx)

		terminal := terminalEvent(w, m, tx)
		w.PushEvent(terminal)
		events = append(events, terminal)
		produced = true
	})

	if !produced {
		g.log.Debug("No machine available for a transaction")
		return domain.Transaction{}, false
	}

	g.record(tx, events, phantom)

	g.bus.PublishTransaction(tx)
	for _, ev := range events {
		g.bus.PublishSystemEvent(ev)
	}
	g.bus.PublishUpdate(notify.Update{Kind: notify.UpdateTransaction, MachineID: tx.MachineID, At: tx.Timestamp})

	return tx, true
}

func (g *TransactionGenerator) record(tx domain.Transaction, events []domain.SystemEvent, phantom bool) {
	result := "declined"
	if tx.Success {
		result = "approved"
	}
	telemetry.TransactionsTotal.WithLabelValues(result).Inc()
	if phantom {
		telemetry.PhantomSalesTotal.Inc()
	} else if tx.Success {
		telemetry.RevenueTotal.Add(float64(tx.Amount))
	}
	for _, ev := range events {
		telemetry.SystemEventsTotal.WithLabelValues(string(ev.Type), string(ev.Category)).Inc()
	}

	g.log.Debug("Transaction generated",
		zap.String("transaction_id", tx.ID),
		zap.String("machine_id", tx.MachineID),
		zap.String("product_id", tx.ProductID),
		zap.Int("amount", tx.Amount),
		zap.Bool("success", tx.Success),
		zap.Bool("phantom", phantom),
	)
}

// stockedSlot returns the first slot, in grid order, holding productID with
// stock left.
func stockedSlot(m *domain.Machine, productID string) *domain.PlanogramSlot {
	for i := range m.Planogram {
		s := &m.Planogram[i]
		if s.ProductID == productID && s.Stock > 0 {
			return s
		}
	}
	return nil
}

func stockEvent(w *store.Writer, m *domain.Machine, slot *domain.PlanogramSlot, p domain.Product, now time.Time) (domain.SystemEvent, bool) {
	switch {
	case slot.Stock == 0:
		return domain.SystemEvent{
			ID:          w.NextEventID(),
			MachineID:   m.ID,
			MachineName: m.Name,
			Type:        domain.EventTypeError,
			Category:    domain.EventCategoryStock,
			Message:     fmt.Sprintf("Slot %s sold out: %s", slotLabel(slot), p.Name),
			Timestamp:   now,
			Code:        domain.CodeStockEmpty,
		}, true
	case slot.Stock <= lowStockThreshold:
		return domain.SystemEvent{
			ID:          w.NextEventID(),
			MachineID:   m.ID,
			MachineName: m.Name,
			Type:        domain.EventTypeWarning,
			Category:    domain.EventCategoryStock,
			Message:     fmt.Sprintf("Slot %s low on %s (%d/%d left)", slotLabel(slot), p.Name, slot.Stock, slot.MaxStock),
			Timestamp:   now,
			Code:        domain.CodeStockLow,
		}, true
	}
	return domain.SystemEvent{}, false
}

func terminalEvent(w *store.Writer, m *domain.Machine, tx domain.Transaction) domain.SystemEvent {
	ev := domain.SystemEvent{
		ID:          w.NextEventID(),
		MachineID:   m.ID,
		MachineName: m.Name,
		Category:    domain.EventCategoryTransaction,
		Timestamp:   tx.Timestamp,
	}
	if tx.Success {
		ev.Type = domain.EventTypeSuccess
		ev.Code = domain.CodeTransactionCompleted
		ev.Message = fmt.Sprintf("%s card payment approved: %s %s", tx.ID, tx.ProductName, formatCents(tx.Amount))
	} else {
		ev.Type = domain.EventTypeWarning
		ev.Code = domain.CodeTransactionDeclined
		ev.Message = fmt.Sprintf("%s card declined, customer prompted to retry: %s", tx.ID, tx.ProductName)
	}
	return ev
}

// slotLabel renders a slot as row letter + 1-based column, e.g. "C4".
func slotLabel(s *domain.PlanogramSlot) string {
	return fmt.Sprintf("%c%d", 'A'+rune(s.Row), s.Col+1)
}

func formatCents(c int) string {
	return fmt.Sprintf("$%d.%02d", c/100, c%100)
}
