package analytics

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/vending-fleet/internal/domain"
	"github.com/seu-repo/vending-fleet/internal/random"
	"github.com/seu-repo/vending-fleet/internal/service/catalog"
	"github.com/seu-repo/vending-fleet/internal/service/store"
)

var now = time.Date(2024, 6, 3, 14, 30, 0, 0, time.UTC)

var products = []domain.Product{
	{ID: "P001", Name: "Cola", Price: 150, Category: "Beverages"},
	{ID: "P002", Name: "Chips", Price: 125, Category: "Snacks"},
	{ID: "P003", Name: "Gum", Price: 100, Category: "Candy"},
	{ID: "P004", Name: "Water", Price: 100, Category: "Beverages"},
}

func tx(product string, amount int, success bool) domain.Transaction {
	return domain.Transaction{ProductID: product, Amount: amount, Success: success, Timestamp: now}
}

func TestFleetStats(t *testing.T) {
	// Arrange
	snap := store.Snapshot{
		Machines: []domain.Machine{
			{ID: "VM-001", Status: domain.MachineStatusOnline, RevenueToday: 1000, TransactionsToday: 3,
				Planogram: []domain.PlanogramSlot{{Stock: 0}, {Stock: 1}, {Stock: 2}, {Stock: 3}}},
			{ID: "VM-002", Status: domain.MachineStatusWarning, RevenueToday: 500, TransactionsToday: 2,
				Planogram: []domain.PlanogramSlot{{Stock: 2}}},
			{ID: "VM-003", Status: domain.MachineStatusError},
			{ID: "VM-004", Status: domain.MachineStatusOffline},
			{ID: "VM-005", Status: domain.MachineStatusOnline},
		},
		Events: []domain.SystemEvent{
			{Type: domain.EventTypeError, Timestamp: now.Add(-time.Minute)},
			{Type: domain.EventTypeWarning, Timestamp: now.Add(-time.Minute)},
			{Type: domain.EventTypeError, Timestamp: now.Add(-4*time.Minute - 59*time.Second)},
			{Type: domain.EventTypeError, Timestamp: now.Add(-6 * time.Minute)},
		},
	}

	// Act
	stats := FleetStats(snap, now)

	// Assert
	want := domain.FleetStats{
		TotalMachines:           5,
		Online:                  2,
		Warning:                 1,
		Error:                   1,
		Offline:                 1,
		TotalRevenue:            1500,
		TotalTransactions:       5,
		AverageTransactionValue: 300,
		CriticalAlerts:          2,
		LowStockSlots:           3,
	}
	if stats != want {
		t.Errorf("expected %+v, got %+v", want, stats)
	}
}

func TestFleetStats_AverageTransactionValue(t *testing.T) {
	tests := []struct {
		name    string
		revenue int
		count   int
		want    int
	}{
		{"no transactions", 0, 0, 0},
		{"exact", 900, 3, 300},
		{"rounds down", 1000, 3, 333},
		{"rounds up", 500, 3, 167},
		{"half rounds away from zero", 5, 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := store.Snapshot{Machines: []domain.Machine{{RevenueToday: tt.revenue, TransactionsToday: tt.count}}}

			if got := FleetStats(snap, now).AverageTransactionValue; got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestFleetStats_RevenueMatchesMachines(t *testing.T) {
	src := random.New(5)
	machines := catalog.BuildFleet(src, catalog.Products(), catalog.Locations(), catalog.DefaultFleetOptions())
	revenue, traffic := catalog.SeedHourly(src)
	snap := store.New(machines, revenue, traffic, store.DefaultOptions(), zap.NewNop()).Snapshot()

	sum := 0
	for _, m := range snap.Machines {
		sum += m.RevenueToday
	}

	if got := FleetStats(snap, now).TotalRevenue; got != sum {
		t.Errorf("expected total revenue %d, got %d", sum, got)
	}
}

func TestHourly(t *testing.T) {
	var snap store.Snapshot
	snap.HourlyRevenue[0] = 10
	snap.HourlyRevenue[9] = 900
	snap.HourlyTraffic[23] = 7

	points := Hourly(snap)

	if len(points) != 24 {
		t.Fatalf("expected 24 points, got %d", len(points))
	}
	if points[0].Hour != "00:00" || points[0].Revenue != 10 {
		t.Errorf("unexpected first point %+v", points[0])
	}
	if points[9].Hour != "09:00" || points[9].Revenue != 900 {
		t.Errorf("unexpected 09:00 point %+v", points[9])
	}
	if points[23].Hour != "23:00" || points[23].Traffic != 7 {
		t.Errorf("unexpected last point %+v", points[23])
	}
}

func productSnapshot() store.Snapshot {
	return store.Snapshot{
		Machines: []domain.Machine{
			{Planogram: []domain.PlanogramSlot{
				{ProductID: "P001", Stock: 3, MaxStock: 8},
				{ProductID: "P002", Stock: 1, MaxStock: 6},
			}},
			{Planogram: []domain.PlanogramSlot{
				{ProductID: "P001", Stock: 5, MaxStock: 10},
				{ProductID: ""},
			}},
		},
		Transactions: []domain.Transaction{
			tx("P001", 150, true),
			tx("P001", 150, true),
			tx("P002", 125, true),
			tx("P002", 125, false),
			tx("P003", 100, true),
			tx("P999", 999, true),
		},
	}
}

func TestTopProducts(t *testing.T) {
	// Act
	top := TopProducts(productSnapshot(), products, 5)

	// Assert
	if len(top) != 3 {
		t.Fatalf("expected only the 3 products with sales, got %d", len(top))
	}
	wantOrder := []string{"P001", "P002", "P003"}
	for i, id := range wantOrder {
		if top[i].ProductID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, top[i].ProductID)
		}
	}
	if top[0].Sold != 2 || top[0].Revenue != 300 || top[0].Stock != 8 || top[0].MaxStock != 18 {
		t.Errorf("unexpected cola tallies %+v", top[0])
	}
	if top[1].Sold != 1 || top[1].Revenue != 125 {
		t.Errorf("expected declined sale excluded, got %+v", top[1])
	}
}

func TestTopProducts_Limit(t *testing.T) {
	if got := TopProducts(productSnapshot(), products, 1); len(got) != 1 || got[0].ProductID != "P001" {
		t.Errorf("expected only P001, got %+v", got)
	}
	if got := TopProducts(productSnapshot(), products, 0); len(got) != 0 {
		t.Errorf("expected empty result for n=0, got %d", len(got))
	}
}

func TestBottomProducts(t *testing.T) {
	// Act
	bottom := BottomProducts(productSnapshot(), products, 5)

	// Assert
	if len(bottom) != len(products) {
		t.Fatalf("expected all %d catalog products, got %d", len(products), len(bottom))
	}
	// Water never sold and comes first; ties would keep catalog order.
	wantOrder := []string{"P004", "P003", "P002", "P001"}
	for i, id := range wantOrder {
		if bottom[i].ProductID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, bottom[i].ProductID)
		}
	}
	if bottom[0].Sold != 0 || bottom[0].Revenue != 0 || bottom[0].Stock != 0 {
		t.Errorf("expected zero tallies for unsold water, got %+v", bottom[0])
	}
}

func TestBottomProducts_TiesKeepCatalogOrder(t *testing.T) {
	bottom := BottomProducts(store.Snapshot{}, products, 2)

	if len(bottom) != 2 || bottom[0].ProductID != "P001" || bottom[1].ProductID != "P002" {
		t.Errorf("expected catalog order for all-zero revenue, got %+v", bottom)
	}
}

func TestHeatmap(t *testing.T) {
	src := random.New(8)

	a := Heatmap(src)
	b := Heatmap(src)

	if len(a.Days) != 7 || a.Days[0] != "Mon" || a.Days[6] != "Sun" {
		t.Fatalf("unexpected days %v", a.Days)
	}
	for d := range a.Values {
		curve := weekdayCurve
		if d >= 5 {
			curve = weekendCurve
		}
		for h, v := range a.Values[d] {
			lo := float64(curve[h]) * (1 - HeatmapJitter)
			hi := float64(curve[h]) * (1 + HeatmapJitter)
			if float64(v) < lo-0.5 || float64(v) > hi+0.5 {
				t.Fatalf("cell %s %02d:00 = %d outside [%.1f,%.1f]", a.Days[d], h, v, lo, hi)
			}
		}
	}
	if a.Values == b.Values {
		t.Error("expected successive heatmaps to differ")
	}
}
