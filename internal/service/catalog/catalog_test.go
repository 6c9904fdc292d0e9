package catalog

import (
	"testing"
	"time"

	"github.com/seu-repo/vending-fleet/internal/domain"
	"github.com/seu-repo/vending-fleet/internal/random"
)

func TestProducts_Catalog(t *testing.T) {
	products := Products()

	if len(products) != 50 {
		t.Fatalf("expected 50 products, got %d", len(products))
	}

	seen := make(map[string]bool)
	for _, p := range products {
		if seen[p.ID] {
			t.Errorf("duplicate product id %s", p.ID)
		}
		seen[p.ID] = true
		if p.Weight < 1 || p.Weight > 3 {
			t.Errorf("product %s has weight %d outside 1-3", p.ID, p.Weight)
		}
		if p.Price <= 0 {
			t.Errorf("product %s has non-positive price %d", p.ID, p.Price)
		}
		if p.Name == "" || p.Category == "" || p.Icon == "" {
			t.Errorf("product %s is missing display fields: %+v", p.ID, p)
		}
	}

	// Mutating a returned slice must not leak into the next call.
	products[0].Price = -1
	if Products()[0].Price == -1 {
		t.Error("expected Products to return an independent copy")
	}
}

func TestLocations(t *testing.T) {
	locs := Locations()
	if len(locs) != 5 {
		t.Fatalf("expected 5 locations, got %d", len(locs))
	}
	for _, l := range locs {
		if l.ID == "" || l.City == "" {
			t.Errorf("incomplete location %+v", l)
		}
	}
}

func TestBuildFleet_Shape(t *testing.T) {
	// Arrange
	src := random.New(99)
	products := Products()
	locs := Locations()

	// Act
	machines := BuildFleet(src, products, locs, DefaultFleetOptions())

	// Assert
	if len(machines) != 20 {
		t.Fatalf("expected 20 machines, got %d", len(machines))
	}

	perLocation := make(map[string]int)
	ids := make(map[string]bool)
	for _, m := range machines {
		perLocation[m.Location.ID]++
		if ids[m.ID] {
			t.Errorf("duplicate machine id %s", m.ID)
		}
		ids[m.ID] = true

		if len(m.Planogram) != domain.PlanogramRows*domain.PlanogramCols {
			t.Errorf("machine %s has %d slots, want 60", m.ID, len(m.Planogram))
		}
		for _, s := range m.Planogram {
			if s.MaxStock < 6 || s.MaxStock > 10 {
				t.Errorf("machine %s slot %d/%d maxStock %d outside [6,10]", m.ID, s.Row, s.Col, s.MaxStock)
			}
			if s.Stock < 1 || s.Stock > s.MaxStock {
				t.Errorf("machine %s slot %d/%d stock %d outside [1,%d]", m.ID, s.Row, s.Col, s.Stock, s.MaxStock)
			}
			if s.ProductID == "" {
				t.Errorf("machine %s slot %d/%d has no product", m.ID, s.Row, s.Col)
			}
		}

		switch m.Status {
		case domain.MachineStatusOffline:
			if m.Hardware.Connectivity != 0 {
				t.Errorf("offline machine %s has connectivity %d", m.ID, m.Hardware.Connectivity)
			}
		case domain.MachineStatusError:
			if m.Hardware.BillValidator != domain.ComponentError && m.Hardware.MotorBoard != domain.ComponentError {
				t.Errorf("error machine %s shows no faulted component: %+v", m.ID, m.Hardware)
			}
		default:
			if m.Hardware.Connectivity < 60 || m.Hardware.Connectivity >= 100 {
				t.Errorf("machine %s connectivity %d outside [60,100)", m.ID, m.Hardware.Connectivity)
			}
		}
	}

	for _, l := range locs {
		if perLocation[l.ID] != 4 {
			t.Errorf("expected 4 machines at %s, got %d", l.ID, perLocation[l.ID])
		}
	}
}

func TestBuildFleet_LocationIsShared(t *testing.T) {
	locs := Locations()
	machines := BuildFleet(random.New(1), Products(), locs, FleetOptions{MachinesPerLocation: 1})

	if machines[0].Location != &locs[0] {
		t.Error("expected machines to reference the location slice, not a copy")
	}
}

func TestInitialStatus_Distribution(t *testing.T) {
	src := random.New(2024)
	counts := make(map[domain.MachineStatus]int)
	const draws = 10000

	for i := 0; i < draws; i++ {
		counts[InitialStatus.Roll(src)]++
	}

	want := map[domain.MachineStatus]float64{
		domain.MachineStatusOnline:  0.70,
		domain.MachineStatusError:   0.10,
		domain.MachineStatusWarning: 0.15,
		domain.MachineStatusOffline: 0.05,
	}
	for status, share := range want {
		got := float64(counts[status]) / draws
		if got < share-0.03 || got > share+0.03 {
			t.Errorf("status %s: expected share ≈ %.2f, got %.3f", status, share, got)
		}
	}
}

func TestSeedHourly(t *testing.T) {
	revenue, traffic := SeedHourly(random.New(5))

	for h := 0; h < 24; h++ {
		if traffic[h] < 0 || revenue[h] < 0 {
			t.Errorf("hour %d has negative values: rev=%d traffic=%d", h, revenue[h], traffic[h])
		}
	}
	if traffic[12] <= traffic[3] {
		t.Errorf("expected lunch traffic (%d) above night traffic (%d)", traffic[12], traffic[3])
	}
}

func TestBuildFleet_OfflineActivityIsStale(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	machines := BuildFleet(random.New(3), Products(), Locations(), FleetOptions{MachinesPerLocation: 20, Now: now})

	for _, m := range machines {
		if m.LastActivity.After(now) {
			t.Errorf("machine %s has last activity in the future", m.ID)
		}
		if m.Status == domain.MachineStatusOffline && m.TransactionsToday != 0 {
			t.Errorf("offline machine %s should not carry sales, got %d", m.ID, m.TransactionsToday)
		}
	}
}
