package catalog

import (
	"fmt"
	"time"

	"github.com/seu-repo/vending-fleet/internal/domain"
	"github.com/seu-repo/vending-fleet/internal/random"
)

// InitialStatus is the status mix a freshly generated fleet is drawn from.
var InitialStatus = random.NewTable(
	random.Outcome[domain.MachineStatus]{Key: domain.MachineStatusOnline, Weight: 0.70},
	random.Outcome[domain.MachineStatus]{Key: domain.MachineStatusError, Weight: 0.10},
	random.Outcome[domain.MachineStatus]{Key: domain.MachineStatusWarning, Weight: 0.15},
	random.Outcome[domain.MachineStatus]{Key: domain.MachineStatusOffline, Weight: 0.05},
)

const (
	billValidatorFaultRate = 0.5
	cardReaderWarningRate  = 0.3

	minMaxStock = 6
	maxMaxStock = 10
)

var firmwareVersions = []string{"v2.4.1", "v2.4.3", "v2.5.0", "v2.5.2"}

// FleetOptions tunes fleet generation.
type FleetOptions struct {
	MachinesPerLocation int
	Now                 time.Time
}

func DefaultFleetOptions() FleetOptions {
	return FleetOptions{MachinesPerLocation: 4}
}

// BuildFleet generates the initial machine set, MachinesPerLocation per site.
// Locations are referenced, not copied, so the slice passed in must outlive
// the machines.
func BuildFleet(src random.Source, products []domain.Product, locs []domain.Location, opts FleetOptions) []*domain.Machine {
	if opts.MachinesPerLocation <= 0 {
		opts.MachinesPerLocation = DefaultFleetOptions().MachinesPerLocation
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	machines := make([]*domain.Machine, 0, len(locs)*opts.MachinesPerLocation)
	seq := 0
	for li := range locs {
		loc := &locs[li]
		for n := 1; n <= opts.MachinesPerLocation; n++ {
			seq++
			status := InitialStatus.Roll(src)
			m := &domain.Machine{
				ID:              fmt.Sprintf("VM-%03d", seq),
				Name:            fmt.Sprintf("%s #%d", loc.Name, n),
				Location:        loc,
				Status:          status,
				Hardware:        buildHardware(src, status),
				Planogram:       BuildPlanogram(src, products),
				FirmwareVersion: random.Choice(src, firmwareVersions),
			}
			seedActivity(src, m, opts.Now)
			machines = append(machines, m)
		}
	}
	return machines
}

func buildHardware(src random.Source, status domain.MachineStatus) domain.HardwareStatus {
	hw := domain.HardwareStatus{
		BillValidator:  domain.ComponentOK,
		CardReader:     domain.ComponentOK,
		MotorBoard:     domain.ComponentOK,
		Display:        domain.ComponentOK,
		Temperature:    roundTenth(random.FloatBetween(src, 3, 7)),
		Connectivity:   random.IntBetween(src, 60, 100),
		ConnectionType: random.Choice(src, domain.ConnectionTypes),
	}

	switch status {
	case domain.MachineStatusOffline:
		hw.Connectivity = 0
	case domain.MachineStatusError:
		if random.Chance(src, billValidatorFaultRate) {
			hw.BillValidator = domain.ComponentError
		} else {
			hw.MotorBoard = domain.ComponentError
		}
	case domain.MachineStatusWarning:
		if random.Chance(src, cardReaderWarningRate) {
			hw.CardReader = domain.ComponentWarning
		}
		hw.Temperature = roundTenth(random.FloatBetween(src, 7, 10))
	}
	return hw
}

// BuildPlanogram fills a 10x6 grid, drawing each slot's product independently
// by weight.
func BuildPlanogram(src random.Source, products []domain.Product) []domain.PlanogramSlot {
	slots := make([]domain.PlanogramSlot, 0, domain.PlanogramRows*domain.PlanogramCols)
	for row := 0; row < domain.PlanogramRows; row++ {
		for col := 0; col < domain.PlanogramCols; col++ {
			slot := domain.PlanogramSlot{Row: row, Col: col}
			if p, idx := random.Pick(src, products, ProductWeight); idx >= 0 {
				slot.ProductID = p.ID
				slot.Price = p.Price
				slot.MaxStock = random.IntBetween(src, minMaxStock, maxMaxStock+1)
				slot.Stock = random.IntBetween(src, 1, slot.MaxStock+1)
			}
			slots = append(slots, slot)
		}
	}
	return slots
}

func seedActivity(src random.Source, m *domain.Machine, now time.Time) {
	if m.Status == domain.MachineStatusOffline {
		m.LastActivity = now.Add(-time.Duration(random.IntBetween(src, 2, 12)) * time.Hour)
		return
	}
	m.TransactionsToday = random.IntBetween(src, 5, 40)
	m.RevenueToday = m.TransactionsToday * random.IntBetween(src, 120, 260)
	m.LastActivity = now.Add(-time.Duration(random.IntBetween(src, 1, 30)) * time.Minute)
}

func roundTenth(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
