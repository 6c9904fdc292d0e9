package simulation

import "github.com/seu-repo/vending-fleet/internal/random"

// Branch is one outcome of a system event tick.
type Branch string

const (
	BranchHeartbeat     Branch = "heartbeat"
	BranchConnectivity  Branch = "connectivity"
	BranchWarning       Branch = "hardware_warning"
	BranchHardwareError Branch = "hardware_error"
)

// Odds collects every probability the generators roll against.
type Odds struct {
	// Approval is the chance a card payment goes through.
	Approval float64
	// Branches picks what a system event tick does. Rows are cumulative in
	// order: heartbeat up to 0.50, connectivity to 0.65, warning to 0.85,
	// hardware error above.
	Branches random.Table[Branch]
	// MotorFault is the chance a hardware error also faults the machine.
	MotorFault float64
	// SelfHeal is the chance a heartbeat brings a warning machine back online.
	SelfHeal float64
	// WeakSignal is the connectivity level below which a reading is a warning.
	WeakSignal int
}

func DefaultOdds() Odds {
	return Odds{
		Approval: 0.95,
		Branches: random.NewTable(
			random.Outcome[Branch]{Key: BranchHeartbeat, Weight: 0.50},
			random.Outcome[Branch]{Key: BranchConnectivity, Weight: 0.15},
			random.Outcome[Branch]{Key: BranchWarning, Weight: 0.20},
			random.Outcome[Branch]{Key: BranchHardwareError, Weight: 0.15},
		),
		MotorFault: 0.5,
		SelfHeal:   0.3,
		WeakSignal: 70,
	}
}
