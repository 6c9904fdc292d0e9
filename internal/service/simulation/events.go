package simulation

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/vending-fleet/internal/domain"
	"github.com/seu-repo/vending-fleet/internal/observability/telemetry"
	"github.com/seu-repo/vending-fleet/internal/random"
	"github.com/seu-repo/vending-fleet/internal/service/notify"
	"github.com/seu-repo/vending-fleet/internal/service/store"
)

type eventTemplate struct {
	message string
	code    string
}

var hardwareErrors = []eventTemplate{
	{"Motor jam detected in spiral drive", "HW_MOTOR_JAM"},
	{"Bill validator jammed, cash payments disabled", "HW_BILL_JAM"},
	{"Card reader not responding", "HW_CARD_READER_FAIL"},
	{"Display controller failure", "HW_DISPLAY_FAIL"},
	{"Compressor fault, cabinet temperature rising", "HW_COMPRESSOR_FAIL"},
}

var hardwareWarnings = []eventTemplate{
	{"Cabinet temperature above target", "HW_TEMP_HIGH"},
	{"Coin box nearly full", "HW_COIN_BOX_FULL"},
	{"Service door left ajar", "HW_DOOR_AJAR"},
	{"Bill validator needs cleaning", "HW_BILL_VALIDATOR_MAINT"},
	{"Delivery sensor intermittent", "HW_DROP_SENSOR_FLAKY"},
}

var heartbeats = []eventTemplate{
	{"Heartbeat received", "SYS_HEARTBEAT"},
	{"Self-test passed", "SYS_SELF_TEST_OK"},
	{"Planogram sync completed", "SYS_PLANOGRAM_SYNC"},
	{"Telemetry batch uploaded", "SYS_TELEMETRY_UPLOAD"},
}

// EventGenerator drives the machine status state machine. Each tick picks a
// machine, rolls a branch and emits exactly one event.
//
// Transitions: online -> warning (hardware warning), online|warning -> error
// (hardware error), warning -> online (heartbeat self-heal). Offline is
// never entered or left here and error has no way back.
type EventGenerator struct {
	store *store.Store
	bus   *notify.Bus
	src   random.Source
	odds  Odds
	now   func() time.Time
	log   *zap.Logger
}

func NewEventGenerator(st *store.Store, bus *notify.Bus, src random.Source, odds Odds, now func() time.Time, log *zap.Logger) *EventGenerator {
	return &EventGenerator{
		store: st,
		bus:   bus,
		src:   src,
		odds:  odds,
		now:   now,
		log:   log,
	}
}

// Tick emits one system event for a random machine.
func (g *EventGenerator) Tick() (domain.SystemEvent, bool) {
	return g.run("", nil)
}

// run executes one tick. An empty machineID picks a machine at random; a nil
// branch rolls one from the odds table.
func (g *EventGenerator) run(machineID string, branch *Branch) (domain.SystemEvent, bool) {
	var (
		ev       domain.SystemEvent
		produced bool
	)

	g.store.Mutate(func(w *store.Writer) {
		var m *domain.Machine
		if machineID != "" {
			m = w.Machine(machineID)
		} else if machines := w.Machines(); len(machines) > 0 {
			m = random.Choice(g.src, machines)
		}
		if m == nil {
			return
		}

		var b Branch
		if branch != nil {
			b = *branch
		} else {
			b = g.odds.Branches.Roll(g.src)
		}

		ev = domain.SystemEvent{
			MachineID:   m.ID,
			MachineName: m.Name,
			Timestamp:   g.now(),
		}
		switch b {
		case BranchHardwareError:
			g.hardwareError(m, &ev)
		case BranchWarning:
			g.hardwareWarning(m, &ev)
		case BranchConnectivity:
			g.connectivity(m, &ev)
		default:
			g.heartbeat(m, &ev)
		}

		ev.ID = w.NextEventID()
		w.PushEvent(ev)
		produced = true
	})

	if !produced {
		return domain.SystemEvent{}, false
	}

	telemetry.SystemEventsTotal.WithLabelValues(string(ev.Type), string(ev.Category)).Inc()
	g.log.Debug("System event generated",
		zap.String("event_id", ev.ID),
		zap.String("machine_id", ev.MachineID),
		zap.String("code", ev.Code),
		zap.String("type", string(ev.Type)),
	)

	g.bus.PublishSystemEvent(ev)
	g.bus.PublishUpdate(notify.Update{Kind: notify.UpdateSystemEvent, MachineID: ev.MachineID, At: ev.Timestamp})

	return ev, true
}

func (g *EventGenerator) hardwareError(m *domain.Machine, ev *domain.SystemEvent) {
	t := random.Choice(g.src, hardwareErrors)
	ev.Type = domain.EventTypeError
	ev.Category = domain.EventCategoryHardware
	ev.Message = t.message
	ev.Code = t.code

	if random.Chance(g.src, g.odds.MotorFault) && g.transition(m, domain.MachineStatusError) {
		m.Hardware.MotorBoard = domain.ComponentError
	}
}

func (g *EventGenerator) hardwareWarning(m *domain.Machine, ev *domain.SystemEvent) {
	t := random.Choice(g.src, hardwareWarnings)
	ev.Type = domain.EventTypeWarning
	ev.Category = domain.EventCategoryHardware
	ev.Message = t.message
	ev.Code = t.code

	if m.Status == domain.MachineStatusOnline {
		g.transition(m, domain.MachineStatusWarning)
	}
}

func (g *EventGenerator) connectivity(m *domain.Machine, ev *domain.SystemEvent) {
	signal := random.IntBetween(g.src, 60, 100)
	m.Hardware.Connectivity = signal

	ev.Category = domain.EventCategoryConnectivity
	if signal < g.odds.WeakSignal {
		ev.Type = domain.EventTypeWarning
		ev.Code = domain.CodeSignalWeak
		ev.Message = fmt.Sprintf("Weak %s signal (%d%%)", m.Hardware.ConnectionType, signal)
	} else {
		ev.Type = domain.EventTypeInfo
		ev.Code = domain.CodeSignalOK
		ev.Message = fmt.Sprintf("%s signal stable (%d%%)", m.Hardware.ConnectionType, signal)
	}
}

func (g *EventGenerator) heartbeat(m *domain.Machine, ev *domain.SystemEvent) {
	t := random.Choice(g.src, heartbeats)
	ev.Type = domain.EventTypeInfo
	ev.Category = domain.EventCategorySystem
	ev.Message = t.message
	ev.Code = t.code

	if m.Status == domain.MachineStatusWarning && random.Chance(g.src, g.odds.SelfHeal) {
		if g.transition(m, domain.MachineStatusOnline) {
			m.Hardware.MotorBoard = domain.ComponentOK
			m.Hardware.BillValidator = domain.ComponentOK
		}
	}
}

// transition moves m to status. Offline machines are never moved. It reports
// whether the machine now holds the requested status.
func (g *EventGenerator) transition(m *domain.Machine, to domain.MachineStatus) bool {
	if m.Status == domain.MachineStatusOffline {
		return false
	}
	if m.Status == to {
		return true
	}

	from := m.Status
	m.Status = to
	telemetry.StatusTransitionsTotal.WithLabelValues(string(from), string(to)).Inc()

	logFn := g.log.Info
	if to == domain.MachineStatusError {
		logFn = g.log.Warn
	}
	logFn("Machine status changed",
		zap.String("machine_id", m.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return true
}
