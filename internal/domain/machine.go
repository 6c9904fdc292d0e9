package domain

import (
	"time"
)

type MachineStatus string

const (
	MachineStatusOnline  MachineStatus = "online"
	MachineStatusWarning MachineStatus = "warning"
	MachineStatusError   MachineStatus = "error"
	MachineStatusOffline MachineStatus = "offline"
)

// MachineStatuses lists every status in reporting order.
var MachineStatuses = []MachineStatus{
	MachineStatusOnline,
	MachineStatusWarning,
	MachineStatusError,
	MachineStatusOffline,
}

// CanTransact reports whether a machine in this status accepts sales.
func (s MachineStatus) CanTransact() bool {
	return s == MachineStatusOnline || s == MachineStatusWarning
}

type ComponentStatus string

const (
	ComponentOK      ComponentStatus = "OK"
	ComponentWarning ComponentStatus = "WARNING"
	ComponentError   ComponentStatus = "ERROR"
)

type ConnectionType string

const (
	Connection4G       ConnectionType = "4G"
	ConnectionWiFi     ConnectionType = "WiFi"
	ConnectionEthernet ConnectionType = "Ethernet"
)

var ConnectionTypes = []ConnectionType{Connection4G, ConnectionWiFi, ConnectionEthernet}

type HardwareStatus struct {
	BillValidator  ComponentStatus `json:"bill_validator"`
	CardReader     ComponentStatus `json:"card_reader"`
	MotorBoard     ComponentStatus `json:"motor_board"`
	Display        ComponentStatus `json:"display"`
	Temperature    float64         `json:"temperature"`  // °C
	Connectivity   int             `json:"connectivity"` // 0-100
	ConnectionType ConnectionType  `json:"connection_type"`
}

// PlanogramSlot is one cell of a machine's product grid.
// An empty ProductID means the slot holds nothing.
type PlanogramSlot struct {
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	ProductID string `json:"product_id,omitempty"`
	Stock     int    `json:"stock"`
	MaxStock  int    `json:"max_stock"`
	Price     int    `json:"price"`
}

const (
	PlanogramRows = 10
	PlanogramCols = 6
)

type Machine struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Location          *Location       `json:"location,omitempty"`
	Status            MachineStatus   `json:"status"`
	Hardware          HardwareStatus  `json:"hardware"`
	Planogram         []PlanogramSlot `json:"planogram"`
	RevenueToday      int             `json:"revenue_today"`
	TransactionsToday int             `json:"transactions_today"`
	LastActivity      time.Time       `json:"last_activity"`
	FirmwareVersion   string          `json:"firmware_version"`
}

// Clone returns a copy that shares only the immutable Location.
func (m *Machine) Clone() Machine {
	c := *m
	c.Planogram = make([]PlanogramSlot, len(m.Planogram))
	copy(c.Planogram, m.Planogram)
	return c
}
