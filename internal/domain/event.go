package domain

import (
	"time"
)

type EventType string

const (
	EventTypeInfo    EventType = "info"
	EventTypeWarning EventType = "warning"
	EventTypeError   EventType = "error"
	EventTypeSuccess EventType = "success"
)

type EventCategory string

const (
	EventCategoryTransaction  EventCategory = "transaction"
	EventCategoryHardware     EventCategory = "hardware"
	EventCategoryStock        EventCategory = "stock"
	EventCategoryConnectivity EventCategory = "connectivity"
	EventCategorySystem       EventCategory = "system"
)

// Event codes emitted by the transaction path.
const (
	CodeStockLow             = "STOCK_LOW_WARNING"
	CodeStockEmpty           = "STOCK_EMPTY_ALERT"
	CodeTransactionCompleted = "CARD_TRANSACTION_COMPLETED"
	CodeTransactionDeclined  = "CARD_DECLINED_RETRY"
	CodeSignalWeak           = "CONN_SIGNAL_WEAK"
	CodeSignalOK             = "CONN_SIGNAL_OK"
)

type SystemEvent struct {
	ID          string        `json:"id"`
	MachineID   string        `json:"machine_id"`
	MachineName string        `json:"machine_name"`
	Type        EventType     `json:"type"`
	Category    EventCategory `json:"category"`
	Message     string        `json:"message"`
	Timestamp   time.Time     `json:"timestamp"`
	Code        string        `json:"code"`
}
