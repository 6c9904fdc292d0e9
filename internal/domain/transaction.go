package domain

import (
	"time"
)

type Transaction struct {
	ID          string    `json:"id"`
	MachineID   string    `json:"machine_id"`
	MachineName string    `json:"machine_name"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Amount      int       `json:"amount"`
	Timestamp   time.Time `json:"timestamp"`
	Success     bool      `json:"success"`
}
