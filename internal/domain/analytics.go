package domain

// FleetStats is the headline summary of the fleet at one instant.
type FleetStats struct {
	TotalMachines           int `json:"total_machines"`
	Online                  int `json:"online"`
	Warning                 int `json:"warning"`
	Error                   int `json:"error"`
	Offline                 int `json:"offline"`
	TotalRevenue            int `json:"total_revenue"`
	TotalTransactions       int `json:"total_transactions"`
	AverageTransactionValue int `json:"average_transaction_value"`
	CriticalAlerts          int `json:"critical_alerts"`  // error events in the trailing window
	LowStockSlots           int `json:"low_stock_slots"` // slots with 1-2 items left
}

// HourlyPoint is one hour-of-day bucket of the daily curve.
type HourlyPoint struct {
	Hour    string `json:"hour"` // "HH:00"
	Revenue int    `json:"revenue"`
	Traffic int    `json:"traffic"`
}

// ProductPerformance merges sales tallies with fleet-wide stock for one product.
type ProductPerformance struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Icon      string `json:"icon"`
	Sold      int    `json:"sold"`
	Revenue   int    `json:"revenue"`
	Stock     int    `json:"stock"`
	MaxStock  int    `json:"max_stock"`
}

// Heatmap is a day-of-week by hour-of-day sales intensity grid.
type Heatmap struct {
	Days   []string  `json:"days"`
	Values [7][24]int `json:"values"`
}
