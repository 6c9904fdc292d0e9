package domain

type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`  // cents
	Weight   int    `json:"weight"` // 1-3, sales propensity
	Category string `json:"category"`
	Icon     string `json:"icon"`
}

type Location struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
