package catalog

import "github.com/seu-repo/vending-fleet/internal/random"

// dailyTraffic is the baseline number of sales per hour of day across the fleet.
var dailyTraffic = [24]int{
	4, 2, 1, 1, 2, 6, 18, 42, 65, 48, 38, 52,
	78, 70, 44, 40, 52, 68, 60, 42, 30, 22, 14, 8,
}

const averageTicket = 180

// SeedHourly returns revenue and traffic arrays shaped like a typical day,
// each hour jittered by ±20%.
func SeedHourly(src random.Source) (revenue, traffic [24]int) {
	for h, base := range dailyTraffic {
		jitter := random.FloatBetween(src, 0.8, 1.2)
		traffic[h] = int(float64(base)*jitter + 0.5)
		revenue[h] = traffic[h] * random.IntBetween(src, averageTicket-30, averageTicket+30)
	}
	return revenue, traffic
}
