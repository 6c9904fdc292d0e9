package analytics

import (
	"math"
	"slices"

	"github.com/seu-repo/vending-fleet/internal/domain"
	"github.com/seu-repo/vending-fleet/internal/random"
)

var heatmapDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Base sales intensity per hour. Weekdays peak around commutes and lunch,
// weekends are flatter and later.
var (
	weekdayCurve = [24]int{
		2, 1, 1, 1, 2, 5, 14, 32, 45, 30, 26, 38,
		52, 44, 28, 26, 34, 48, 40, 27, 18, 12, 7, 4,
	}
	weekendCurve = [24]int{
		4, 3, 2, 1, 1, 2, 4, 8, 14, 20, 27, 34,
		40, 42, 38, 35, 33, 31, 28, 24, 19, 14, 9, 6,
	}
)

// HeatmapJitter is the relative noise applied to every cell.
const HeatmapJitter = 0.25

// Heatmap synthesizes a fresh day-of-week by hour grid. Two calls return
// different grids.
func Heatmap(src random.Source) domain.Heatmap {
	hm := domain.Heatmap{Days: slices.Clone(heatmapDays)}
	for d := range hm.Values {
		curve := &weekdayCurve
		if d >= 5 {
			curve = &weekendCurve
		}
		for h, base := range curve {
			factor := random.FloatBetween(src, 1-HeatmapJitter, 1+HeatmapJitter)
			hm.Values[d][h] = int(math.Round(float64(base) * factor))
		}
	}
	return hm
}
