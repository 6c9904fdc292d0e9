// Package analytics derives dashboard figures from a fleet snapshot. Every
// function is pure over its inputs; nothing is cached.
package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/seu-repo/vending-fleet/internal/domain"
	"github.com/seu-repo/vending-fleet/internal/service/store"
)

// CriticalWindow is how far back error events count as critical alerts.
const CriticalWindow = 5 * time.Minute

// FleetStats summarizes machine status, sales and alerts as of now.
func FleetStats(snap store.Snapshot, now time.Time) domain.FleetStats {
	stats := domain.FleetStats{TotalMachines: len(snap.Machines)}

	for i := range snap.Machines {
		m := &snap.Machines[i]
		switch m.Status {
		case domain.MachineStatusOnline:
			stats.Online++
		case domain.MachineStatusWarning:
			stats.Warning++
		case domain.MachineStatusError:
			stats.Error++
		case domain.MachineStatusOffline:
			stats.Offline++
		}

		stats.TotalRevenue += m.RevenueToday
		stats.TotalTransactions += m.TransactionsToday

		for _, slot := range m.Planogram {
			if slot.Stock >= 1 && slot.Stock <= 2 {
				stats.LowStockSlots++
			}
		}
	}

	if stats.TotalTransactions > 0 {
		stats.AverageTransactionValue = int(math.Round(float64(stats.TotalRevenue) / float64(stats.TotalTransactions)))
	}

	cutoff := now.Add(-CriticalWindow)
	for _, ev := range snap.Events {
		if ev.Type == domain.EventTypeError && ev.Timestamp.After(cutoff) {
			stats.CriticalAlerts++
		}
	}

	return stats
}

// Hourly renders the hour-of-day aggregates as 24 labelled points.
func Hourly(snap store.Snapshot) []domain.HourlyPoint {
	points := make([]domain.HourlyPoint, 24)
	for h := range points {
		points[h] = domain.HourlyPoint{
			Hour:    fmt.Sprintf("%02d:00", h),
			Revenue: snap.HourlyRevenue[h],
			Traffic: snap.HourlyTraffic[h],
		}
	}
	return points
}
