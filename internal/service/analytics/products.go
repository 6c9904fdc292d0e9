package analytics

import (
	"slices"

	"github.com/seu-repo/vending-fleet/internal/domain"
	"github.com/seu-repo/vending-fleet/internal/service/store"
)

// TopProducts returns up to n products that sold at least once, highest
// revenue first.
func TopProducts(snap store.Snapshot, catalog []domain.Product, n int) []domain.ProductPerformance {
	perf := performance(snap, catalog)

	sold := perf[:0]
	for _, p := range perf {
		if p.Sold > 0 {
			sold = append(sold, p)
		}
	}
	slices.SortStableFunc(sold, func(a, b domain.ProductPerformance) int {
		return b.Revenue - a.Revenue
	})
	return limit(sold, n)
}

// BottomProducts returns up to n catalog products, lowest revenue first.
// Products that never sold are included with zero tallies.
func BottomProducts(snap store.Snapshot, catalog []domain.Product, n int) []domain.ProductPerformance {
	perf := performance(snap, catalog)
	slices.SortStableFunc(perf, func(a, b domain.ProductPerformance) int {
		return a.Revenue - b.Revenue
	})
	return limit(perf, n)
}

// performance tallies successful sales from the transaction history and
// fleet-wide stock for every catalog product, in catalog order.
func performance(snap store.Snapshot, catalog []domain.Product) []domain.ProductPerformance {
	perf := make([]domain.ProductPerformance, len(catalog))
	index := make(map[string]int, len(catalog))
	for i, p := range catalog {
		perf[i] = domain.ProductPerformance{
			ProductID: p.ID,
			Name:      p.Name,
			Category:  p.Category,
			Icon:      p.Icon,
		}
		index[p.ID] = i
	}

	for _, tx := range snap.Transactions {
		if !tx.Success {
			continue
		}
		if i, ok := index[tx.ProductID]; ok {
			perf[i].Sold++
			perf[i].Revenue += tx.Amount
		}
	}

	for _, m := range snap.Machines {
		for _, slot := range m.Planogram {
			if i, ok := index[slot.ProductID]; ok {
				perf[i].Stock += slot.Stock
				perf[i].MaxStock += slot.MaxStock
			}
		}
	}

	return perf
}

func limit(perf []domain.ProductPerformance, n int) []domain.ProductPerformance {
	if n < 0 {
		n = 0
	}
	if n < len(perf) {
		perf = perf[:n]
	}
	return perf
}
