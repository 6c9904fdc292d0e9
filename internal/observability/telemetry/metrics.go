package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Simulation metrics
	TransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vending_transactions_total",
		Help: "Simulated vending transactions by result",
	}, []string{"result"})

	PhantomSalesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vending_phantom_sales_total",
		Help: "Transactions recorded without a stocked slot backing them",
	})

	RevenueTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vending_revenue_cents_total",
		Help: "Revenue booked from stock-backed sales, in cents",
	})

	SystemEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vending_system_events_total",
		Help: "System events emitted by type and category",
	}, []string{"type", "category"})

	StatusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vending_status_transitions_total",
		Help: "Machine status transitions",
	}, []string{"from", "to"})

	MachinesByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vending_machines",
		Help: "Machines currently in each status",
	}, []string{"status"})

	TickDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vending_tick_duration_seconds",
		Help:    "Time spent in one generator tick",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
	}, []string{"generator"})

	HistoryEvictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vending_history_evictions_total",
		Help: "Entries evicted from bounded histories",
	}, []string{"history"})

	// Infrastructure metrics
	MirrorPublishTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vending_mirror_publish_total",
		Help: "Outbound mirror publish attempts by subject and result",
	}, []string{"subject", "result"})

	LiveFeedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vending_live_feed_clients",
		Help: "Connected live feed websocket clients",
	})
)
