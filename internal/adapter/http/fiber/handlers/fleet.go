package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/vending-fleet/internal/domain"
	"github.com/seu-repo/vending-fleet/internal/random"
	"github.com/seu-repo/vending-fleet/internal/service/store"
)

// FleetReader is the read surface of the simulation engine.
type FleetReader interface {
	Snapshot() store.Snapshot
	Machine(id string) (domain.Machine, bool)
	Products() []domain.Product
	Locations() []domain.Location
	Source() random.Source
}

type FleetHandler struct {
	fleet FleetReader
	log   *zap.Logger
}

func NewFleetHandler(fleet FleetReader, log *zap.Logger) *FleetHandler {
	return &FleetHandler{
		fleet: fleet,
		log:   log,
	}
}

// Register mounts every read endpoint under r.
func (h *FleetHandler) Register(r fiber.Router) {
	r.Get("/machines", h.ListMachines)
	r.Get("/machines/:id", h.GetMachine)
	r.Get("/transactions", h.ListTransactions)
	r.Get("/events", h.ListEvents)

	r.Get("/analytics/stats", h.Stats)
	r.Get("/analytics/hourly", h.Hourly)
	r.Get("/analytics/products/top", h.TopProducts)
	r.Get("/analytics/products/bottom", h.BottomProducts)
	r.Get("/analytics/heatmap", h.Heatmap)

	r.Get("/catalog/products", h.ListProducts)
	r.Get("/catalog/locations", h.ListLocations)
}

func (h *FleetHandler) ListMachines(c *fiber.Ctx) error {
	machines := h.fleet.Snapshot().Machines

	if status := c.Query("status"); status != "" {
		filtered := machines[:0]
		for _, m := range machines {
			if string(m.Status) == status {
				filtered = append(filtered, m)
			}
		}
		machines = filtered
	}
	if location := c.Query("location"); location != "" {
		filtered := machines[:0]
		for _, m := range machines {
			if m.Location != nil && m.Location.ID == location {
				filtered = append(filtered, m)
			}
		}
		machines = filtered
	}

	return c.JSON(machines)
}

func (h *FleetHandler) GetMachine(c *fiber.Ctx) error {
	id := c.Params("id")
	machine, ok := h.fleet.Machine(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Machine not found"})
	}
	return c.JSON(machine)
}

// ListTransactions returns the history newest first, optionally filtered by
// machine_id and capped by limit.
func (h *FleetHandler) ListTransactions(c *fiber.Ctx) error {
	limit, err := queryLimit(c, "limit", 0)
	if err != nil {
		return err
	}

	txs := h.fleet.Snapshot().Transactions
	if machineID := c.Query("machine_id"); machineID != "" {
		filtered := txs[:0]
		for _, tx := range txs {
			if tx.MachineID == machineID {
				filtered = append(filtered, tx)
			}
		}
		txs = filtered
	}

	return c.JSON(capped(txs, limit))
}

// ListEvents returns the event history newest first, optionally filtered by
// machine_id, type and category and capped by limit.
func (h *FleetHandler) ListEvents(c *fiber.Ctx) error {
	limit, err := queryLimit(c, "limit", 0)
	if err != nil {
		return err
	}

	machineID := c.Query("machine_id")
	eventType := domain.EventType(c.Query("type"))
	category := domain.EventCategory(c.Query("category"))

	events := h.fleet.Snapshot().Events
	filtered := events[:0]
	for _, ev := range events {
		if machineID != "" && ev.MachineID != machineID {
			continue
		}
		if eventType != "" && ev.Type != eventType {
			continue
		}
		if category != "" && ev.Category != category {
			continue
		}
		filtered = append(filtered, ev)
	}

	return c.JSON(capped(filtered, limit))
}

func (h *FleetHandler) ListProducts(c *fiber.Ctx) error {
	return c.JSON(h.fleet.Products())
}

func (h *FleetHandler) ListLocations(c *fiber.Ctx) error {
	return c.JSON(h.fleet.Locations())
}

// queryLimit parses a non-negative integer query parameter. Zero means no
// limit.
func queryLimit(c *fiber.Ctx, key string, def int) (int, error) {
	n := c.QueryInt(key, def)
	if n < 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, key+" must be non-negative")
	}
	return n, nil
}

func capped[T any](items []T, limit int) []T {
	if limit > 0 && limit < len(items) {
		return items[:limit]
	}
	return items
}
