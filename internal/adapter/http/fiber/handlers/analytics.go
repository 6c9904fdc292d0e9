package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/seu-repo/vending-fleet/internal/service/analytics"
)

const defaultProductCount = 5

func (h *FleetHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(analytics.FleetStats(h.fleet.Snapshot(), time.Now()))
}

func (h *FleetHandler) Hourly(c *fiber.Ctx) error {
	return c.JSON(analytics.Hourly(h.fleet.Snapshot()))
}

func (h *FleetHandler) TopProducts(c *fiber.Ctx) error {
	n, err := queryLimit(c, "n", defaultProductCount)
	if err != nil {
		return err
	}
	return c.JSON(analytics.TopProducts(h.fleet.Snapshot(), h.fleet.Products(), n))
}

func (h *FleetHandler) BottomProducts(c *fiber.Ctx) error {
	n, err := queryLimit(c, "n", defaultProductCount)
	if err != nil {
		return err
	}
	return c.JSON(analytics.BottomProducts(h.fleet.Snapshot(), h.fleet.Products(), n))
}

// Heatmap is synthesized fresh on every request.
func (h *FleetHandler) Heatmap(c *fiber.Ctx) error {
	return c.JSON(analytics.Heatmap(h.fleet.Source()))
}
