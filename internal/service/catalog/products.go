package catalog

import (
	"fmt"

	"github.com/seu-repo/vending-fleet/internal/domain"
)

type productSeed struct {
	name     string
	price    int
	weight   int
	category string
	icon     string
}

var productSeeds = []productSeed{
	// Beverages
	{"Cola Classic 330ml", 150, 3, "Beverages", "🥤"},
	{"Cola Zero 330ml", 150, 3, "Beverages", "🥤"},
	{"Orange Soda 330ml", 140, 2, "Beverages", "🍊"},
	{"Lemon-Lime Soda 330ml", 140, 2, "Beverages", "🍋"},
	{"Still Water 500ml", 100, 3, "Beverages", "💧"},
	{"Sparkling Water 500ml", 120, 2, "Beverages", "💧"},
	{"Iced Tea Peach 500ml", 180, 2, "Beverages", "🧋"},
	{"Iced Tea Lemon 500ml", 180, 2, "Beverages", "🧋"},
	{"Energy Drink 250ml", 250, 3, "Beverages", "⚡"},
	{"Energy Drink Sugar Free 250ml", 250, 2, "Beverages", "⚡"},
	{"Cold Brew Coffee 250ml", 280, 2, "Beverages", "☕"},
	{"Apple Juice 330ml", 200, 1, "Beverages", "🧃"},
	{"Sports Drink Blue 500ml", 220, 2, "Beverages", "🏃"},
	// Snacks
	{"Potato Chips Salted", 160, 3, "Snacks", "🥔"},
	{"Potato Chips BBQ", 160, 2, "Snacks", "🥔"},
	{"Tortilla Chips Cheese", 170, 2, "Snacks", "🌮"},
	{"Pretzels", 140, 1, "Snacks", "🥨"},
	{"Salted Peanuts", 130, 1, "Snacks", "🥜"},
	{"Popcorn Sweet & Salty", 150, 2, "Snacks", "🍿"},
	{"Cheese Crackers", 140, 2, "Snacks", "🧀"},
	{"Beef Jerky", 350, 1, "Snacks", "🥩"},
	{"Rice Crackers Seaweed", 160, 1, "Snacks", "🍘"},
	{"Corn Puffs", 120, 2, "Snacks", "🌽"},
	// Candy
	{"Milk Chocolate Bar", 130, 3, "Candy", "🍫"},
	{"Dark Chocolate Bar", 150, 2, "Candy", "🍫"},
	{"Caramel Nougat Bar", 140, 3, "Candy", "🍫"},
	{"Peanut Butter Cups", 150, 2, "Candy", "🥜"},
	{"Gummy Bears", 120, 2, "Candy", "🐻"},
	{"Sour Worms", 120, 2, "Candy", "🪱"},
	{"Mint Gum", 90, 2, "Candy", "🍬"},
	{"Fruit Chews", 100, 1, "Candy", "🍬"},
	{"Wafer Bar Hazelnut", 130, 2, "Candy", "🧇"},
	{"Chocolate Chip Cookies", 170, 2, "Candy", "🍪"},
	// Healthy
	{"Protein Bar Chocolate", 290, 2, "Healthy", "💪"},
	{"Protein Bar Peanut", 290, 1, "Healthy", "💪"},
	{"Granola Bar Honey Oat", 160, 2, "Healthy", "🌾"},
	{"Trail Mix", 230, 1, "Healthy", "🥜"},
	{"Dried Mango", 250, 1, "Healthy", "🥭"},
	{"Almonds Roasted", 260, 1, "Healthy", "🌰"},
	{"Veggie Chips", 190, 1, "Healthy", "🥕"},
	{"Rice Cakes Dark Choc", 180, 1, "Healthy", "🍘"},
	{"Kombucha Ginger 330ml", 320, 1, "Healthy", "🫚"},
	// Fresh
	{"Turkey Sandwich", 450, 2, "Fresh", "🥪"},
	{"Veggie Wrap", 420, 1, "Fresh", "🌯"},
	{"Greek Yogurt Berry", 220, 1, "Fresh", "🫐"},
	{"Fresh Apple", 90, 1, "Fresh", "🍎"},
	{"Banana", 80, 1, "Fresh", "🍌"},
	{"Cheese & Crackers Pack", 300, 1, "Fresh", "🧀"},
	{"Pasta Salad Cup", 480, 1, "Fresh", "🥗"},
	{"Chocolate Milk 330ml", 210, 2, "Fresh", "🥛"},
}

// Products returns the fixed 50-entry catalog. Each call returns a fresh slice.
func Products() []domain.Product {
	out := make([]domain.Product, len(productSeeds))
	for i, s := range productSeeds {
		out[i] = domain.Product{
			ID:       fmt.Sprintf("P%03d", i+1),
			Name:     s.name,
			Price:    s.price,
			Weight:   s.weight,
			Category: s.category,
			Icon:     s.icon,
		}
	}
	return out
}

// ProductWeight adapts a product to random.Pick.
func ProductWeight(p domain.Product) float64 {
	return float64(p.Weight)
}
