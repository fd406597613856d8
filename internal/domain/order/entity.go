package order

import (
	"github.com/shopspring/decimal"

	"github.com/tableside/restaurant-pos/internal/models"
)

// ===============================
// Domain Math
// ===============================

// Subtotal is quantity × the price snapshot taken when the line was created.
func Subtotal(it *models.OrderItem) decimal.Decimal {
	return it.PriceAtTime.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// ComputeTotal derives the order total from its current lines. Persisted
// totals must always equal this value.
func ComputeTotal(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(Subtotal(&items[i]))
	}
	return total
}

// Snapshot builds a line for a product at its current price.
func Snapshot(product *models.Product, quantity int) models.OrderItem {
	return models.OrderItem{
		ProductID:   product.ID,
		Quantity:    quantity,
		PriceAtTime: product.Price,
	}
}
