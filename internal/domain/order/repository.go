package order

import (
	"context"

	"github.com/tableside/restaurant-pos/internal/models"
)

// Repository is the persistence port for the order aggregate. Every item
// mutation method applies the change and the total recomputation as one
// atomic unit and returns the refreshed order.
type Repository interface {
	// -------- Product lookup --------

	// ProductWithRestaurant resolves a product and the restaurant it
	// belongs to through the category chain.
	ProductWithRestaurant(
		ctx context.Context,
		productID uint,
	) (*models.Product, uint, error)

	// -------- Order (create / fetch) --------

	CreateOrder(
		ctx context.Context,
		order *models.Order,
	) error

	GetOrderForStaff(
		ctx context.Context,
		orderID uint,
		staffID uint,
	) (*models.Order, error)

	// -------- Item mutation (atomic with total) --------

	AddItem(
		ctx context.Context,
		orderID uint,
		item models.OrderItem,
	) (*models.Order, error)

	DecreaseItem(
		ctx context.Context,
		orderID uint,
		itemID uint,
		quantity int,
	) (*models.Order, error)

	ReplaceItems(
		ctx context.Context,
		orderID uint,
		items []models.OrderItem,
	) (*models.Order, error)

	// -------- Delete --------

	DeleteOrder(
		ctx context.Context,
		orderID uint,
	) error
}
