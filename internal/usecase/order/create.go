package order

import (
	"context"
	"fmt"
	"time"

	"github.com/tableside/restaurant-pos/internal/access"
	"github.com/tableside/restaurant-pos/internal/audit"
	domain "github.com/tableside/restaurant-pos/internal/domain/order"
	"github.com/tableside/restaurant-pos/internal/httperr"
	"github.com/tableside/restaurant-pos/internal/identity"
	"github.com/tableside/restaurant-pos/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type ItemInput struct {
	ProductID uint
	Quantity  int
}

// ======================================================
// USE CASE
// ======================================================

type CreateOrder struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateOrder(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateOrder {
	return &CreateOrder{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateOrder) Execute(
	ctx context.Context,
	id identity.Identity,
	items []ItemInput,
) (*models.Order, error) {

	if err := access.CanPlaceOrders(id); err != nil {
		return nil, err
	}
	staff := id.(identity.Staff)

	if len(items) == 0 {
		return nil, httperr.Validation("order_requires_items")
	}

	lines, err := buildLines(ctx, uc.repo, staff, items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		StaffID:   staff.ID,
		OrderDate: time.Now().UTC(),
		Items:     lines,
	}

	if err := uc.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		RestaurantID: staff.RestaurantID,
		UserID:       &staff.ID,
		Action:       "order_created",
		Entity:       "order",
		EntityID:     &order.ID,
	})

	return uc.repo.GetOrderForStaff(ctx, order.ID, staff.ID)
}

// buildLines resolves and validates the requested items against the staff
// member's own menu, snapshotting current prices. A product requested more
// than once folds into a single line, matching how increase-item merges.
// Quantity 0 means 1.
func buildLines(
	ctx context.Context,
	repo domain.Repository,
	staff identity.Staff,
	items []ItemInput,
) ([]models.OrderItem, error) {

	lines := make([]models.OrderItem, 0, len(items))
	byProduct := make(map[uint]int, len(items))

	for _, in := range items {
		qty := in.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 {
			return nil, httperr.Validation("invalid_quantity")
		}

		if i, ok := byProduct[in.ProductID]; ok {
			lines[i].Quantity += qty
			continue
		}

		product, restaurantID, err := repo.ProductWithRestaurant(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		if restaurantID != staff.RestaurantID {
			return nil, httperr.Validationf(
				"foreign_product",
				fmt.Sprintf("Product %s does not belong to your restaurant", product.Name),
			)
		}

		byProduct[in.ProductID] = len(lines)
		lines = append(lines, domain.Snapshot(product, qty))
	}
	return lines, nil
}
