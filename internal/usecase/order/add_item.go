package order

import (
	"context"
	"fmt"

	"github.com/tableside/restaurant-pos/internal/access"
	"github.com/tableside/restaurant-pos/internal/audit"
	domain "github.com/tableside/restaurant-pos/internal/domain/order"
	"github.com/tableside/restaurant-pos/internal/httperr"
	"github.com/tableside/restaurant-pos/internal/identity"
	"github.com/tableside/restaurant-pos/internal/models"
)

type AddItem struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewAddItem(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *AddItem {
	return &AddItem{
		repo:  repo,
		audit: audit,
	}
}

func (uc *AddItem) Execute(
	ctx context.Context,
	id identity.Identity,
	orderID uint,
	productID uint,
	quantity int,
) (*models.Order, error) {

	if err := access.CanPlaceOrders(id); err != nil {
		return nil, err
	}
	staff := id.(identity.Staff)

	if _, err := uc.repo.GetOrderForStaff(ctx, orderID, staff.ID); err != nil {
		return nil, err
	}

	product, restaurantID, err := uc.repo.ProductWithRestaurant(ctx, productID)
	if err != nil {
		return nil, err
	}
	if restaurantID != staff.RestaurantID {
		return nil, httperr.Validationf(
			"foreign_product",
			fmt.Sprintf("Product %s does not belong to your restaurant", product.Name),
		)
	}

	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, httperr.Validation("invalid_quantity")
	}

	updated, err := uc.repo.AddItem(ctx, orderID, domain.Snapshot(product, quantity))
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		RestaurantID: staff.RestaurantID,
		UserID:       &staff.ID,
		Action:       "order_item_added",
		Entity:       "order",
		EntityID:     &orderID,
		Metadata: map[string]any{
			"product_id": productID,
			"quantity":   quantity,
		},
	})

	return updated, nil
}
