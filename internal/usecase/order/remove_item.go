package order

import (
	"context"

	"github.com/tableside/restaurant-pos/internal/access"
	"github.com/tableside/restaurant-pos/internal/audit"
	domain "github.com/tableside/restaurant-pos/internal/domain/order"
	"github.com/tableside/restaurant-pos/internal/identity"
	"github.com/tableside/restaurant-pos/internal/models"
)

type RemoveItem struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRemoveItem(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *RemoveItem {
	return &RemoveItem{
		repo:  repo,
		audit: audit,
	}
}

// Execute decreases an order line by quantity; quantity <= 0 removes the
// line entirely, as does decreasing past its current count.
func (uc *RemoveItem) Execute(
	ctx context.Context,
	id identity.Identity,
	orderID uint,
	itemID uint,
	quantity int,
) (*models.Order, error) {

	if err := access.CanPlaceOrders(id); err != nil {
		return nil, err
	}
	staff := id.(identity.Staff)

	if _, err := uc.repo.GetOrderForStaff(ctx, orderID, staff.ID); err != nil {
		return nil, err
	}

	updated, err := uc.repo.DecreaseItem(ctx, orderID, itemID, quantity)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		RestaurantID: staff.RestaurantID,
		UserID:       &staff.ID,
		Action:       "order_item_removed",
		Entity:       "order",
		EntityID:     &orderID,
		Metadata: map[string]any{
			"item_id":  itemID,
			"quantity": quantity,
		},
	})

	return updated, nil
}
