package order

import (
	"context"

	"github.com/tableside/restaurant-pos/internal/access"
	"github.com/tableside/restaurant-pos/internal/audit"
	domain "github.com/tableside/restaurant-pos/internal/domain/order"
	"github.com/tableside/restaurant-pos/internal/identity"
)

type DeleteOrder struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteOrder(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteOrder {
	return &DeleteOrder{
		repo:  repo,
		audit: audit,
	}
}

// Execute deletes the order and cascades to its lines. Unconditional for
// the owning staff member.
func (uc *DeleteOrder) Execute(
	ctx context.Context,
	id identity.Identity,
	orderID uint,
) error {

	if err := access.CanPlaceOrders(id); err != nil {
		return err
	}
	staff := id.(identity.Staff)

	if _, err := uc.repo.GetOrderForStaff(ctx, orderID, staff.ID); err != nil {
		return err
	}

	if err := uc.repo.DeleteOrder(ctx, orderID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		RestaurantID: staff.RestaurantID,
		UserID:       &staff.ID,
		Action:       "order_deleted",
		Entity:       "order",
		EntityID:     &orderID,
	})

	return nil
}
