package order

import (
	"context"

	"github.com/tableside/restaurant-pos/internal/access"
	"github.com/tableside/restaurant-pos/internal/audit"
	domain "github.com/tableside/restaurant-pos/internal/domain/order"
	"github.com/tableside/restaurant-pos/internal/httperr"
	"github.com/tableside/restaurant-pos/internal/identity"
	"github.com/tableside/restaurant-pos/internal/models"
)

type ReplaceItems struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewReplaceItems(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ReplaceItems {
	return &ReplaceItems{
		repo:  repo,
		audit: audit,
	}
}

// Execute swaps the whole item set atomically. New lines snapshot current
// product prices; the total is recomputed in the same transaction.
func (uc *ReplaceItems) Execute(
	ctx context.Context,
	id identity.Identity,
	orderID uint,
	items []ItemInput,
) (*models.Order, error) {

	if err := access.CanPlaceOrders(id); err != nil {
		return nil, err
	}
	staff := id.(identity.Staff)

	if _, err := uc.repo.GetOrderForStaff(ctx, orderID, staff.ID); err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, httperr.Validation("order_requires_items")
	}

	lines, err := buildLines(ctx, uc.repo, staff, items)
	if err != nil {
		return nil, err
	}

	updated, err := uc.repo.ReplaceItems(ctx, orderID, lines)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		RestaurantID: staff.RestaurantID,
		UserID:       &staff.ID,
		Action:       "order_items_replaced",
		Entity:       "order",
		EntityID:     &orderID,
	})

	return updated, nil
}
