package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/tableside/restaurant-pos/internal/domain/order"
	"github.com/tableside/restaurant-pos/internal/httperr"
	"github.com/tableside/restaurant-pos/internal/models"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

// --------------------------------------------------
// Product
// --------------------------------------------------

func (r *OrderGormRepository) ProductWithRestaurant(
	ctx context.Context,
	productID uint,
) (*models.Product, uint, error) {

	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, productID).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, httperr.NotFoundErr("product_not_found")
		}
		return nil, 0, err
	}

	if product.Category == nil {
		return nil, 0, httperr.NotFoundErr("product_not_found")
	}

	return &product, product.Category.RestaurantID, nil
}

// --------------------------------------------------
// Order (create / fetch)
// --------------------------------------------------

func (r *OrderGormRepository) CreateOrder(
	ctx context.Context,
	order *models.Order,
) error {

	order.TotalPrice = domain.ComputeTotal(order.Items)

	// Order row and all lines land in one transaction; a failed line
	// leaves no order behind.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}

func (r *OrderGormRepository) GetOrderForStaff(
	ctx context.Context,
	orderID uint,
	staffID uint,
) (*models.Order, error) {

	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ? AND staff_id = ?", orderID, staffID).
		Preload("Items").
		Preload("Items.Product").
		Preload("Staff").
		First(&order).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.NotFoundErr("order_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// --------------------------------------------------
// Item mutation (atomic with total recompute)
// --------------------------------------------------

func (r *OrderGormRepository) AddItem(
	ctx context.Context,
	orderID uint,
	item models.OrderItem,
) (*models.Order, error) {

	var out *models.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// An existing line for the same product grows; its original
		// price snapshot is kept.
		var existing models.OrderItem
		err := tx.
			Where("order_id = ? AND product_id = ?", orderID, item.ProductID).
			First(&existing).Error

		switch {
		case err == nil:
			existing.Quantity += item.Quantity
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item.OrderID = orderID
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		default:
			return err
		}

		if err := recomputeTotal(tx, orderID); err != nil {
			return err
		}

		out, err = reloadOrder(tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OrderGormRepository) DecreaseItem(
	ctx context.Context,
	orderID uint,
	itemID uint,
	quantity int,
) (*models.Order, error) {

	var out *models.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var item models.OrderItem
		err := tx.
			Where("id = ? AND order_id = ?", itemID, orderID).
			First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.NotFoundErr("item_not_found")
		}
		if err != nil {
			return err
		}

		// quantity <= 0 means drop the whole line.
		if quantity <= 0 || quantity >= item.Quantity {
			if err := tx.Delete(&item).Error; err != nil {
				return err
			}
		} else {
			item.Quantity -= quantity
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}

		if err := recomputeTotal(tx, orderID); err != nil {
			return err
		}

		out, err = reloadOrder(tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OrderGormRepository) ReplaceItems(
	ctx context.Context,
	orderID uint,
	items []models.OrderItem,
) (*models.Order, error) {

	var out *models.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := tx.
			Where("order_id = ?", orderID).
			Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].ID = 0
			items[i].OrderID = orderID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}

		if err := recomputeTotal(tx, orderID); err != nil {
			return err
		}

		var err error
		out, err = reloadOrder(tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Delete (explicit cascade to lines)
// --------------------------------------------------

func (r *OrderGormRepository) DeleteOrder(
	ctx context.Context,
	orderID uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("order_id = ?", orderID).
			Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, orderID).Error
	})
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

func recomputeTotal(tx *gorm.DB, orderID uint) error {
	var items []models.OrderItem
	if err := tx.
		Where("order_id = ?", orderID).
		Find(&items).Error; err != nil {
		return err
	}

	total := domain.ComputeTotal(items)

	return tx.Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("total_price", total).Error
}

func reloadOrder(tx *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := tx.
		Preload("Items").
		Preload("Items.Product").
		Preload("Staff").
		First(&order, orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// Compile-time check
var _ domain.Repository = (*OrderGormRepository)(nil)
