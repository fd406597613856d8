// Package access evaluates the per-request authorization rules. Every
// function takes the caller identity explicitly and returns rows already
// narrowed to what that caller may see.
//
// Policy: a fetch that falls outside the caller's visible set reports
// not_found (existence is hidden); a pure role violation reports
// permission_denied.
package access

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tableside/restaurant-pos/internal/httperr"
	"github.com/tableside/restaurant-pos/internal/identity"
	"github.com/tableside/restaurant-pos/internal/models"
)

// --------------------------------------------------
// Restaurant
// --------------------------------------------------

// OwnedRestaurant resolves a restaurant the caller owns.
func OwnedRestaurant(db *gorm.DB, id identity.Identity, restaurantID uint) (*models.Restaurant, error) {
	owner, ok := id.(identity.Owner)
	if !ok {
		return nil, httperr.Permission("owner_role_required")
	}

	var r models.Restaurant
	err := db.
		Where("id = ? AND owner_id = ?", restaurantID, owner.ID).
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.NotFoundErr("restaurant_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// VisibleRestaurant resolves a restaurant the caller may read: owners see
// their own restaurants, staff the one they are bound to.
func VisibleRestaurant(db *gorm.DB, id identity.Identity, restaurantID uint) (*models.Restaurant, error) {
	switch who := id.(type) {
	case identity.Owner:
		return OwnedRestaurant(db, id, restaurantID)
	case identity.Staff:
		if who.RestaurantID != restaurantID {
			return nil, httperr.NotFoundErr("restaurant_not_found")
		}
		var r models.Restaurant
		if err := db.First(&r, restaurantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, httperr.NotFoundErr("restaurant_not_found")
			}
			return nil, err
		}
		return &r, nil
	}
	return nil, httperr.Permission("unknown_role")
}

// OwnedRestaurantsScope narrows a restaurant query to the caller's own rows.
func OwnedRestaurantsScope(db *gorm.DB, id identity.Identity) (*gorm.DB, error) {
	owner, ok := id.(identity.Owner)
	if !ok {
		return nil, httperr.Permission("owner_role_required")
	}
	return db.Where("owner_id = ?", owner.ID), nil
}

// --------------------------------------------------
// Category / Product
// --------------------------------------------------

// VisibleCategory resolves a category the caller may read: owners through
// ownership of the restaurant, staff through their binding.
func VisibleCategory(db *gorm.DB, id identity.Identity, categoryID uint) (*models.Category, error) {
	q := db.Joins("JOIN restaurants ON restaurants.id = categories.restaurant_id")

	switch who := id.(type) {
	case identity.Owner:
		q = q.Where("categories.id = ? AND restaurants.owner_id = ?", categoryID, who.ID)
	case identity.Staff:
		q = q.Where("categories.id = ? AND categories.restaurant_id = ?", categoryID, who.RestaurantID)
	default:
		return nil, httperr.Permission("unknown_role")
	}

	var cat models.Category
	err := q.First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.NotFoundErr("category_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// WritableCategory resolves a category the caller may mutate. Menu writes
// are owner-only; staff get an explicit permission error.
func WritableCategory(db *gorm.DB, id identity.Identity, categoryID uint) (*models.Category, error) {
	if _, ok := id.(identity.Owner); !ok {
		return nil, httperr.Permission("owner_role_required")
	}
	return VisibleCategory(db, id, categoryID)
}

// VisibleProduct resolves a product through the category→restaurant chain.
func VisibleProduct(db *gorm.DB, id identity.Identity, productID uint) (*models.Product, error) {
	q := db.
		Joins("JOIN categories ON categories.id = products.category_id").
		Joins("JOIN restaurants ON restaurants.id = categories.restaurant_id")

	switch who := id.(type) {
	case identity.Owner:
		q = q.Where("products.id = ? AND restaurants.owner_id = ?", productID, who.ID)
	case identity.Staff:
		q = q.Where("products.id = ? AND categories.restaurant_id = ?", productID, who.RestaurantID)
	default:
		return nil, httperr.Permission("unknown_role")
	}

	var p models.Product
	err := q.First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.NotFoundErr("product_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func WritableProduct(db *gorm.DB, id identity.Identity, productID uint) (*models.Product, error) {
	if _, ok := id.(identity.Owner); !ok {
		return nil, httperr.Permission("owner_role_required")
	}
	return VisibleProduct(db, id, productID)
}

// --------------------------------------------------
// Orders
// --------------------------------------------------

// OrdersScope narrows an order query to the caller's visible set: staff see
// their own orders, owners see orders placed in restaurants they own.
func OrdersScope(db *gorm.DB, id identity.Identity) (*gorm.DB, error) {
	switch who := id.(type) {
	case identity.Staff:
		return db.Where("orders.staff_id = ?", who.ID), nil
	case identity.Owner:
		return db.
			Joins("JOIN users ON users.id = orders.staff_id").
			Joins("JOIN restaurants ON restaurants.id = users.restaurant_id").
			Where("restaurants.owner_id = ?", who.ID), nil
	}
	return nil, httperr.Permission("unknown_role")
}

// VisibleOrder resolves a single order within the caller's visible set.
func VisibleOrder(db *gorm.DB, id identity.Identity, orderID uint) (*models.Order, error) {
	scope, err := OrdersScope(db.Model(&models.Order{}), id)
	if err != nil {
		return nil, err
	}

	var order models.Order
	err = scope.
		Where("orders.id = ?", orderID).
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

// CanPlaceOrders reports whether the caller may create orders. Order
// mutation itself is scoped to the placing staff member by the order
// repository.
func CanPlaceOrders(id identity.Identity) error {
	if _, ok := id.(identity.Staff); !ok {
		return httperr.Permission("staff_role_required")
	}
	return nil
}

// --------------------------------------------------
// Staff management
// --------------------------------------------------

// CanManageStaff checks that the caller owns the restaurant staff are being
// managed under.
func CanManageStaff(db *gorm.DB, id identity.Identity, restaurantID uint) error {
	_, err := OwnedRestaurant(db, id, restaurantID)
	return err
}
