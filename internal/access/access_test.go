package access

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	dbpkg "github.com/tableside/restaurant-pos/internal/db"
	"github.com/tableside/restaurant-pos/internal/httperr"
	"github.com/tableside/restaurant-pos/internal/identity"
	"github.com/tableside/restaurant-pos/internal/models"
)

// world is two fully separate tenants: owner1 runs r1 with staff1, owner2
// runs r2 with staff2. Every rule test reads across that boundary.
type world struct {
	db *gorm.DB

	owner1, owner2 identity.Owner
	staff1, staff2 identity.Staff

	r1, r2     models.Restaurant
	cat1, cat2 models.Category

	pizza, burger  models.Product
	order1, order2 models.Order
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}

func newWorld(t *testing.T) *world {
	t.Helper()

	w := &world{db: openTestDB(t)}

	ownerRow1 := models.User{Email: "o1@example.com", Name: "Olive", PasswordHash: "x", Role: models.RoleOwner, ShopType: "pizzeria"}
	ownerRow2 := models.User{Email: "o2@example.com", Name: "Omar", PasswordHash: "x", Role: models.RoleOwner, ShopType: "diner"}
	mustCreate(t, w.db, &ownerRow1)
	mustCreate(t, w.db, &ownerRow2)

	w.r1 = models.Restaurant{Name: "Luigi's", OwnerID: ownerRow1.ID}
	w.r2 = models.Restaurant{Name: "Patty Shack", OwnerID: ownerRow2.ID}
	mustCreate(t, w.db, &w.r1)
	mustCreate(t, w.db, &w.r2)

	staffRow1 := models.User{Email: "s1@example.com", Name: "Sam", PasswordHash: "x", Role: models.RoleStaff, RestaurantID: &w.r1.ID}
	staffRow2 := models.User{Email: "s2@example.com", Name: "Sue", PasswordHash: "x", Role: models.RoleStaff, RestaurantID: &w.r2.ID}
	mustCreate(t, w.db, &staffRow1)
	mustCreate(t, w.db, &staffRow2)

	w.owner1 = identity.Owner{ID: ownerRow1.ID, Email: ownerRow1.Email, Name: ownerRow1.Name}
	w.owner2 = identity.Owner{ID: ownerRow2.ID, Email: ownerRow2.Email, Name: ownerRow2.Name}
	w.staff1 = identity.Staff{ID: staffRow1.ID, Email: staffRow1.Email, Name: staffRow1.Name, RestaurantID: w.r1.ID}
	w.staff2 = identity.Staff{ID: staffRow2.ID, Email: staffRow2.Email, Name: staffRow2.Name, RestaurantID: w.r2.ID}

	w.cat1 = models.Category{RestaurantID: w.r1.ID, Name: "Pizzas"}
	w.cat2 = models.Category{RestaurantID: w.r2.ID, Name: "Burgers"}
	mustCreate(t, w.db, &w.cat1)
	mustCreate(t, w.db, &w.cat2)

	w.pizza = models.Product{CategoryID: w.cat1.ID, Name: "Pizza", Price: decimal.RequireFromString("9.50")}
	w.burger = models.Product{CategoryID: w.cat2.ID, Name: "Burger", Price: decimal.RequireFromString("5.00")}
	mustCreate(t, w.db, &w.pizza)
	mustCreate(t, w.db, &w.burger)

	w.order1 = models.Order{
		StaffID:    staffRow1.ID,
		OrderDate:  time.Now().UTC(),
		TotalPrice: decimal.RequireFromString("19.00"),
		Items:      []models.OrderItem{{ProductID: w.pizza.ID, Quantity: 2, PriceAtTime: w.pizza.Price}},
	}
	w.order2 = models.Order{
		StaffID:    staffRow2.ID,
		OrderDate:  time.Now().UTC(),
		TotalPrice: decimal.RequireFromString("5.00"),
		Items:      []models.OrderItem{{ProductID: w.burger.ID, Quantity: 1, PriceAtTime: w.burger.Price}},
	}
	mustCreate(t, w.db, &w.order1)
	mustCreate(t, w.db, &w.order2)

	return w
}

// --------------------------------------------------
// Restaurant
// --------------------------------------------------

func TestOwnedRestaurant(t *testing.T) {
	w := newWorld(t)

	if _, err := OwnedRestaurant(w.db, w.owner1, w.r1.ID); err != nil {
		t.Fatalf("owner1 on own restaurant: %v", err)
	}

	_, err := OwnedRestaurant(w.db, w.owner1, w.r2.ID)
	if !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("owner1 on foreign restaurant: err = %v, want not_found", err)
	}

	_, err = OwnedRestaurant(w.db, w.staff1, w.r1.ID)
	if !httperr.IsKind(err, httperr.KindPermission) {
		t.Fatalf("staff as owner: err = %v, want permission", err)
	}
}

func TestVisibleRestaurantStaff(t *testing.T) {
	w := newWorld(t)

	if _, err := VisibleRestaurant(w.db, w.staff1, w.r1.ID); err != nil {
		t.Fatalf("staff1 on bound restaurant: %v", err)
	}

	_, err := VisibleRestaurant(w.db, w.staff1, w.r2.ID)
	if !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("staff1 on foreign restaurant: err = %v, want not_found", err)
	}
}

// --------------------------------------------------
// Category / Product
// --------------------------------------------------

func TestVisibleCategoryCrossTenant(t *testing.T) {
	w := newWorld(t)

	if _, err := VisibleCategory(w.db, w.owner1, w.cat1.ID); err != nil {
		t.Fatalf("owner1 on own category: %v", err)
	}
	if _, err := VisibleCategory(w.db, w.staff1, w.cat1.ID); err != nil {
		t.Fatalf("staff1 on own category: %v", err)
	}

	_, err := VisibleCategory(w.db, w.owner1, w.cat2.ID)
	if !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("owner1 on foreign category: err = %v, want not_found", err)
	}
}

func TestWritableCategoryStaffForbidden(t *testing.T) {
	w := newWorld(t)

	_, err := WritableCategory(w.db, w.staff1, w.cat1.ID)
	if !httperr.IsKind(err, httperr.KindPermission) {
		t.Fatalf("staff menu write: err = %v, want permission", err)
	}
}

func TestVisibleProductScoping(t *testing.T) {
	w := newWorld(t)

	if _, err := VisibleProduct(w.db, w.staff1, w.pizza.ID); err != nil {
		t.Fatalf("staff1 on own product: %v", err)
	}

	_, err := VisibleProduct(w.db, w.staff1, w.burger.ID)
	if !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("staff1 on foreign product: err = %v, want not_found", err)
	}

	_, err = WritableProduct(w.db, w.staff1, w.pizza.ID)
	if !httperr.IsKind(err, httperr.KindPermission) {
		t.Fatalf("staff product write: err = %v, want permission", err)
	}
}

// --------------------------------------------------
// Orders
// --------------------------------------------------

func findOrders(t *testing.T, w *world, id identity.Identity) []models.Order {
	t.Helper()

	scope, err := OrdersScope(w.db.Model(&models.Order{}), id)
	if err != nil {
		t.Fatalf("scope: %v", err)
	}

	var orders []models.Order
	if err := scope.Find(&orders).Error; err != nil {
		t.Fatalf("find: %v", err)
	}
	return orders
}

func TestOrdersScopeStaffSeesOnlyOwn(t *testing.T) {
	w := newWorld(t)

	orders := findOrders(t, w, w.staff1)
	if len(orders) != 1 || orders[0].ID != w.order1.ID {
		t.Fatalf("staff1 orders = %+v, want only order %d", orders, w.order1.ID)
	}
}

func TestOrdersScopeOwnerSeesOwnRestaurantsOnly(t *testing.T) {
	w := newWorld(t)

	orders := findOrders(t, w, w.owner1)
	if len(orders) != 1 || orders[0].ID != w.order1.ID {
		t.Fatalf("owner1 orders = %+v, want only order %d", orders, w.order1.ID)
	}

	orders = findOrders(t, w, w.owner2)
	if len(orders) != 1 || orders[0].ID != w.order2.ID {
		t.Fatalf("owner2 orders = %+v, want only order %d", orders, w.order2.ID)
	}
}

func TestVisibleOrderHidesForeignOrders(t *testing.T) {
	w := newWorld(t)

	order, err := VisibleOrder(w.db, w.staff1, w.order1.ID)
	if err != nil {
		t.Fatalf("staff1 on own order: %v", err)
	}
	if len(order.Items) != 1 || order.Items[0].Product == nil {
		t.Fatalf("order not fully loaded: %+v", order)
	}

	_, err = VisibleOrder(w.db, w.staff1, w.order2.ID)
	if !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("staff1 on foreign order: err = %v, want not_found", err)
	}

	_, err = VisibleOrder(w.db, w.owner1, w.order2.ID)
	if !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("owner1 on foreign order: err = %v, want not_found", err)
	}
}

func TestCanPlaceOrders(t *testing.T) {
	w := newWorld(t)

	if err := CanPlaceOrders(w.staff1); err != nil {
		t.Fatalf("staff placing orders: %v", err)
	}
	if err := CanPlaceOrders(w.owner1); !httperr.IsKind(err, httperr.KindPermission) {
		t.Fatalf("owner placing orders: err = %v, want permission", err)
	}
}

func TestCanManageStaff(t *testing.T) {
	w := newWorld(t)

	if err := CanManageStaff(w.db, w.owner1, w.r1.ID); err != nil {
		t.Fatalf("owner1 managing own staff: %v", err)
	}
	if err := CanManageStaff(w.db, w.owner1, w.r2.ID); !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("owner1 managing foreign staff: err = %v, want not_found", err)
	}
}
