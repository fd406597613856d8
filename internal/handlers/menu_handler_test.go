package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tableside/restaurant-pos/internal/audit"
	"github.com/tableside/restaurant-pos/internal/identity"
	infraRepo "github.com/tableside/restaurant-pos/internal/infra/repository"
	"github.com/tableside/restaurant-pos/internal/middleware"
	"github.com/tableside/restaurant-pos/internal/models"
	ucOrder "github.com/tableside/restaurant-pos/internal/usecase/order"
)

func withIdentity(id identity.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextIdentity, id)
		c.Next()
	}
}

// menuWorld is one tenant with a category of two products, one of them
// already referenced by an order line.
type menuWorld struct {
	db *gorm.DB

	owner identity.Owner
	staff identity.Staff

	restaurant models.Restaurant
	category   models.Category
	pizza      models.Product // referenced by the order
	soda       models.Product // unreferenced
	order      models.Order
}

func setupMenuRouter(t *testing.T) (*gin.Engine, *menuWorld) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := &menuWorld{db: openTestDB(t)}

	ownerRow := models.User{
		Email: "owner@example.com", Name: "Olive", PasswordHash: "x",
		Role: models.RoleOwner, ShopType: "pizzeria",
	}
	if err := w.db.Create(&ownerRow).Error; err != nil {
		t.Fatalf("seed owner: %v", err)
	}

	w.restaurant = models.Restaurant{Name: "Luigi's", OwnerID: ownerRow.ID}
	if err := w.db.Create(&w.restaurant).Error; err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}

	staffRow := models.User{
		Email: "staff@example.com", Name: "Sam", PasswordHash: "x",
		Role: models.RoleStaff, RestaurantID: &w.restaurant.ID,
	}
	if err := w.db.Create(&staffRow).Error; err != nil {
		t.Fatalf("seed staff: %v", err)
	}

	w.owner = identity.Owner{ID: ownerRow.ID, Email: ownerRow.Email, Name: ownerRow.Name}
	w.staff = identity.Staff{ID: staffRow.ID, Email: staffRow.Email, Name: staffRow.Name, RestaurantID: w.restaurant.ID}

	w.category = models.Category{RestaurantID: w.restaurant.ID, Name: "Food"}
	if err := w.db.Create(&w.category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	w.pizza = models.Product{CategoryID: w.category.ID, Name: "Pizza", Price: decimal.RequireFromString("9.50")}
	w.soda = models.Product{CategoryID: w.category.ID, Name: "Soda", Price: decimal.RequireFromString("1.25")}
	if err := w.db.Create(&w.pizza).Error; err != nil {
		t.Fatalf("seed pizza: %v", err)
	}
	if err := w.db.Create(&w.soda).Error; err != nil {
		t.Fatalf("seed soda: %v", err)
	}

	w.order = models.Order{
		StaffID:    staffRow.ID,
		OrderDate:  time.Now().UTC(),
		TotalPrice: decimal.RequireFromString("19.00"),
		Items:      []models.OrderItem{{ProductID: w.pizza.ID, Quantity: 2, PriceAtTime: w.pizza.Price}},
	}
	if err := w.db.Create(&w.order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}

	disp := audit.NewDispatcher(audit.New(w.db))
	categoryHandler := NewCategoryHandler(w.db, disp, nil)
	productHandler := NewProductHandler(w.db, disp, nil)
	meHandler := NewMeHandler(w.db)

	repo := infraRepo.NewOrderGormRepository(w.db)
	orderHandler := NewOrderHandler(
		w.db,
		ucOrder.NewCreateOrder(repo, disp),
		ucOrder.NewAddItem(repo, disp),
		ucOrder.NewRemoveItem(repo, disp),
		ucOrder.NewReplaceItems(repo, disp),
		ucOrder.NewDeleteOrder(repo, disp),
	)

	r := gin.New()
	r.DELETE("/api/categories/:id", withIdentity(w.owner), categoryHandler.Delete)
	r.DELETE("/api/products/:id", withIdentity(w.owner), productHandler.Delete)
	r.GET("/api/me", withIdentity(w.owner), meHandler.GetMe)
	r.GET("/api/orders/:id/print-bill", withIdentity(w.staff), orderHandler.PrintBill)
	return r, w
}

func do(t *testing.T, r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDeleteCategoryRejectedWhileReferenced(t *testing.T) {
	r, w := setupMenuRouter(t)

	resp := do(t, r, http.MethodDelete, "/api/categories/"+uitoa(w.category.ID))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body = %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "category_in_use") {
		t.Fatalf("body = %s, want category_in_use", resp.Body.String())
	}

	var count int64
	if err := w.db.Model(&models.Category{}).Where("id = ?", w.category.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatal("category deleted despite referenced products")
	}
}

func TestDeleteProductRejectedWhileReferenced(t *testing.T) {
	r, w := setupMenuRouter(t)

	resp := do(t, r, http.MethodDelete, "/api/products/"+uitoa(w.pizza.ID))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body = %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "product_in_use") {
		t.Fatalf("body = %s, want product_in_use", resp.Body.String())
	}

	var count int64
	if err := w.db.Model(&models.Product{}).Where("id = ?", w.pizza.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatal("product deleted despite order reference")
	}
}

func TestDeleteUnreferencedProduct(t *testing.T) {
	r, w := setupMenuRouter(t)

	resp := do(t, r, http.MethodDelete, "/api/products/"+uitoa(w.soda.ID))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204; body = %s", resp.Code, resp.Body.String())
	}

	var count int64
	if err := w.db.Model(&models.Product{}).Where("id = ?", w.soda.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatal("unreferenced product still present")
	}
}

func TestDeleteCategoryCascadesProducts(t *testing.T) {
	r, w := setupMenuRouter(t)

	// Clear the order first so no product is referenced any more.
	if err := w.db.Where("order_id = ?", w.order.ID).Delete(&models.OrderItem{}).Error; err != nil {
		t.Fatalf("clear items: %v", err)
	}
	if err := w.db.Delete(&models.Order{}, w.order.ID).Error; err != nil {
		t.Fatalf("clear order: %v", err)
	}

	resp := do(t, r, http.MethodDelete, "/api/categories/"+uitoa(w.category.ID))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204; body = %s", resp.Code, resp.Body.String())
	}

	var categories, products int64
	if err := w.db.Model(&models.Category{}).Where("id = ?", w.category.ID).Count(&categories).Error; err != nil {
		t.Fatalf("count categories: %v", err)
	}
	if err := w.db.Model(&models.Product{}).Where("category_id = ?", w.category.ID).Count(&products).Error; err != nil {
		t.Fatalf("count products: %v", err)
	}
	if categories != 0 || products != 0 {
		t.Fatalf("left behind: %d categories, %d products", categories, products)
	}
}

func TestGetMe(t *testing.T) {
	r, _ := setupMenuRouter(t)

	resp := do(t, r, http.MethodGet, "/api/me")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "owner@example.com") {
		t.Fatalf("body = %s, want the caller's email", resp.Body.String())
	}
}

func TestPrintBill(t *testing.T) {
	r, w := setupMenuRouter(t)

	resp := do(t, r, http.MethodGet, "/api/orders/"+uitoa(w.order.ID)+"/print-bill")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}

	body := resp.Body.String()
	if !strings.Contains(body, "bill_text") {
		t.Fatalf("body = %s, want bill_text field", body)
	}
	if !strings.Contains(body, "Pizza  x2") {
		t.Fatalf("body = %s, want the pizza line", body)
	}
}

func uitoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
