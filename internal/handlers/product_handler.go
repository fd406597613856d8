package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tableside/restaurant-pos/internal/access"
	"github.com/tableside/restaurant-pos/internal/audit"
	"github.com/tableside/restaurant-pos/internal/httperr"
	"github.com/tableside/restaurant-pos/internal/middleware"
	"github.com/tableside/restaurant-pos/internal/models"
	"github.com/tableside/restaurant-pos/internal/storage"
)

type ProductHandler struct {
	db     *gorm.DB
	audit  *audit.Dispatcher
	images *storage.ImageStore
}

func NewProductHandler(db *gorm.DB, audit *audit.Dispatcher, images *storage.ImageStore) *ProductHandler {
	return &ProductHandler{db: db, audit: audit, images: images}
}

// --------- Requests ---------

type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	IsAvailable *bool           `json:"is_available,omitempty"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	IsAvailable *bool            `json:"is_available,omitempty"`
}

// --------- Handlers ---------

// ListForCategory returns the products under a category the caller may see.
func (h *ProductHandler) ListForCategory(c *gin.Context) {
	id := middleware.Identity(c)

	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_category_id", "Invalid category id.")
		return
	}

	if _, err := access.VisibleCategory(h.db, id, categoryID); err != nil {
		httperr.FromError(c, err, "failed_to_list_products", "Could not list products.")
		return
	}

	q := h.db.Where("category_id = ?", categoryID)

	if availableStr := strings.TrimSpace(c.Query("available")); availableStr != "" {
		if availableStr == "true" {
			q = q.Where("is_available = ?", true)
		} else if availableStr == "false" {
			q = q.Where("is_available = ?", false)
		}
	}

	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var products []models.Product
	if err := q.Order("id ASC").Find(&products).Error; err != nil {
		httperr.Internal(c, "failed_to_list_products", "Could not list products.")
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Create(c *gin.Context) {
	id := middleware.Identity(c)

	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_category_id", "Invalid category id.")
		return
	}

	category, err := access.WritableCategory(h.db, id, categoryID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_create_product", "Could not create the product.")
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Price.IsNegative() {
		httperr.BadRequest(c, "invalid_price", "Price must not be negative.")
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	product := models.Product{
		CategoryID:  category.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price.Round(2),
		IsAvailable: available,
	}

	if err := h.db.Create(&product).Error; err != nil {
		httperr.Internal(c, "failed_to_create_product", "Could not create the product.")
		return
	}

	h.dispatch(id.UserID(), category.RestaurantID, "product_created", product.ID)

	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id := middleware.Identity(c)

	productID, err := parseUintParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_product_id", "Invalid product id.")
		return
	}

	product, err := access.VisibleProduct(h.db, id, productID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_get_product", "Could not load the product.")
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id := middleware.Identity(c)

	productID, err := parseUintParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_product_id", "Invalid product id.")
		return
	}

	product, err := access.WritableProduct(h.db, id, productID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_update_product", "Could not update the product.")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			httperr.BadRequest(c, "invalid_price", "Price must not be negative.")
			return
		}
		// Existing order lines keep their snapshots untouched.
		product.Price = req.Price.Round(2)
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}

	if err := h.db.Save(product).Error; err != nil {
		httperr.Internal(c, "failed_to_update_product", "Could not update the product.")
		return
	}

	h.dispatch(id.UserID(), restaurantOfProduct(h.db, product), "product_updated", product.ID)

	c.JSON(http.StatusOK, product)
}

// Delete rejects products still referenced by order lines; snapshots alone
// do not keep a product alive, the row reference does.
func (h *ProductHandler) Delete(c *gin.Context) {
	id := middleware.Identity(c)

	productID, err := parseUintParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_product_id", "Invalid product id.")
		return
	}

	product, err := access.WritableProduct(h.db, id, productID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_delete_product", "Could not delete the product.")
		return
	}

	var referenced int64
	if err := h.db.Model(&models.OrderItem{}).
		Where("product_id = ?", product.ID).
		Count(&referenced).Error; err != nil {

		httperr.Internal(c, "failed_to_delete_product", "Could not delete the product.")
		return
	}
	if referenced > 0 {
		httperr.BadRequest(c, "product_in_use", "The product is referenced by existing orders.")
		return
	}

	if err := h.db.Delete(&models.Product{}, product.ID).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_product", "Could not delete the product.")
		return
	}

	h.dispatch(id.UserID(), restaurantOfProduct(h.db, product), "product_deleted", product.ID)

	c.Status(http.StatusNoContent)
}

// UploadImage stores a product image on S3 and records its URL.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id := middleware.Identity(c)

	productID, err := parseUintParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_product_id", "Invalid product id.")
		return
	}

	product, err := access.WritableProduct(h.db, id, productID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_upload_image", "Could not upload the image.")
		return
	}

	if h.images == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "image_storage_disabled", "Image storage is not configured.")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "image_required", "Send the image as multipart field 'image'.")
		return
	}

	src, err := file.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_upload_image", "Could not read the image.")
		return
	}
	defer src.Close()

	key := fmt.Sprintf("products/%d", product.ID)
	url, err := h.images.UploadImage(c.Request.Context(), key, src)
	if err != nil {
		httperr.Internal(c, "failed_to_upload_image", "Could not store the image.")
		return
	}

	product.ImageURL = url
	if err := h.db.Save(product).Error; err != nil {
		httperr.Internal(c, "failed_to_upload_image", "Could not save the image URL.")
		return
	}

	c.JSON(http.StatusOK, product)
}

// --------- Helpers ---------

func restaurantOfProduct(db *gorm.DB, p *models.Product) uint {
	var category models.Category
	if err := db.First(&category, p.CategoryID).Error; err != nil {
		return 0
	}
	return category.RestaurantID
}

func (h *ProductHandler) dispatch(userID, restaurantID uint, action string, entityID uint) {
	h.audit.Dispatch(audit.Event{
		RestaurantID: restaurantID,
		UserID:       &userID,
		Action:       action,
		Entity:       "product",
		EntityID:     &entityID,
	})
}
