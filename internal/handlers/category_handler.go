package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tableside/restaurant-pos/internal/access"
	"github.com/tableside/restaurant-pos/internal/audit"
	"github.com/tableside/restaurant-pos/internal/httperr"
	"github.com/tableside/restaurant-pos/internal/middleware"
	"github.com/tableside/restaurant-pos/internal/models"
	"github.com/tableside/restaurant-pos/internal/storage"
)

type CategoryHandler struct {
	db     *gorm.DB
	audit  *audit.Dispatcher
	images *storage.ImageStore
}

func NewCategoryHandler(db *gorm.DB, audit *audit.Dispatcher, images *storage.ImageStore) *CategoryHandler {
	return &CategoryHandler{db: db, audit: audit, images: images}
}

// --------- Requests ---------

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateCategoryRequest struct {
	Name *string `json:"name,omitempty"`
}

// --------- Handlers ---------

// ListForRestaurant returns the categories of a restaurant the caller may
// see (owner of it, or staff bound to it).
func (h *CategoryHandler) ListForRestaurant(c *gin.Context) {
	id := middleware.Identity(c)

	restaurantID, err := parseUintParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_restaurant_id", "Invalid restaurant id.")
		return
	}

	if _, err := access.VisibleRestaurant(h.db, id, restaurantID); err != nil {
		httperr.FromError(c, err, "failed_to_list_categories", "Could not list categories.")
		return
	}

	var categories []models.Category
	if err := h.db.
		Where("restaurant_id = ?", restaurantID).
		Order("name ASC").
		Find(&categories).Error; err != nil {

		httperr.Internal(c, "failed_to_list_categories", "Could not list categories.")
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	id := middleware.Identity(c)

	restaurantID, err := parseUintParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_restaurant_id", "Invalid restaurant id.")
		return
	}

	if _, err := access.OwnedRestaurant(h.db, id, restaurantID); err != nil {
		httperr.FromError(c, err, "failed_to_create_category", "Could not create the category.")
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var count int64
	h.db.Model(&models.Category{}).
		Where("restaurant_id = ? AND name = ?", restaurantID, req.Name).
		Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "category_already_exists", "A category with this name already exists.")
		return
	}

	category := models.Category{
		RestaurantID: restaurantID,
		Name:         req.Name,
	}

	if err := h.db.Create(&category).Error; err != nil {
		httperr.Internal(c, "failed_to_create_category", "Could not create the category.")
		return
	}

	h.dispatch(id.UserID(), restaurantID, "category_created", category.ID)

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id := middleware.Identity(c)

	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_category_id", "Invalid category id.")
		return
	}

	category, err := access.VisibleCategory(h.db, id, categoryID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_get_category", "Could not load the category.")
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id := middleware.Identity(c)

	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_category_id", "Invalid category id.")
		return
	}

	category, err := access.WritableCategory(h.db, id, categoryID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_update_category", "Could not update the category.")
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil && *req.Name != category.Name {
		var count int64
		h.db.Model(&models.Category{}).
			Where("restaurant_id = ? AND name = ? AND id <> ?", category.RestaurantID, *req.Name, category.ID).
			Count(&count)
		if count > 0 {
			httperr.BadRequest(c, "category_already_exists", "A category with this name already exists.")
			return
		}
		category.Name = *req.Name
	}

	if err := h.db.Save(category).Error; err != nil {
		httperr.Internal(c, "failed_to_update_category", "Could not update the category.")
		return
	}

	h.dispatch(id.UserID(), category.RestaurantID, "category_updated", category.ID)

	c.JSON(http.StatusOK, category)
}

// Delete removes a category and cascades to its products. The delete is
// rejected while any product of the category sits on an order line.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id := middleware.Identity(c)

	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_category_id", "Invalid category id.")
		return
	}

	category, err := access.WritableCategory(h.db, id, categoryID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_delete_category", "Could not delete the category.")
		return
	}

	var referenced int64
	if err := h.db.Model(&models.OrderItem{}).
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.category_id = ?", category.ID).
		Count(&referenced).Error; err != nil {

		httperr.Internal(c, "failed_to_delete_category", "Could not delete the category.")
		return
	}
	if referenced > 0 {
		httperr.BadRequest(c, "category_in_use", "Products of this category are referenced by orders.")
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("category_id = ?", category.ID).
			Delete(&models.Product{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, category.ID).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_delete_category", "Could not delete the category.")
		return
	}

	h.dispatch(id.UserID(), category.RestaurantID, "category_deleted", category.ID)

	c.Status(http.StatusNoContent)
}

// UploadImage stores a category image on S3 and records its URL.
func (h *CategoryHandler) UploadImage(c *gin.Context) {
	id := middleware.Identity(c)

	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_category_id", "Invalid category id.")
		return
	}

	category, err := access.WritableCategory(h.db, id, categoryID)
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

	key := fmt.Sprintf("categories/%d", category.ID)
	url, err := h.images.UploadImage(c.Request.Context(), key, src)
	if err != nil {
		httperr.Internal(c, "failed_to_upload_image", "Could not store the image.")
		return
	}

	category.ImageURL = url
	if err := h.db.Save(category).Error; err != nil {
		httperr.Internal(c, "failed_to_upload_image", "Could not save the image URL.")
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) dispatch(userID, restaurantID uint, action string, entityID uint) {
	h.audit.Dispatch(audit.Event{
		RestaurantID: restaurantID,
		UserID:       &userID,
		Action:       action,
		Entity:       "category",
		EntityID:     &entityID,
	})
}
