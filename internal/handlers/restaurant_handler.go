package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tableside/restaurant-pos/internal/access"
	"github.com/tableside/restaurant-pos/internal/httperr"
	"github.com/tableside/restaurant-pos/internal/httpresp"
	"github.com/tableside/restaurant-pos/internal/identity"
	"github.com/tableside/restaurant-pos/internal/middleware"
	"github.com/tableside/restaurant-pos/internal/models"
)

type RestaurantHandler struct {
	db *gorm.DB
}

func NewRestaurantHandler(db *gorm.DB) *RestaurantHandler {
	return &RestaurantHandler{db: db}
}

// --------- Requests ---------

type CreateRestaurantRequest struct {
	Name string `json:"name" binding:"required"`
}

// --------- Handlers ---------

func (h *RestaurantHandler) List(c *gin.Context) {
	id := middleware.Identity(c)

	scope, err := access.OwnedRestaurantsScope(h.db, id)
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_restaurants", "Could not list restaurants.")
		return
	}

	var restaurants []models.Restaurant
	if err := scope.Order("id ASC").Find(&restaurants).Error; err != nil {
		httperr.Internal(c, "failed_to_list_restaurants", "Could not list restaurants.")
		return
	}

	httpresp.List(c, restaurants)
}

func (h *RestaurantHandler) Create(c *gin.Context) {
	id := middleware.Identity(c)

	owner, ok := id.(identity.Owner)
	if !ok {
		httperr.Forbidden(c, "owner_role_required", "Only owners manage restaurants.")
		return
	}

	var req CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	restaurant := models.Restaurant{
		Name:    req.Name,
		OwnerID: owner.ID,
	}

	if err := h.db.Create(&restaurant).Error; err != nil {
		httperr.Internal(c, "failed_to_create_restaurant", "Could not create the restaurant.")
		return
	}

	c.JSON(http.StatusCreated, restaurant)
}
