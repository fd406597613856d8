package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tableside/restaurant-pos/internal/httpresp"
	"github.com/tableside/restaurant-pos/internal/middleware"
	"github.com/tableside/restaurant-pos/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	id := middleware.Identity(c)

	var user models.User
	if err := h.db.Preload("Restaurant").First(&user, id.UserID()).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_found"})
		return
	}

	resp := gin.H{"user": userResponse(&user)}
	if user.Restaurant != nil {
		resp["restaurant"] = restaurantResponse(user.Restaurant)
	}

	httpresp.OK(c, resp)
}
