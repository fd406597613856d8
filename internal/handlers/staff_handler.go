package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tableside/restaurant-pos/internal/access"
	"github.com/tableside/restaurant-pos/internal/audit"
	"github.com/tableside/restaurant-pos/internal/httperr"
	"github.com/tableside/restaurant-pos/internal/httpresp"
	"github.com/tableside/restaurant-pos/internal/middleware"
	"github.com/tableside/restaurant-pos/internal/models"
)

type StaffHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewStaffHandler(db *gorm.DB, audit *audit.Dispatcher) *StaffHandler {
	return &StaffHandler{db: db, audit: audit}
}

// --------- Requests ---------

type AddStaffRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Name         string `json:"name" binding:"required"`
	Password     string `json:"password" binding:"required,min=6"`
	RestaurantID uint   `json:"restaurant_id" binding:"required"`
}

// --------- Handlers ---------

// List returns the staff members of a restaurant the caller owns.
func (h *StaffHandler) List(c *gin.Context) {
	id := middleware.Identity(c)

	restaurantID, err := parseUintParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_restaurant_id", "Invalid restaurant id.")
		return
	}

	if err := access.CanManageStaff(h.db, id, restaurantID); err != nil {
		httperr.FromError(c, err, "failed_to_list_staff", "Could not list staff.")
		return
	}

	var staff []models.User
	if err := h.db.
		Where("restaurant_id = ? AND role = ?", restaurantID, models.RoleStaff).
		Order("id ASC").
		Find(&staff).Error; err != nil {

		httperr.Internal(c, "failed_to_list_staff", "Could not list staff.")
		return
	}

	httpresp.List(c, staff)
}

// Add creates a staff user under a restaurant the caller owns. The new
// user is bound immediately instead of waiting for a first login.
func (h *StaffHandler) Add(c *gin.Context) {
	id := middleware.Identity(c)

	var req AddStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if err := access.CanManageStaff(h.db, id, req.RestaurantID); err != nil {
		httperr.FromError(c, err, "failed_to_add_staff", "Could not add the staff member.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "email_already_registered", "This email is already registered.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not process the password.")
		return
	}

	staff := models.User{
		Email:        email,
		Name:         req.Name,
		PasswordHash: string(hashed),
		Role:         models.RoleStaff,
		RestaurantID: &req.RestaurantID,
	}

	if err := h.db.Create(&staff).Error; err != nil {
		httperr.Internal(c, "failed_to_add_staff", "Could not add the staff member.")
		return
	}

	callerID := id.UserID()
	h.audit.Dispatch(audit.Event{
		RestaurantID: req.RestaurantID,
		UserID:       &callerID,
		Action:       "staff_created",
		Entity:       "user",
		EntityID:     &staff.ID,
	})

	c.JSON(http.StatusCreated, userResponse(&staff))
}

// --------- Helpers ---------

func parseUintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
