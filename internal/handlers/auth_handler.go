package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tableside/restaurant-pos/internal/httperr"
	"github.com/tableside/restaurant-pos/internal/models"
	"github.com/tableside/restaurant-pos/internal/tokens"
	"github.com/tableside/restaurant-pos/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	tokens *tokens.Manager
}

func NewAuthHandler(db *gorm.DB, tm *tokens.Manager) *AuthHandler {
	return &AuthHandler{db: db, tokens: tm}
}

// --------- Requests ---------

type RegisterRequest struct {
	RestaurantName string `json:"restaurant_name" binding:"required"`

	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	PhoneNumber string `json:"phone_number"`
	ShopType    string `json:"shop_type" binding:"required"`
}

type LoginRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required"`
	RestaurantID uint   `json:"restaurant_id" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// --------- Handlers ---------

// Register signs up an owner together with their first restaurant.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not look valid.")
		return
	}

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

	owner := models.User{
		Email:        email,
		Name:         req.Name,
		PasswordHash: string(hashed),
		Role:         models.RoleOwner,
		PhoneNumber:  req.PhoneNumber,
		ShopType:     req.ShopType,
	}
	restaurant := models.Restaurant{Name: req.RestaurantName}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&owner).Error; err != nil {
			return err
		}
		restaurant.OwnerID = owner.ID
		return tx.Create(&restaurant).Error
	})
	if err != nil {
		if httperr.IsKind(err, httperr.KindValidation) {
			httperr.FromError(c, err, "invalid_request", "Invalid registration data.")
			return
		}
		httperr.Internal(c, "failed_to_register", "Could not create the account.")
		return
	}

	pair, err := h.tokens.Issue(c.Request.Context(), &owner)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not generate tokens.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":       userResponse(&owner),
		"restaurant": restaurantResponse(&restaurant),
		"tokens":     pair,
	})
}

// Login authenticates a user against a specific restaurant. A staff member
// with no binding yet is bound to that restaurant on first success.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var restaurant models.Restaurant
	if err := h.db.First(&restaurant, req.RestaurantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "restaurant_not_found", "Restaurant not found.")
			return
		}
		httperr.Internal(c, "internal_error", "Could not load the restaurant.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials.")
			return
		}
		httperr.Internal(c, "internal_error", "Could not load the user.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials.")
		return
	}

	switch user.Role {
	case models.RoleOwner:
		if restaurant.OwnerID != user.ID {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials.")
			return
		}

	case models.RoleStaff:
		if user.RestaurantID == nil {
			// First successful login binds the staff member.
			user.RestaurantID = &restaurant.ID
			if err := h.db.Save(&user).Error; err != nil {
				httperr.Internal(c, "failed_to_bind_staff", "Could not bind the staff member.")
				return
			}
		} else if *user.RestaurantID != restaurant.ID {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials.")
			return
		}

	default:
		httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials.")
		return
	}

	pair, err := h.tokens.Issue(c.Request.Context(), &user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not generate tokens.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"role":       user.Role,
		"user":       userResponse(&user),
		"restaurant": restaurantResponse(&restaurant),
		"tokens":     pair,
	})
}

// Refresh rotates a refresh token into a fresh pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	userID, err := h.tokens.Rotate(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httperr.FromError(c, err, "invalid_refresh_token", "Invalid refresh token.")
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		httperr.Unauthorized(c, "invalid_refresh_token", "Invalid refresh token.")
		return
	}

	pair, err := h.tokens.Issue(c.Request.Context(), &user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not generate tokens.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": pair})
}

// --------- Responses ---------

func userResponse(u *models.User) gin.H {
	resp := gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	}
	if u.Role == models.RoleOwner {
		resp["phone_number"] = u.PhoneNumber
		resp["shop_type"] = u.ShopType
	}
	if u.RestaurantID != nil {
		resp["restaurant_id"] = *u.RestaurantID
	}
	return resp
}

func restaurantResponse(r *models.Restaurant) gin.H {
	return gin.H{
		"id":       r.ID,
		"name":     r.Name,
		"owner_id": r.OwnerID,
	}
}
