package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/tableside/restaurant-pos/internal/httperr"
)

type Role string

const (
	RoleOwner Role = "owner"
	RoleStaff Role = "staff"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Name         string `gorm:"size:100;not null" json:"name"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         Role   `gorm:"size:20;not null" json:"role"`

	// Owner profile fields. Cleared on save for staff rows.
	PhoneNumber string `gorm:"size:20" json:"phone_number,omitempty"`
	ShopType    string `gorm:"size:50" json:"shop_type,omitempty"`

	// Staff binding, set on first successful login against a restaurant.
	RestaurantID *uint       `json:"restaurant_id,omitempty"`
	Restaurant   *Restaurant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"restaurant,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeSave enforces the role invariant: an owner must carry a shop type,
// a staff row never carries owner profile fields.
func (u *User) BeforeSave(tx *gorm.DB) error {
	switch u.Role {
	case RoleOwner:
		if u.ShopType == "" {
			return httperr.Validation("shop_type_required")
		}
	case RoleStaff:
		u.PhoneNumber = ""
		u.ShopType = ""
	default:
		return httperr.Validation("invalid_role")
	}
	return nil
}
