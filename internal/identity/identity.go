// Package identity carries the authenticated caller through every access
// check and usecase as an explicit parameter. The two roles are separate
// types so owner-only fields never leak onto staff values.
package identity

import (
	"github.com/tableside/restaurant-pos/internal/httperr"
	"github.com/tableside/restaurant-pos/internal/models"
)

type Identity interface {
	UserID() uint
	Role() models.Role
}

// Owner administers one or more restaurants and their menus.
type Owner struct {
	ID    uint
	Email string
	Name  string
}

func (o Owner) UserID() uint      { return o.ID }
func (o Owner) Role() models.Role { return models.RoleOwner }

// Staff is bound to exactly one restaurant and places orders there.
type Staff struct {
	ID           uint
	Email        string
	Name         string
	RestaurantID uint
}

func (s Staff) UserID() uint      { return s.ID }
func (s Staff) Role() models.Role { return models.RoleStaff }

// FromUser builds an identity from a persisted user row. Staff rows must
// already be bound to a restaurant; tokens are only issued after binding.
func FromUser(u *models.User) (Identity, error) {
	switch u.Role {
	case models.RoleOwner:
		return Owner{ID: u.ID, Email: u.Email, Name: u.Name}, nil
	case models.RoleStaff:
		if u.RestaurantID == nil {
			return nil, httperr.Auth("staff_not_bound")
		}
		return Staff{ID: u.ID, Email: u.Email, Name: u.Name, RestaurantID: *u.RestaurantID}, nil
	}
	return nil, httperr.Auth("unknown_role")
}
