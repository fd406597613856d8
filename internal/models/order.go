package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// The placing staff member. The user row is delete-blocked while
	// referenced (enforced in the staff delete path, RESTRICT at the store).
	StaffID uint  `gorm:"not null" json:"staff_id"`
	Staff   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"staff,omitempty"`

	// Set at creation, never updated afterwards.
	OrderDate time.Time `gorm:"not null" json:"order_date"`

	// Derived: sum of item subtotals, recomputed inside the same
	// transaction as every item mutation. Never client-settable.
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total_price"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE;" json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderItem struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OrderID uint `gorm:"not null;index" json:"order_id"`

	ProductID uint     `gorm:"not null" json:"product_id"`
	Product   *Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"product,omitempty"`

	Quantity int `gorm:"not null;default:1" json:"quantity"`

	// Price snapshot captured when the line was created; later product
	// price changes never touch it.
	PriceAtTime decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_at_time"`

	CreatedAt time.Time `json:"created_at"`
}
