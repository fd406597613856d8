package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CategoryID uint      `gorm:"not null" json:"category_id"`
	Category   *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"category,omitempty"`

	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"size:255" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	IsAvailable bool            `gorm:"default:true" json:"is_available"`
	ImageURL    string          `gorm:"size:255" json:"image_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
