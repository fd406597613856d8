package models

import "time"

type Category struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RestaurantID uint        `gorm:"not null;uniqueIndex:idx_categories_restaurant_name" json:"restaurant_id"`
	Restaurant   *Restaurant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"restaurant,omitempty"`

	Name     string `gorm:"size:100;not null;uniqueIndex:idx_categories_restaurant_name" json:"name"`
	ImageURL string `gorm:"size:255" json:"image_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
