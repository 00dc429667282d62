package models

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a product in the inventory.
type Product struct {
	ID           string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name         string         `json:"name" gorm:"not null" validate:"required,min=1,max=100"`
	Description  string         `json:"description" validate:"omitempty,max=500"`
	Price        float64        `json:"price" validate:"gte=0"`
	Image        string         `json:"image" validate:"omitempty,max=255"`
	Stock        int            `json:"stock" gorm:"not null;default:0" validate:"gte=0"`
	Availability int            `json:"availability" gorm:"not null;default:0"`
	CategoryID   *string        `json:"categoryId" gorm:"type:varchar(36);index" validate:"omitempty,uuid"`
	Category     *Category      `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name.
func (Product) TableName() string {
	return "products"
}

// BeforeSave keeps the stored availability flag in lockstep with stock.
// Availability is derived state; it must never be written independently.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.Stock > 0 {
		p.Availability = 1
	} else {
		p.Availability = 0
	}
	return nil
}

// UpdateProductRequest is the partial-update payload for PUT /products/:id.
// Nil fields are left untouched.
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Image       *string  `json:"image" validate:"omitempty,max=255"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	CategoryID  *string  `json:"categoryId" validate:"omitempty,uuid"`
}
