package models

import (
	"time"

	"gorm.io/gorm"
)

// Category groups products. A category is referenced by zero or more
// products but does not own them.
type Category struct {
	ID        string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name      string         `json:"name" gorm:"not null" validate:"required,min=1,max=100"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name.
func (Category) TableName() string {
	return "categories"
}

// UpdateCategoryRequest is the partial-update payload for PUT /categories/:id.
type UpdateCategoryRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
}
