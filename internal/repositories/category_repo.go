package repositories

import (
	"github.com/monocoto3000/products-api/internal/models"
)

// CategoryRepository defines the interface for category data access.
// Lookups return (nil, nil) when no visible record matches.
type CategoryRepository interface {
	GetAll() ([]models.Category, error)
	GetByID(id string) (*models.Category, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
	Delete(id string) (bool, error)
}
