package repositories

import (
	"github.com/monocoto3000/products-api/internal/models"
)

// ProductRepository defines the interface for product data access.
// Lookups return (nil, nil) when no visible record matches; soft-deleted
// records are invisible on every method.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetByIDs(ids []string) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	UpdateStock(id string, newStock int) (*models.Product, error)
	Delete(id string) (bool, error)
	GetAvailable() ([]models.Product, error)
	GetUnavailable() ([]models.Product, error)
	GetLowStock(threshold int) ([]models.Product, error)
}
