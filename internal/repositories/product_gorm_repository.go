package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/monocoto3000/products-api/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all visible products, newest first, with their category.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Preload("Category").
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID, or (nil, nil) when absent.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Category").First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetByIDs retrieves the visible products matching the given IDs.
func (r *GORMProductRepository) GetByIDs(ids []string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by IDs: %w", err)
	}
	return products, nil
}

// Create creates a new product, assigning a UUID when none was supplied.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Omit("Category").Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update saves a previously loaded product. The BeforeSave hook re-derives
// the availability flag from the (possibly changed) stock. The category
// association is never written through a product save.
func (r *GORMProductRepository) Update(product *models.Product) error {
	if err := r.db.Omit("Category").Save(product).Error; err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// UpdateStock persists a new stock value together with the derived
// availability flag in a single update, and returns the updated record.
// Returns (nil, nil) when the product is absent.
func (r *GORMProductRepository) UpdateStock(id string, newStock int) (*models.Product, error) {
	availability := 0
	if newStock > 0 {
		availability = 1
	}
	res := r.db.Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":        newStock,
			"availability": availability,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update stock for product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByID(id)
}

// Delete removes a product by its ID. Returns false when no visible record
// was removed.
func (r *GORMProductRepository) Delete(id string) (bool, error) {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete product: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// GetAvailable retrieves products with stock, newest first.
func (r *GORMProductRepository) GetAvailable() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("availability = ?", 1).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get available products: %w", err)
	}
	return products, nil
}

// GetUnavailable retrieves products without stock, newest first.
func (r *GORMProductRepository) GetUnavailable() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("availability = ?", 0).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get unavailable products: %w", err)
	}
	return products, nil
}

// GetLowStock retrieves products with 0 < stock <= threshold, ascending by
// stock.
func (r *GORMProductRepository) GetLowStock(threshold int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("stock > 0 AND stock <= ?", threshold).
		Order("stock ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get low-stock products: %w", err)
	}
	return products, nil
}
