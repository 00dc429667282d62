package repositories

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/monocoto3000/products-api/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// It mirrors the GORM implementation's semantics, including soft deletes and
// the derived availability flag.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

func deriveAvailability(stock int) int {
	if stock > 0 {
		return 1
	}
	return 0
}

// visible reports whether the record is not soft-deleted.
func visible(p models.Product) bool {
	return !p.DeletedAt.Valid
}

// GetAll returns all visible products, newest first.
func (r *MockProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if visible(p) {
			productList = append(productList, p)
		}
	}
	sort.Slice(productList, func(i, j int) bool {
		return productList[i].CreatedAt.After(productList[j].CreatedAt)
	})
	return productList, nil
}

// GetByID returns a visible product by its ID, or (nil, nil) when absent.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok || !visible(product) {
		return nil, nil
	}
	return &product, nil
}

// GetByIDs returns the visible products matching the given IDs.
func (r *MockProductRepository) GetByIDs(ids []string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok && visible(p) {
			productList = append(productList, p)
		}
	}
	return productList, nil
}

// Create adds a new product, assigning a UUID when none was supplied.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	product.Availability = deriveAvailability(product.Stock)
	r.products[product.ID] = *product
	return nil
}

// Update saves an existing product, re-deriving availability from stock.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok || !visible(existing) {
		return nil
	}
	product.UpdatedAt = time.Now()
	product.Availability = deriveAvailability(product.Stock)
	r.products[product.ID] = *product
	return nil
}

// UpdateStock persists a new stock value plus the derived availability flag.
// Returns (nil, nil) when the product is absent.
func (r *MockProductRepository) UpdateStock(id string, newStock int) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok || !visible(product) {
		return nil, nil
	}
	product.Stock = newStock
	product.Availability = deriveAvailability(newStock)
	product.UpdatedAt = time.Now()
	r.products[id] = product
	return &product, nil
}

// Delete soft-deletes a product by its ID. Returns false when no visible
// record was removed.
func (r *MockProductRepository) Delete(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok || !visible(product) {
		return false, nil
	}
	product.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	r.products[id] = product
	return true, nil
}

// GetAvailable returns visible products with stock, newest first.
func (r *MockProductRepository) GetAvailable() ([]models.Product, error) {
	return r.filter(func(p models.Product) bool {
		return p.Availability == 1
	}, byCreatedAtDesc)
}

// GetUnavailable returns visible products without stock, newest first.
func (r *MockProductRepository) GetUnavailable() ([]models.Product, error) {
	return r.filter(func(p models.Product) bool {
		return p.Availability == 0
	}, byCreatedAtDesc)
}

// GetLowStock returns visible products with 0 < stock <= threshold,
// ascending by stock.
func (r *MockProductRepository) GetLowStock(threshold int) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool {
		return p.Stock > 0 && p.Stock <= threshold
	}, byStockAsc)
}

type productOrder func(products []models.Product)

func byCreatedAtDesc(products []models.Product) {
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
}

func byStockAsc(products []models.Product) {
	sort.Slice(products, func(i, j int) bool {
		return products[i].Stock < products[j].Stock
	})
}

func (r *MockProductRepository) filter(match func(models.Product) bool, order productOrder) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0)
	for _, p := range r.products {
		if visible(p) && match(p) {
			productList = append(productList, p)
		}
	}
	order(productList)
	return productList, nil
}
