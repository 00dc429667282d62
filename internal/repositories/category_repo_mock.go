package repositories

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/monocoto3000/products-api/internal/models"
)

// MockCategoryRepository is an in-memory implementation of CategoryRepository.
type MockCategoryRepository struct {
	categories map[string]models.Category
	mu         sync.RWMutex
}

// NewMockCategoryRepository creates a new instance of MockCategoryRepository.
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		categories: make(map[string]models.Category),
	}
}

// GetAll returns all visible categories.
func (r *MockCategoryRepository) GetAll() ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categoryList := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		if !c.DeletedAt.Valid {
			categoryList = append(categoryList, c)
		}
	}
	return categoryList, nil
}

// GetByID returns a visible category by its ID, or (nil, nil) when absent.
func (r *MockCategoryRepository) GetByID(id string) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[id]
	if !ok || category.DeletedAt.Valid {
		return nil, nil
	}
	return &category, nil
}

// Create adds a new category, assigning a UUID when none was supplied.
func (r *MockCategoryRepository) Create(category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now
	r.categories[category.ID] = *category
	return nil
}

// Update saves an existing category.
func (r *MockCategoryRepository) Update(category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.categories[category.ID]
	if !ok || existing.DeletedAt.Valid {
		return nil
	}
	category.UpdatedAt = time.Now()
	r.categories[category.ID] = *category
	return nil
}

// Delete soft-deletes a category by its ID. Returns false when no visible
// record was removed.
func (r *MockCategoryRepository) Delete(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	category, ok := r.categories[id]
	if !ok || category.DeletedAt.Valid {
		return false, nil
	}
	category.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	r.categories[id] = category
	return true, nil
}
