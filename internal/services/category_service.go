package services

import (
	"github.com/rs/zerolog/log"

	"github.com/monocoto3000/products-api/internal/models"
	"github.com/monocoto3000/products-api/internal/repositories"
)

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{
		repo: repo,
	}
}

// GetAllCategories retrieves all visible categories.
func (s *CategoryService) GetAllCategories() ([]models.Category, error) {
	return s.repo.GetAll()
}

// GetCategoryByID retrieves a single category by its ID.
func (s *CategoryService) GetCategoryByID(id string) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, models.NewNotFoundError("category", id)
	}
	return category, nil
}

// CreateCategory creates a new category.
func (s *CategoryService) CreateCategory(category *models.Category) error {
	if err := s.repo.Create(category); err != nil {
		return err
	}
	log.Info().Str("category_id", category.ID).Str("name", category.Name).Msg("category created")
	return nil
}

// UpdateCategory applies a partial update to an existing category.
func (s *CategoryService) UpdateCategory(id string, req *models.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, models.NewNotFoundError("category", id)
	}

	if req.Name != nil {
		category.Name = *req.Name
	}

	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	log.Info().Str("category_id", id).Msg("category updated")
	return category, nil
}

// DeleteCategory removes a category by its ID. Products referencing it keep
// their dangling reference; the association is a weak one.
func (s *CategoryService) DeleteCategory(id string) error {
	removed, err := s.repo.Delete(id)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewNotFoundError("category", id)
	}
	log.Info().Str("category_id", id).Msg("category deleted")
	return nil
}
