package services

import (
	"github.com/rs/zerolog/log"

	"github.com/monocoto3000/products-api/internal/models"
	"github.com/monocoto3000/products-api/internal/repositories"
)

// ProductService handles business logic related to products. Stock
// mutations are handled by StockService against the same repository.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all visible products, newest first, with their
// category association.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, models.NewNotFoundError("product", id)
	}
	return product, nil
}

// CreateProduct creates a new product. The repository assigns the ID when
// the caller left it blank.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := s.repo.Create(product); err != nil {
		return err
	}
	log.Info().
		Str("product_id", product.ID).
		Str("name", product.Name).
		Int("stock", product.Stock).
		Msg("product created")
	return nil
}

// UpdateProduct applies a partial update to an existing product. Nil fields
// in the request are left untouched.
func (s *ProductService) UpdateProduct(id string, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, models.NewNotFoundError("product", id)
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
		product.Category = nil
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	log.Info().Str("product_id", id).Msg("product updated")
	return product, nil
}

// DeleteProduct removes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	removed, err := s.repo.Delete(id)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewNotFoundError("product", id)
	}
	log.Info().Str("product_id", id).Msg("product deleted")
	return nil
}
