package services

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/monocoto3000/products-api/internal/models"
	"github.com/monocoto3000/products-api/internal/repositories"
	"github.com/monocoto3000/products-api/pkg/rabbitmq"
)

// DefaultLowStockThreshold is the inclusive upper bound used by the
// low-stock filter when the caller does not supply one.
const DefaultLowStockThreshold = 5

// StockEventPublisher publishes stock mutation events. *rabbitmq.Client
// satisfies it; a nil publisher disables event publishing.
type StockEventPublisher interface {
	PublishStockEvent(event rabbitmq.StockEvent) error
}

// StockService applies stock mutations to products: add, subtract and
// adjust-to-value, each in single-item and bulk form. Mutations are plain
// read-then-write sequences against the repository with no locking; two
// concurrent mutations of the same product are not guaranteed race-free.
type StockService struct {
	repo      repositories.ProductRepository
	publisher StockEventPublisher
}

// NewStockService creates a new StockService. publisher may be nil.
func NewStockService(repo repositories.ProductRepository, publisher StockEventPublisher) *StockService {
	return &StockService{
		repo:      repo,
		publisher: publisher,
	}
}

// AddStock increases a product's stock by quantity. quantity must be
// strictly positive.
func (s *StockService) AddStock(id string, quantity int) (*models.StockResult, error) {
	if quantity <= 0 {
		return nil, models.NewValidationError("quantity must be greater than 0")
	}

	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, models.NewNotFoundError("product", id)
	}

	updated, err := s.repo.UpdateStock(id, product.Stock+quantity)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, models.NewNotFoundError("product", id)
	}

	result := &models.StockResult{
		ProductID:     id,
		PreviousStock: product.Stock,
		NewStock:      updated.Stock,
		QuantityAdded: quantity,
		Availability:  updated.Availability,
	}
	log.Info().
		Str("product_id", id).
		Int("previous_stock", result.PreviousStock).
		Int("new_stock", result.NewStock).
		Msg("stock added")
	s.publish("stock.added", result)
	return result, nil
}

// SubtractStock decreases a product's stock by quantity. Subtraction below
// zero is rejected, not clamped.
func (s *StockService) SubtractStock(id string, quantity int) (*models.StockResult, error) {
	if quantity <= 0 {
		return nil, models.NewValidationError("quantity must be greater than 0")
	}

	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, models.NewNotFoundError("product", id)
	}

	newStock := product.Stock - quantity
	if newStock < 0 {
		return nil, models.NewValidationError(
			"insufficient stock: current stock %d, requested %d", product.Stock, quantity)
	}

	updated, err := s.repo.UpdateStock(id, newStock)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, models.NewNotFoundError("product", id)
	}

	result := &models.StockResult{
		ProductID:          id,
		PreviousStock:      product.Stock,
		NewStock:           updated.Stock,
		QuantitySubtracted: quantity,
		Availability:       updated.Availability,
	}
	log.Info().
		Str("product_id", id).
		Int("previous_stock", result.PreviousStock).
		Int("new_stock", result.NewStock).
		Msg("stock subtracted")
	s.publish("stock.subtracted", result)
	return result, nil
}

// AdjustStock sets a product's stock to an exact value. Setting the current
// value again is rejected as a no-op.
func (s *StockService) AdjustStock(id string, newStock int) (*models.StockResult, error) {
	if newStock < 0 {
		return nil, models.NewValidationError("stock cannot be negative")
	}

	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, models.NewNotFoundError("product", id)
	}

	if product.Stock == newStock {
		return nil, models.NewValidationError("stock already equals %d", newStock)
	}

	updated, err := s.repo.UpdateStock(id, newStock)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, models.NewNotFoundError("product", id)
	}

	result := &models.StockResult{
		ProductID:     id,
		PreviousStock: product.Stock,
		NewStock:      updated.Stock,
		Difference:    newStock - product.Stock,
		Availability:  updated.Availability,
	}
	log.Info().
		Str("product_id", id).
		Int("previous_stock", result.PreviousStock).
		Int("new_stock", result.NewStock).
		Msg("stock adjusted")
	s.publish("stock.adjusted", result)
	return result, nil
}

// BulkAddStock applies AddStock to each item independently. Items are
// processed sequentially; a failed item becomes a success=false row and
// never affects the other items. The returned slice preserves input order.
func (s *StockService) BulkAddStock(items []models.BulkStockItem) []models.BulkStockResult {
	results := make([]models.BulkStockResult, 0, len(items))
	for _, item := range items {
		res, err := s.AddStock(item.ID, item.Quantity)
		results = append(results, toBulkResult(item.ID, res, err))
	}
	return results
}

// BulkSubtractStock applies SubtractStock to each item independently.
func (s *StockService) BulkSubtractStock(items []models.BulkStockItem) []models.BulkStockResult {
	results := make([]models.BulkStockResult, 0, len(items))
	for _, item := range items {
		res, err := s.SubtractStock(item.ID, item.Quantity)
		results = append(results, toBulkResult(item.ID, res, err))
	}
	return results
}

// BulkAdjustStock applies AdjustStock to each item independently.
func (s *StockService) BulkAdjustStock(items []models.BulkAdjustItem) []models.BulkStockResult {
	results := make([]models.BulkStockResult, 0, len(items))
	for _, item := range items {
		res, err := s.AdjustStock(item.ID, item.NewStock)
		results = append(results, toBulkResult(item.ID, res, err))
	}
	return results
}

// toBulkResult folds a single-item outcome into a tagged bulk row.
func toBulkResult(id string, res *models.StockResult, err error) models.BulkStockResult {
	if err != nil {
		return models.BulkStockResult{
			ProductID: id,
			Success:   false,
			Error:     err.Error(),
		}
	}
	return models.BulkStockResult{
		StockResult: res,
		ProductID:   id,
		Success:     true,
	}
}

// GetAvailableProducts returns products with stock, newest first.
func (s *StockService) GetAvailableProducts() ([]models.Product, error) {
	return s.repo.GetAvailable()
}

// GetUnavailableProducts returns products without stock, newest first.
func (s *StockService) GetUnavailableProducts() ([]models.Product, error) {
	return s.repo.GetUnavailable()
}

// GetLowStockProducts returns products with 0 < stock <= threshold,
// ascending by stock. A non-positive threshold falls back to the default.
func (s *StockService) GetLowStockProducts(threshold int) ([]models.Product, error) {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return s.repo.GetLowStock(threshold)
}

// publish sends a stock event when a publisher is configured. Publish
// failures are logged and never propagated to the caller.
func (s *StockService) publish(operation string, res *models.StockResult) {
	if s.publisher == nil {
		return
	}
	event := rabbitmq.StockEvent{
		Operation:     operation,
		ProductID:     res.ProductID,
		PreviousStock: res.PreviousStock,
		NewStock:      res.NewStock,
		Availability:  res.Availability,
		OccurredAt:    time.Now(),
	}
	if err := s.publisher.PublishStockEvent(event); err != nil {
		log.Warn().
			Err(err).
			Str("product_id", res.ProductID).
			Str("operation", operation).
			Msg("failed to publish stock event")
	}
}
