package services_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/monocoto3000/products-api/internal/models"
	"github.com/monocoto3000/products-api/internal/repositories"
	"github.com/monocoto3000/products-api/internal/services"
	"github.com/monocoto3000/products-api/pkg/rabbitmq"
)

// Known gap: the stock operations are read-then-write sequences without
// locking or conditional updates, so two concurrent mutations of the same
// product can interleave. That behavior is intentional and untested here;
// these tests cover the single-request semantics only.

// capturingPublisher records published stock events.
type capturingPublisher struct {
	events []rabbitmq.StockEvent
	err    error
}

func (p *capturingPublisher) PublishStockEvent(event rabbitmq.StockEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

// newStockFixture seeds an in-memory repository with one product at the
// given stock level.
func newStockFixture(t *testing.T, stock int) (*services.StockService, *repositories.MockProductRepository, string) {
	t.Helper()
	repo := repositories.NewMockProductRepository()
	product := &models.Product{Name: "Widget", Price: 9.99, Stock: stock}
	assert.NoError(t, repo.Create(product))
	return services.NewStockService(repo, nil), repo, product.ID
}

func repoStock(t *testing.T, repo repositories.ProductRepository, id string) (int, int) {
	t.Helper()
	product, err := repo.GetByID(id)
	assert.NoError(t, err)
	assert.NotNil(t, product)
	return product.Stock, product.Availability
}

func TestStockService_AddStock(t *testing.T) {
	service, repo, id := newStockFixture(t, 7)

	result, err := service.AddStock(id, 3)
	assert.NoError(t, err)
	assert.Equal(t, id, result.ProductID)
	assert.Equal(t, 7, result.PreviousStock)
	assert.Equal(t, 10, result.NewStock)
	assert.Equal(t, 3, result.QuantityAdded)
	assert.Equal(t, 1, result.Availability)

	stock, availability := repoStock(t, repo, id)
	assert.Equal(t, 10, stock)
	assert.Equal(t, 1, availability)
}

func TestStockService_AddStock_NonPositiveQuantity(t *testing.T) {
	service, repo, id := newStockFixture(t, 7)

	for _, quantity := range []int{0, -1} {
		result, err := service.AddStock(id, quantity)
		assert.Error(t, err)
		assert.True(t, models.IsValidation(err), "quantity %d should be a validation error", quantity)
		assert.Nil(t, result)
	}

	// Store state unchanged after rejected mutations.
	stock, _ := repoStock(t, repo, id)
	assert.Equal(t, 7, stock)
}

func TestStockService_AddStock_NotFound(t *testing.T) {
	service, _, _ := newStockFixture(t, 7)

	result, err := service.AddStock("missing-id", 3)
	assert.Error(t, err)
	assert.True(t, models.IsNotFound(err))
	assert.Nil(t, result)
}

func TestStockService_SubtractStock(t *testing.T) {
	service, repo, id := newStockFixture(t, 10)

	result, err := service.SubtractStock(id, 4)
	assert.NoError(t, err)
	assert.Equal(t, 10, result.PreviousStock)
	assert.Equal(t, 6, result.NewStock)
	assert.Equal(t, 4, result.QuantitySubtracted)
	assert.Equal(t, 1, result.Availability)

	stock, _ := repoStock(t, repo, id)
	assert.Equal(t, 6, stock)
}

func TestStockService_SubtractStock_ToZero(t *testing.T) {
	service, repo, id := newStockFixture(t, 4)

	result, err := service.SubtractStock(id, 4)
	assert.NoError(t, err)
	assert.Equal(t, 0, result.NewStock)
	assert.Equal(t, 0, result.Availability)

	stock, availability := repoStock(t, repo, id)
	assert.Equal(t, 0, stock)
	assert.Equal(t, 0, availability)
}

func TestStockService_SubtractStock_Insufficient(t *testing.T) {
	service, repo, id := newStockFixture(t, 3)

	// Subtraction below zero is rejected, never clamped.
	result, err := service.SubtractStock(id, 4)
	assert.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.Contains(t, err.Error(), "insufficient stock")
	assert.Nil(t, result)

	stock, _ := repoStock(t, repo, id)
	assert.Equal(t, 3, stock)
}

func TestStockService_SubtractStock_NonPositiveQuantity(t *testing.T) {
	service, _, id := newStockFixture(t, 3)

	for _, quantity := range []int{0, -2} {
		_, err := service.SubtractStock(id, quantity)
		assert.True(t, models.IsValidation(err))
	}
}

func TestStockService_SubtractStock_NotFound(t *testing.T) {
	service, _, _ := newStockFixture(t, 3)

	_, err := service.SubtractStock("missing-id", 1)
	assert.True(t, models.IsNotFound(err))
}

func TestStockService_AdjustStock(t *testing.T) {
	service, repo, id := newStockFixture(t, 8)

	result, err := service.AdjustStock(id, 3)
	assert.NoError(t, err)
	assert.Equal(t, 8, result.PreviousStock)
	assert.Equal(t, 3, result.NewStock)
	assert.Equal(t, -5, result.Difference)
	assert.Equal(t, 1, result.Availability)

	stock, _ := repoStock(t, repo, id)
	assert.Equal(t, 3, stock)
}

func TestStockService_AdjustStock_Upward(t *testing.T) {
	service, _, id := newStockFixture(t, 2)

	result, err := service.AdjustStock(id, 12)
	assert.NoError(t, err)
	assert.Equal(t, 10, result.Difference)
	assert.Equal(t, 1, result.Availability)
}

func TestStockService_AdjustStock_ToZero(t *testing.T) {
	service, repo, id := newStockFixture(t, 5)

	result, err := service.AdjustStock(id, 0)
	assert.NoError(t, err)
	assert.Equal(t, 0, result.NewStock)
	assert.Equal(t, 0, result.Availability)

	_, availability := repoStock(t, repo, id)
	assert.Equal(t, 0, availability)
}

func TestStockService_AdjustStock_NoOp(t *testing.T) {
	service, repo, id := newStockFixture(t, 5)

	// Setting the current value again is an error, not a silent success.
	result, err := service.AdjustStock(id, 5)
	assert.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.Contains(t, err.Error(), "already equals 5")
	assert.Nil(t, result)

	stock, _ := repoStock(t, repo, id)
	assert.Equal(t, 5, stock)
}

func TestStockService_AdjustStock_Negative(t *testing.T) {
	service, _, id := newStockFixture(t, 5)

	_, err := service.AdjustStock(id, -1)
	assert.True(t, models.IsValidation(err))
}

func TestStockService_AdjustStock_NotFound(t *testing.T) {
	service, _, _ := newStockFixture(t, 5)

	_, err := service.AdjustStock("missing-id", 3)
	assert.True(t, models.IsNotFound(err))
}

func TestStockService_AvailabilityLifecycle(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewStockService(repo, nil)

	product := &models.Product{Name: "Widget", Price: 1.50, Stock: 0}
	assert.NoError(t, repo.Create(product))
	assert.Equal(t, 0, product.Availability)

	result, err := service.AddStock(product.ID, 3)
	assert.NoError(t, err)
	assert.Equal(t, 3, result.NewStock)
	assert.Equal(t, 1, result.Availability)

	result, err = service.SubtractStock(product.ID, 3)
	assert.NoError(t, err)
	assert.Equal(t, 0, result.NewStock)
	assert.Equal(t, 0, result.Availability)
}

func TestStockService_SoftDeletedProduct(t *testing.T) {
	service, repo, id := newStockFixture(t, 9)

	removed, err := repo.Delete(id)
	assert.NoError(t, err)
	assert.True(t, removed)

	_, err = service.AddStock(id, 1)
	assert.True(t, models.IsNotFound(err))
	_, err = service.SubtractStock(id, 1)
	assert.True(t, models.IsNotFound(err))
	_, err = service.AdjustStock(id, 1)
	assert.True(t, models.IsNotFound(err))
}

func TestStockService_BulkAddStock(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewStockService(repo, nil)

	first := &models.Product{Name: "First", Stock: 1}
	third := &models.Product{Name: "Third", Stock: 2}
	assert.NoError(t, repo.Create(first))
	assert.NoError(t, repo.Create(third))

	// Item 2 references an unknown id; items 1 and 3 must still succeed.
	results := service.BulkAddStock([]models.BulkStockItem{
		{ID: first.ID, Quantity: 2},
		{ID: "missing-id", Quantity: 2},
		{ID: third.ID, Quantity: 5},
	})

	assert.Len(t, results, 3)

	assert.True(t, results[0].Success)
	assert.Equal(t, first.ID, results[0].ProductID)
	assert.Equal(t, 3, results[0].NewStock)

	assert.False(t, results[1].Success)
	assert.Equal(t, "missing-id", results[1].ProductID)
	assert.Contains(t, results[1].Error, "not found")
	assert.Nil(t, results[1].StockResult)

	assert.True(t, results[2].Success)
	assert.Equal(t, 7, results[2].NewStock)
}

func TestStockService_BulkSubtractStock_IsolatesFailures(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewStockService(repo, nil)

	rich := &models.Product{Name: "Rich", Stock: 10}
	poor := &models.Product{Name: "Poor", Stock: 1}
	assert.NoError(t, repo.Create(rich))
	assert.NoError(t, repo.Create(poor))

	results := service.BulkSubtractStock([]models.BulkStockItem{
		{ID: rich.ID, Quantity: 4},
		{ID: poor.ID, Quantity: 5},  // insufficient stock
		{ID: rich.ID, Quantity: 0},  // invalid quantity
		{ID: rich.ID, Quantity: 6},  // drains to zero
	})

	assert.Len(t, results, 4)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Error, "insufficient stock")
	assert.False(t, results[2].Success)
	assert.True(t, results[3].Success)
	assert.Equal(t, 0, results[3].NewStock)
	assert.Equal(t, 0, results[3].Availability)

	// The failed rows never touched the store.
	poorAfter, err := repo.GetByID(poor.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, poorAfter.Stock)
}

func TestStockService_BulkAdjustStock(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewStockService(repo, nil)

	product := &models.Product{Name: "Widget", Stock: 5}
	assert.NoError(t, repo.Create(product))

	results := service.BulkAdjustStock([]models.BulkAdjustItem{
		{ID: product.ID, NewStock: 5},  // no-op adjustment fails
		{ID: product.ID, NewStock: 9},
		{ID: product.ID, NewStock: -1}, // negative target fails
	})

	assert.Len(t, results, 3)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "already equals 5")
	assert.True(t, results[1].Success)
	assert.Equal(t, 4, results[1].Difference)
	assert.False(t, results[2].Success)

	stock, _ := repoStock(t, repo, product.ID)
	assert.Equal(t, 9, stock)
}

func TestStockService_BulkPreservesInputOrder(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewStockService(repo, nil)

	var items []models.BulkStockItem
	var ids []string
	for i := 0; i < 5; i++ {
		product := &models.Product{Name: fmt.Sprintf("Product %d", i), Stock: i}
		assert.NoError(t, repo.Create(product))
		ids = append(ids, product.ID)
		items = append(items, models.BulkStockItem{ID: product.ID, Quantity: 1})
	}

	results := service.BulkAddStock(items)
	assert.Len(t, results, 5)
	for i, result := range results {
		assert.Equal(t, ids[i], result.ProductID)
	}
}

func TestStockService_GetLowStockProducts(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewStockService(repo, nil)

	for _, stock := range []int{0, 1, 5, 6, 10} {
		product := &models.Product{Name: fmt.Sprintf("Stock %d", stock), Stock: stock}
		assert.NoError(t, repo.Create(product))
	}

	products, err := service.GetLowStockProducts(5)
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, 1, products[0].Stock)
	assert.Equal(t, 5, products[1].Stock)
}

func TestStockService_GetLowStockProducts_DefaultThreshold(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewStockService(repo, nil)

	for _, stock := range []int{3, 5, 6} {
		product := &models.Product{Name: fmt.Sprintf("Stock %d", stock), Stock: stock}
		assert.NoError(t, repo.Create(product))
	}

	// Threshold <= 0 falls back to the default of 5.
	products, err := service.GetLowStockProducts(0)
	assert.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestStockService_AvailabilityFilters(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewStockService(repo, nil)

	inStock := &models.Product{Name: "In stock", Stock: 3}
	outOfStock := &models.Product{Name: "Out of stock", Stock: 0}
	assert.NoError(t, repo.Create(inStock))
	assert.NoError(t, repo.Create(outOfStock))

	available, err := service.GetAvailableProducts()
	assert.NoError(t, err)
	assert.Len(t, available, 1)
	assert.Equal(t, inStock.ID, available[0].ID)

	unavailable, err := service.GetUnavailableProducts()
	assert.NoError(t, err)
	assert.Len(t, unavailable, 1)
	assert.Equal(t, outOfStock.ID, unavailable[0].ID)
}

func TestStockService_PublishesStockEvents(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	publisher := &capturingPublisher{}
	service := services.NewStockService(repo, publisher)

	product := &models.Product{Name: "Widget", Stock: 2}
	assert.NoError(t, repo.Create(product))

	_, err := service.AddStock(product.ID, 3)
	assert.NoError(t, err)
	_, err = service.SubtractStock(product.ID, 5)
	assert.NoError(t, err)

	assert.Len(t, publisher.events, 2)
	assert.Equal(t, "stock.added", publisher.events[0].Operation)
	assert.Equal(t, 5, publisher.events[0].NewStock)
	assert.Equal(t, "stock.subtracted", publisher.events[1].Operation)
	assert.Equal(t, 0, publisher.events[1].Availability)
}

func TestStockService_PublishFailureDoesNotFailMutation(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	publisher := &capturingPublisher{err: fmt.Errorf("broker down")}
	service := services.NewStockService(repo, publisher)

	product := &models.Product{Name: "Widget", Stock: 2}
	assert.NoError(t, repo.Create(product))

	result, err := service.AddStock(product.ID, 1)
	assert.NoError(t, err)
	assert.Equal(t, 3, result.NewStock)
}

func TestStockService_NoEventOnRejectedMutation(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	publisher := &capturingPublisher{}
	service := services.NewStockService(repo, publisher)

	product := &models.Product{Name: "Widget", Stock: 2}
	assert.NoError(t, repo.Create(product))

	_, err := service.SubtractStock(product.ID, 10)
	assert.True(t, models.IsValidation(err))
	assert.Empty(t, publisher.events)
}
