package handlers

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/monocoto3000/products-api/internal/models"
	"github.com/monocoto3000/products-api/internal/services"
)

// ProductHandler handles HTTP requests for products, including the stock
// mutation endpoints.
type ProductHandler struct {
	products *services.ProductService
	stock    *services.StockService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(products *services.ProductService, stock *services.StockService) *ProductHandler {
	return &ProductHandler{
		products: products,
		stock:    stock,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app. Filter,
// stock and bulk routes are registered before /:id so they are not shadowed.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/filter/available", h.HandleGetAvailableProducts)
	productRoutes.Get("/filter/unavailable", h.HandleGetUnavailableProducts)
	productRoutes.Get("/filter/low-stock", h.HandleGetLowStockProducts)
	productRoutes.Post("/stock/add-bulk", h.HandleBulkAddStock)
	productRoutes.Post("/stock/subtract-bulk", h.HandleBulkSubtractStock)
	productRoutes.Post("/stock/adjust-bulk", h.HandleBulkAdjustStock)
	productRoutes.Post("/stock/:id/add/:quantity", h.HandleAddStock)
	productRoutes.Post("/stock/:id/subtract/:quantity", h.HandleSubtractStock)
	productRoutes.Post("/stock/:id/adjust/:stock", h.HandleAdjustStock)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.products.GetAllProducts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.products.GetProductByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(product); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	if err := h.products.CreateProduct(&product); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct applies a partial update to an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req models.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	product, err := h.products.UpdateProduct(c.Params("id"), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.products.DeleteProduct(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleAddStock increases a product's stock by the quantity path parameter.
func (h *ProductHandler) HandleAddStock(c *fiber.Ctx) error {
	quantity, err := strconv.Atoi(c.Params("quantity"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "quantity must be a valid number",
		})
	}
	result, err := h.stock.AddStock(c.Params("id"), quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// HandleSubtractStock decreases a product's stock by the quantity path
// parameter.
func (h *ProductHandler) HandleSubtractStock(c *fiber.Ctx) error {
	quantity, err := strconv.Atoi(c.Params("quantity"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "quantity must be a valid number",
		})
	}
	result, err := h.stock.SubtractStock(c.Params("id"), quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// HandleAdjustStock sets a product's stock to the stock path parameter.
func (h *ProductHandler) HandleAdjustStock(c *fiber.Ctx) error {
	newStock, err := strconv.Atoi(c.Params("stock"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "stock must be a valid number",
		})
	}
	result, err := h.stock.AdjustStock(c.Params("id"), newStock)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// HandleBulkAddStock applies AddStock to each item of the request body.
// The response always has status 200 with one result row per input item.
func (h *ProductHandler) HandleBulkAddStock(c *fiber.Ctx) error {
	var items []models.BulkStockItem
	if err := c.BodyParser(&items); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body: expected an array of {id, quantity}",
			"error":   err.Error(),
		})
	}
	return c.JSON(h.stock.BulkAddStock(items))
}

// HandleBulkSubtractStock applies SubtractStock to each item of the request
// body.
func (h *ProductHandler) HandleBulkSubtractStock(c *fiber.Ctx) error {
	var items []models.BulkStockItem
	if err := c.BodyParser(&items); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body: expected an array of {id, quantity}",
			"error":   err.Error(),
		})
	}
	return c.JSON(h.stock.BulkSubtractStock(items))
}

// HandleBulkAdjustStock applies AdjustStock to each item of the request body.
func (h *ProductHandler) HandleBulkAdjustStock(c *fiber.Ctx) error {
	var items []models.BulkAdjustItem
	if err := c.BodyParser(&items); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body: expected an array of {id, newStock}",
			"error":   err.Error(),
		})
	}
	return c.JSON(h.stock.BulkAdjustStock(items))
}

// HandleGetAvailableProducts retrieves products with stock.
func (h *ProductHandler) HandleGetAvailableProducts(c *fiber.Ctx) error {
	products, err := h.stock.GetAvailableProducts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetUnavailableProducts retrieves products without stock.
func (h *ProductHandler) HandleGetUnavailableProducts(c *fiber.Ctx) error {
	products, err := h.stock.GetUnavailableProducts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetLowStockProducts retrieves products at or below the threshold
// query parameter (default 5).
func (h *ProductHandler) HandleGetLowStockProducts(c *fiber.Ctx) error {
	threshold := c.QueryInt("threshold", services.DefaultLowStockThreshold)
	products, err := h.stock.GetLowStockProducts(threshold)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}
