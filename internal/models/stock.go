package models

// StockResult reports the before/after state of a single stock mutation.
// Exactly one of QuantityAdded, QuantitySubtracted or Difference is set,
// depending on the operation.
type StockResult struct {
	ProductID          string `json:"productId"`
	PreviousStock      int    `json:"previousStock"`
	NewStock           int    `json:"newStock"`
	QuantityAdded      int    `json:"quantityAdded,omitempty"`
	QuantitySubtracted int    `json:"quantitySubtracted,omitempty"`
	Difference         int    `json:"difference,omitempty"`
	Availability       int    `json:"availability"`
}

// BulkStockItem is one entry of a bulk add/subtract request body.
type BulkStockItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// BulkAdjustItem is one entry of a bulk adjust request body.
type BulkAdjustItem struct {
	ID       string `json:"id"`
	NewStock int    `json:"newStock"`
}

// BulkStockResult is one row of a bulk response. On success the single-item
// result fields are inlined and Success is true; on failure only ProductID,
// Error and Success=false are present. A failed row never aborts the batch.
type BulkStockResult struct {
	*StockResult
	ProductID string `json:"productId"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}
