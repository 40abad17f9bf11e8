package domain

import "time"

type MovementKind string

const (
	MovementCreate     MovementKind = "create"
	MovementReceipt    MovementKind = "receipt"
	MovementCorrection MovementKind = "correction"
	MovementImport     MovementKind = "import"
)

type StockMovement struct {
	ID          uint         `json:"id"`
	ItemID      uint         `json:"item_id"`
	Kind        MovementKind `json:"kind"`
	Delta       int          `json:"delta"`
	OldQuantity int          `json:"old_quantity"`
	NewQuantity int          `json:"new_quantity"`
	Reference   string       `json:"reference"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Correction is the outcome of overwriting an item's quantity.
type Correction struct {
	Item        Item `json:"item"`
	OldQuantity int  `json:"old_quantity"`
	NewQuantity int  `json:"new_quantity"`
}

// StockEvent is published after a committed stock mutation.
type StockEvent struct {
	Type        string       `json:"type"`
	ItemID      uint         `json:"item_id"`
	SKU         string       `json:"sku"`
	Name        string       `json:"name"`
	Kind        MovementKind `json:"kind"`
	OldQuantity int          `json:"old_quantity"`
	NewQuantity int          `json:"new_quantity"`
}

type Dashboard struct {
	WarehouseCount int64 `json:"warehouse_count"`
	ItemCount      int64 `json:"item_count"`
	OrderCount     int64 `json:"order_count"`
}

// ImportRow is one data row of a bulk import sheet.
type ImportRow struct {
	Line          int
	Name          string
	SKU           string
	Quantity      int
	WarehouseName string
}
