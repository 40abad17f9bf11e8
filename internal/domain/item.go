package domain

import "math"

// MaxQuantity bounds every stored quantity so it fits a 32-bit column.
const MaxQuantity = math.MaxInt32

type Item struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	SKU           string `json:"sku"`
	Quantity      int    `json:"quantity"`
	WarehouseID   uint   `json:"warehouse"`
	WarehouseName string `json:"warehouse_name"`
}

// ItemDetail is an item joined with its warehouse, as shown on the stock listing.
type ItemDetail struct {
	Item
	WarehouseLocation string `json:"warehouse_location"`
}

// ItemPatch carries the fields of a partial item update; nil means unchanged.
type ItemPatch struct {
	Name        *string
	SKU         *string
	Quantity    *int
	WarehouseID *uint
}
