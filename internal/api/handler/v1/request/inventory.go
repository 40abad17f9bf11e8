package request

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/viastore/viastore/internal/domain"
)

const (
	nameMaxLength     = 100
	locationMaxLength = 200
	skuMaxLength      = 50
	orderNumMaxLength = 50
)

type WarehouseRequest struct {
	Name     string `json:"name" form:"name"`
	Location string `json:"location" form:"location"`
}

func (req *WarehouseRequest) Validate() error {
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, nameMaxLength)),
		validation.Field(&req.Location, validation.Length(0, locationMaxLength)),
	)
}

func (req *WarehouseRequest) ToDomain(id uint) domain.Warehouse {
	return domain.Warehouse{ID: id, Name: req.Name, Location: req.Location}
}

type ItemRequest struct {
	Name      string `json:"name" form:"name"`
	SKU       string `json:"sku" form:"sku"`
	Quantity  int    `json:"quantity" form:"quantity"`
	Warehouse uint   `json:"warehouse" form:"warehouse"`
}

func (req *ItemRequest) Validate() error {
	req.Name = strings.TrimSpace(req.Name)
	req.SKU = strings.TrimSpace(req.SKU)

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, nameMaxLength)),
		validation.Field(&req.SKU, validation.Required, validation.Length(1, skuMaxLength)),
		validation.Field(&req.Quantity, validation.Min(0), validation.Max(domain.MaxQuantity)),
		validation.Field(&req.Warehouse, validation.Required),
	)
}

func (req *ItemRequest) ToDomain(id uint) domain.Item {
	return domain.Item{
		ID:          id,
		Name:        req.Name,
		SKU:         req.SKU,
		Quantity:    req.Quantity,
		WarehouseID: req.Warehouse,
	}
}

// ItemPatchRequest carries only the fields the client wants to change.
type ItemPatchRequest struct {
	Name      *string `json:"name"`
	SKU       *string `json:"sku"`
	Quantity  *int    `json:"quantity"`
	Warehouse *uint   `json:"warehouse"`
}

func (req *ItemPatchRequest) Validate() error {
	if req.Name != nil {
		*req.Name = strings.TrimSpace(*req.Name)
	}
	if req.SKU != nil {
		*req.SKU = strings.TrimSpace(*req.SKU)
	}

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, nameMaxLength)),
		validation.Field(&req.SKU, validation.NilOrNotEmpty, validation.Length(1, skuMaxLength)),
		validation.Field(&req.Quantity, validation.Min(0), validation.Max(domain.MaxQuantity)),
		validation.Field(&req.Warehouse, validation.NilOrNotEmpty),
	)
}

func (req *ItemPatchRequest) ToDomain() domain.ItemPatch {
	return domain.ItemPatch{
		Name:        req.Name,
		SKU:         req.SKU,
		Quantity:    req.Quantity,
		WarehouseID: req.Warehouse,
	}
}

type OrderRequest struct {
	OrderNumber string `json:"order_number" form:"order_number"`
	Item        uint   `json:"item" form:"item"`
	Quantity    int    `json:"quantity" form:"quantity"`
}

func (req *OrderRequest) Validate() error {
	req.OrderNumber = strings.TrimSpace(req.OrderNumber)

	return validation.ValidateStruct(
		req,
		validation.Field(&req.OrderNumber, validation.Required, validation.Length(1, orderNumMaxLength)),
		validation.Field(&req.Item, validation.Required),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1), validation.Max(domain.MaxQuantity)),
	)
}

func (req *OrderRequest) ToDomain(id uint) domain.Order {
	return domain.Order{
		ID:          id,
		OrderNumber: req.OrderNumber,
		ItemID:      req.Item,
		Quantity:    req.Quantity,
	}
}

type GoodsReceiptRequest struct {
	Item     uint `json:"item" form:"item"`
	Quantity int  `json:"quantity" form:"quantity"`
}

func (req *GoodsReceiptRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Item, validation.Required),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1), validation.Max(domain.MaxQuantity)),
	)
}

type TouchReceiptRequest struct {
	SKU      string `json:"sku" form:"sku"`
	Quantity int    `json:"quantity" form:"quantity"`
}

func (req *TouchReceiptRequest) Validate() error {
	req.SKU = strings.TrimSpace(req.SKU)

	return validation.ValidateStruct(
		req,
		validation.Field(&req.SKU, validation.Required, validation.Length(1, skuMaxLength)),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1), validation.Max(domain.MaxQuantity)),
	)
}

// StockCorrectionRequest uses a pointer so an explicit zero is accepted.
type StockCorrectionRequest struct {
	Item     uint `json:"item" form:"item"`
	Quantity *int `json:"quantity" form:"quantity"`
}

func (req *StockCorrectionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Item, validation.Required),
		validation.Field(&req.Quantity, validation.NotNil, validation.Min(0), validation.Max(domain.MaxQuantity)),
	)
}
