package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/viastore/viastore/internal/domain"
	"github.com/viastore/viastore/internal/repository"
)

type CatalogRepository interface {
	Counts(ctx context.Context) (domain.Dashboard, error)

	CreateWarehouse(ctx context.Context, w domain.Warehouse) (domain.Warehouse, error)
	UpdateWarehouse(ctx context.Context, w domain.Warehouse) (domain.Warehouse, error)
	GetWarehouse(ctx context.Context, id uint) (domain.Warehouse, error)
	ListWarehouses(ctx context.Context) ([]domain.Warehouse, error)
	DeleteWarehouse(ctx context.Context, id uint) error

	CreateItem(ctx context.Context, item domain.Item, reference string) (domain.Item, error)
	UpdateItem(ctx context.Context, item domain.Item, reference string) (domain.Item, error)
	GetItem(ctx context.Context, id uint) (domain.ItemDetail, error)
	ListItems(ctx context.Context) ([]domain.ItemDetail, error)
	DeleteItem(ctx context.Context, id uint) error

	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	UpdateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	GetOrder(ctx context.Context, id uint) (domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	DeleteOrder(ctx context.Context, id uint) error
}

type CatalogService struct {
	repo CatalogRepository
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

func (s *CatalogService) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	d, err := s.repo.Counts(ctx)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("s.repo.Counts -> %w", err)
	}

	return d, nil
}

func (s *CatalogService) ListWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	ws, err := s.repo.ListWarehouses(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListWarehouses -> %w", err)
	}

	return ws, nil
}

func (s *CatalogService) GetWarehouse(ctx context.Context, id uint) (domain.Warehouse, error) {
	w, err := s.repo.GetWarehouse(ctx, id)
	if err != nil {
		return domain.Warehouse{}, fmt.Errorf("s.repo.GetWarehouse -> %w", err)
	}

	return w, nil
}

func (s *CatalogService) CreateWarehouse(ctx context.Context, w domain.Warehouse) (domain.Warehouse, error) {
	if err := checkWarehouse(w); err != nil {
		return domain.Warehouse{}, err
	}

	created, err := s.repo.CreateWarehouse(ctx, w)
	if err != nil {
		return domain.Warehouse{}, fmt.Errorf("s.repo.CreateWarehouse -> %w", err)
	}

	return created, nil
}

func (s *CatalogService) UpdateWarehouse(ctx context.Context, w domain.Warehouse) (domain.Warehouse, error) {
	if err := checkWarehouse(w); err != nil {
		return domain.Warehouse{}, err
	}

	updated, err := s.repo.UpdateWarehouse(ctx, w)
	if err != nil {
		return domain.Warehouse{}, fmt.Errorf("s.repo.UpdateWarehouse -> %w", err)
	}

	return updated, nil
}

// DeleteWarehouse also removes the warehouse's items and everything that
// references them.
func (s *CatalogService) DeleteWarehouse(ctx context.Context, id uint) error {
	if err := s.repo.DeleteWarehouse(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteWarehouse -> %w", err)
	}

	return nil
}

func (s *CatalogService) ListItems(ctx context.Context) ([]domain.ItemDetail, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListItems -> %w", err)
	}

	return items, nil
}

// StockListing is every item with its warehouse name and location.
func (s *CatalogService) StockListing(ctx context.Context) ([]domain.ItemDetail, error) {
	return s.ListItems(ctx)
}

func (s *CatalogService) GetItem(ctx context.Context, id uint) (domain.ItemDetail, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return domain.ItemDetail{}, fmt.Errorf("s.repo.GetItem -> %w", err)
	}

	return item, nil
}

func (s *CatalogService) CreateItem(ctx context.Context, item domain.Item, reference string) (domain.Item, error) {
	if err := checkItem(item); err != nil {
		return domain.Item{}, err
	}

	created, err := s.repo.CreateItem(ctx, item, reference)
	if err != nil {
		return domain.Item{}, itemWriteError("s.repo.CreateItem", err)
	}

	return created, nil
}

// UpdateItem replaces every editable field of the item.
func (s *CatalogService) UpdateItem(ctx context.Context, item domain.Item, reference string) (domain.Item, error) {
	if err := checkItem(item); err != nil {
		return domain.Item{}, err
	}

	updated, err := s.repo.UpdateItem(ctx, item, reference)
	if err != nil {
		return domain.Item{}, itemWriteError("s.repo.UpdateItem", err)
	}

	return updated, nil
}

// PatchItem applies only the fields present in patch.
func (s *CatalogService) PatchItem(ctx context.Context, id uint, patch domain.ItemPatch, reference string) (domain.Item, error) {
	current, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return domain.Item{}, fmt.Errorf("s.repo.GetItem -> %w", err)
	}

	item := current.Item
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.SKU != nil {
		item.SKU = *patch.SKU
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.WarehouseID != nil {
		item.WarehouseID = *patch.WarehouseID
	}

	return s.UpdateItem(ctx, item, reference)
}

// DeleteItem also removes the item's orders and stock movements.
func (s *CatalogService) DeleteItem(ctx context.Context, id uint) error {
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteItem -> %w", err)
	}

	return nil
}

func (s *CatalogService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListOrders -> %w", err)
	}

	return orders, nil
}

func (s *CatalogService) GetOrder(ctx context.Context, id uint) (domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.repo.GetOrder -> %w", err)
	}

	return order, nil
}

func (s *CatalogService) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	if err := checkOrder(order); err != nil {
		return domain.Order{}, err
	}

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		return domain.Order{}, orderWriteError("s.repo.CreateOrder", err)
	}

	return created, nil
}

// UpdateOrder replaces number, item and quantity. The order date is kept.
func (s *CatalogService) UpdateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	if err := checkOrder(order); err != nil {
		return domain.Order{}, err
	}

	updated, err := s.repo.UpdateOrder(ctx, order)
	if err != nil {
		return domain.Order{}, orderWriteError("s.repo.UpdateOrder", err)
	}

	return updated, nil
}

func (s *CatalogService) DeleteOrder(ctx context.Context, id uint) error {
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteOrder -> %w", err)
	}

	return nil
}

func checkWarehouse(w domain.Warehouse) error {
	switch {
	case strings.TrimSpace(w.Name) == "":
		return fieldError("name", ErrRequired)
	case utf8.RuneCountInString(w.Name) > maxWarehouseNameLen:
		return fieldError("name", ErrTooLong)
	case utf8.RuneCountInString(w.Location) > maxLocationLength:
		return fieldError("location", ErrTooLong)
	}

	return nil
}

func checkItem(item domain.Item) error {
	switch {
	case strings.TrimSpace(item.Name) == "":
		return fieldError("name", ErrRequired)
	case strings.TrimSpace(item.SKU) == "":
		return fieldError("sku", ErrRequired)
	case utf8.RuneCountInString(item.Name) > maxItemNameLength:
		return fieldError("name", ErrTooLong)
	case utf8.RuneCountInString(item.SKU) > maxSKULength:
		return fieldError("sku", ErrTooLong)
	case item.Quantity < 0:
		return fieldError("quantity", ErrQuantityNegative)
	case item.Quantity > domain.MaxQuantity:
		return fieldError("quantity", ErrQuantityTooLarge)
	}

	return nil
}

func checkOrder(order domain.Order) error {
	switch {
	case strings.TrimSpace(order.OrderNumber) == "":
		return fieldError("order_number", ErrRequired)
	case utf8.RuneCountInString(order.OrderNumber) > maxOrderNumberLength:
		return fieldError("order_number", ErrTooLong)
	case order.Quantity <= 0:
		return fieldError("quantity", ErrQuantityNotPositive)
	case order.Quantity > domain.MaxQuantity:
		return fieldError("quantity", ErrQuantityTooLarge)
	}

	return nil
}

func itemWriteError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrSKUExists):
		return fieldError("sku", ErrDuplicateSKU)
	case errors.Is(err, repository.ErrWarehouseNotFound):
		return fieldError("warehouse", ErrUnknownWarehouse)
	}

	return fmt.Errorf("%s -> %w", op, err)
}

func orderWriteError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrOrderNumberExists):
		return fieldError("order_number", ErrDuplicateOrderNumber)
	case errors.Is(err, repository.ErrItemNotFound):
		return fieldError("item", ErrUnknownItem)
	}

	return fmt.Errorf("%s -> %w", op, err)
}
