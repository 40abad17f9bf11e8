package repository

import (
	"context"
	"fmt"

	"github.com/viastore/viastore/internal/domain"
	"github.com/viastore/viastore/internal/repository/dao"
)

var (
	ErrWarehouseNotFound = dao.ErrWarehouseNotFound
	ErrItemNotFound      = dao.ErrItemNotFound
	ErrSKUExists         = dao.ErrSKUExists
	ErrOrderNotFound     = dao.ErrOrderNotFound
	ErrOrderNumberExists = dao.ErrOrderNumberExists
	ErrQuantityOverflow  = dao.ErrQuantityOverflow
)

type RowError = dao.RowError

type InventoryDAO interface {
	Counts(ctx context.Context) (dao.Counts, error)

	InsertWarehouse(ctx context.Context, w dao.Warehouse) (dao.Warehouse, error)
	UpdateWarehouse(ctx context.Context, w dao.Warehouse) (dao.Warehouse, error)
	FindWarehouseByID(ctx context.Context, id uint) (dao.Warehouse, error)
	FirstWarehouse(ctx context.Context) (dao.Warehouse, error)
	ListWarehouses(ctx context.Context) ([]dao.Warehouse, error)
	DeleteWarehouse(ctx context.Context, id uint) error

	InsertItem(ctx context.Context, item dao.Item, reference string) (dao.Item, error)
	UpdateItem(ctx context.Context, item dao.Item, reference string) (dao.Item, error)
	FindItemByID(ctx context.Context, id uint) (dao.Item, error)
	FindItemBySKU(ctx context.Context, sku string) (dao.Item, error)
	ListItems(ctx context.Context) ([]dao.Item, error)
	DeleteItem(ctx context.Context, id uint) error

	InsertOrder(ctx context.Context, order dao.Order) (dao.Order, error)
	UpdateOrder(ctx context.Context, order dao.Order) (dao.Order, error)
	FindOrderByID(ctx context.Context, id uint) (dao.Order, error)
	ListOrders(ctx context.Context) ([]dao.Order, error)
	DeleteOrder(ctx context.Context, id uint) error

	AddQuantity(ctx context.Context, itemID uint, delta int, reference string) (dao.Item, dao.StockMovement, error)
	SetQuantity(ctx context.Context, itemID uint, quantity int, reference string) (dao.Item, dao.StockMovement, error)
	ListMovements(ctx context.Context, itemID uint, limit int) ([]dao.StockMovement, error)
	ImportRows(ctx context.Context, rows []dao.ImportRow, reference string) ([]dao.StockMovement, error)
}

type InventoryRepository struct {
	dao InventoryDAO
}

func NewInventoryRepository(dao InventoryDAO) *InventoryRepository {
	return &InventoryRepository{
		dao: dao,
	}
}

func (r *InventoryRepository) Counts(ctx context.Context) (domain.Dashboard, error) {
	c, err := r.dao.Counts(ctx)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("r.dao.Counts -> %w", err)
	}

	return domain.Dashboard{
		WarehouseCount: c.Warehouses,
		ItemCount:      c.Items,
		OrderCount:     c.Orders,
	}, nil
}

func (r *InventoryRepository) CreateWarehouse(ctx context.Context, w domain.Warehouse) (domain.Warehouse, error) {
	created, err := r.dao.InsertWarehouse(ctx, dao.Warehouse{Name: w.Name, Location: w.Location})
	if err != nil {
		return domain.Warehouse{}, fmt.Errorf("r.dao.InsertWarehouse -> %w", err)
	}

	return warehouseDaoToDomain(created), nil
}

func (r *InventoryRepository) UpdateWarehouse(ctx context.Context, w domain.Warehouse) (domain.Warehouse, error) {
	updated, err := r.dao.UpdateWarehouse(ctx, dao.Warehouse{ID: w.ID, Name: w.Name, Location: w.Location})
	if err != nil {
		return domain.Warehouse{}, fmt.Errorf("r.dao.UpdateWarehouse -> %w", err)
	}

	return warehouseDaoToDomain(updated), nil
}

func (r *InventoryRepository) GetWarehouse(ctx context.Context, id uint) (domain.Warehouse, error) {
	found, err := r.dao.FindWarehouseByID(ctx, id)
	if err != nil {
		return domain.Warehouse{}, fmt.Errorf("r.dao.FindWarehouseByID -> %w", err)
	}

	return warehouseDaoToDomain(found), nil
}

func (r *InventoryRepository) FirstWarehouse(ctx context.Context) (domain.Warehouse, error) {
	found, err := r.dao.FirstWarehouse(ctx)
	if err != nil {
		return domain.Warehouse{}, fmt.Errorf("r.dao.FirstWarehouse -> %w", err)
	}

	return warehouseDaoToDomain(found), nil
}

func (r *InventoryRepository) ListWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	found, err := r.dao.ListWarehouses(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListWarehouses -> %w", err)
	}

	ws := make([]domain.Warehouse, 0, len(found))
	for _, w := range found {
		ws = append(ws, warehouseDaoToDomain(w))
	}

	return ws, nil
}

func (r *InventoryRepository) DeleteWarehouse(ctx context.Context, id uint) error {
	if err := r.dao.DeleteWarehouse(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteWarehouse -> %w", err)
	}

	return nil
}

func (r *InventoryRepository) CreateItem(ctx context.Context, item domain.Item, reference string) (domain.Item, error) {
	created, err := r.dao.InsertItem(ctx, itemDomainToDao(item), reference)
	if err != nil {
		return domain.Item{}, fmt.Errorf("r.dao.InsertItem -> %w", err)
	}

	return itemDaoToDomain(created), nil
}

func (r *InventoryRepository) UpdateItem(ctx context.Context, item domain.Item, reference string) (domain.Item, error) {
	updated, err := r.dao.UpdateItem(ctx, itemDomainToDao(item), reference)
	if err != nil {
		return domain.Item{}, fmt.Errorf("r.dao.UpdateItem -> %w", err)
	}

	return itemDaoToDomain(updated), nil
}

func (r *InventoryRepository) GetItem(ctx context.Context, id uint) (domain.ItemDetail, error) {
	found, err := r.dao.FindItemByID(ctx, id)
	if err != nil {
		return domain.ItemDetail{}, fmt.Errorf("r.dao.FindItemByID -> %w", err)
	}

	return itemDaoToDetail(found), nil
}

func (r *InventoryRepository) GetItemBySKU(ctx context.Context, sku string) (domain.Item, error) {
	found, err := r.dao.FindItemBySKU(ctx, sku)
	if err != nil {
		return domain.Item{}, fmt.Errorf("r.dao.FindItemBySKU -> %w", err)
	}

	return itemDaoToDomain(found), nil
}

func (r *InventoryRepository) ListItems(ctx context.Context) ([]domain.ItemDetail, error) {
	found, err := r.dao.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListItems -> %w", err)
	}

	items := make([]domain.ItemDetail, 0, len(found))
	for _, i := range found {
		items = append(items, itemDaoToDetail(i))
	}

	return items, nil
}

func (r *InventoryRepository) DeleteItem(ctx context.Context, id uint) error {
	if err := r.dao.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteItem -> %w", err)
	}

	return nil
}

func (r *InventoryRepository) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	created, err := r.dao.InsertOrder(ctx, dao.Order{
		OrderNumber: order.OrderNumber,
		ItemID:      order.ItemID,
		Quantity:    order.Quantity,
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.InsertOrder -> %w", err)
	}

	return orderDaoToDomain(created), nil
}

func (r *InventoryRepository) UpdateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	updated, err := r.dao.UpdateOrder(ctx, dao.Order{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		ItemID:      order.ItemID,
		Quantity:    order.Quantity,
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.UpdateOrder -> %w", err)
	}

	return orderDaoToDomain(updated), nil
}

func (r *InventoryRepository) GetOrder(ctx context.Context, id uint) (domain.Order, error) {
	found, err := r.dao.FindOrderByID(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.FindOrderByID -> %w", err)
	}

	return orderDaoToDomain(found), nil
}

func (r *InventoryRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	found, err := r.dao.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListOrders -> %w", err)
	}

	orders := make([]domain.Order, 0, len(found))
	for _, o := range found {
		orders = append(orders, orderDaoToDomain(o))
	}

	return orders, nil
}

func (r *InventoryRepository) DeleteOrder(ctx context.Context, id uint) error {
	if err := r.dao.DeleteOrder(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteOrder -> %w", err)
	}

	return nil
}

func (r *InventoryRepository) AddQuantity(ctx context.Context, itemID uint, delta int, reference string) (domain.Item, domain.StockMovement, error) {
	item, m, err := r.dao.AddQuantity(ctx, itemID, delta, reference)
	if err != nil {
		return domain.Item{}, domain.StockMovement{}, fmt.Errorf("r.dao.AddQuantity -> %w", err)
	}

	return itemDaoToDomain(item), movementDaoToDomain(m), nil
}

func (r *InventoryRepository) SetQuantity(ctx context.Context, itemID uint, quantity int, reference string) (domain.Item, domain.StockMovement, error) {
	item, m, err := r.dao.SetQuantity(ctx, itemID, quantity, reference)
	if err != nil {
		return domain.Item{}, domain.StockMovement{}, fmt.Errorf("r.dao.SetQuantity -> %w", err)
	}

	return itemDaoToDomain(item), movementDaoToDomain(m), nil
}

func (r *InventoryRepository) ListMovements(ctx context.Context, itemID uint, limit int) ([]domain.StockMovement, error) {
	found, err := r.dao.ListMovements(ctx, itemID, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListMovements -> %w", err)
	}

	ms := make([]domain.StockMovement, 0, len(found))
	for _, m := range found {
		ms = append(ms, movementDaoToDomain(m))
	}

	return ms, nil
}

func (r *InventoryRepository) ImportRows(ctx context.Context, rows []domain.ImportRow, reference string) ([]domain.StockMovement, error) {
	daoRows := make([]dao.ImportRow, 0, len(rows))
	for _, row := range rows {
		daoRows = append(daoRows, dao.ImportRow{
			Line:          row.Line,
			Name:          row.Name,
			SKU:           row.SKU,
			Quantity:      row.Quantity,
			WarehouseName: row.WarehouseName,
		})
	}

	found, err := r.dao.ImportRows(ctx, daoRows, reference)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ImportRows -> %w", err)
	}

	ms := make([]domain.StockMovement, 0, len(found))
	for _, m := range found {
		ms = append(ms, movementDaoToDomain(m))
	}

	return ms, nil
}

func warehouseDaoToDomain(w dao.Warehouse) domain.Warehouse {
	return domain.Warehouse{
		ID:       w.ID,
		Name:     w.Name,
		Location: w.Location,
	}
}

func itemDomainToDao(i domain.Item) dao.Item {
	return dao.Item{
		ID:          i.ID,
		Name:        i.Name,
		SKU:         i.SKU,
		Quantity:    i.Quantity,
		WarehouseID: i.WarehouseID,
	}
}

func itemDaoToDomain(i dao.Item) domain.Item {
	return domain.Item{
		ID:            i.ID,
		Name:          i.Name,
		SKU:           i.SKU,
		Quantity:      i.Quantity,
		WarehouseID:   i.WarehouseID,
		WarehouseName: i.Warehouse.Name,
	}
}

func itemDaoToDetail(i dao.Item) domain.ItemDetail {
	return domain.ItemDetail{
		Item:              itemDaoToDomain(i),
		WarehouseLocation: i.Warehouse.Location,
	}
}

func orderDaoToDomain(o dao.Order) domain.Order {
	return domain.Order{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		ItemID:      o.ItemID,
		ItemName:    o.Item.Name,
		ItemSKU:     o.Item.SKU,
		Quantity:    o.Quantity,
		OrderDate:   o.OrderDate,
	}
}

func movementDaoToDomain(m dao.StockMovement) domain.StockMovement {
	return domain.StockMovement{
		ID:          m.ID,
		ItemID:      m.ItemID,
		Kind:        domain.MovementKind(m.Kind),
		Delta:       m.Delta,
		OldQuantity: m.OldQuantity,
		NewQuantity: m.NewQuantity,
		Reference:   m.Reference,
		CreatedAt:   m.CreatedAt,
	}
}
