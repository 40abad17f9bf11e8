package dao

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxQuantity = math.MaxInt32

// ImportRow is one validated spreadsheet row. Line is the 1-based sheet row.
type ImportRow struct {
	Line          int
	Name          string
	SKU           string
	Quantity      int
	WarehouseName string
}

// RowError ties an import failure to the sheet row that caused it.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// AddQuantity increments the on-hand quantity in a single UPDATE so that
// concurrent receipts never overwrite each other. The result may not exceed
// maxQuantity.
func (d *InventoryDAO) AddQuantity(ctx context.Context, itemID uint, delta int, reference string) (Item, StockMovement, error) {
	var movement StockMovement

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Item{}).Where("id = ? AND quantity <= ?", itemID, maxQuantity-delta).
			Update("quantity", gorm.Expr("quantity + ?", delta))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&Item{}).Where("id = ?", itemID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return ErrItemNotFound
			}
			return ErrQuantityOverflow
		}

		var item Item
		if err := tx.First(&item, itemID).Error; err != nil {
			return err
		}

		movement = StockMovement{
			ItemID:      itemID,
			Kind:        "receipt",
			Delta:       delta,
			OldQuantity: item.Quantity - delta,
			NewQuantity: item.Quantity,
			Reference:   reference,
		}

		return tx.Create(&movement).Error
	})
	if err != nil {
		return Item{}, StockMovement{}, err
	}

	item, err := d.FindItemByID(ctx, itemID)
	if err != nil {
		return Item{}, StockMovement{}, err
	}

	return item, movement, nil
}

// SetQuantity overwrites the on-hand quantity under a row lock and returns
// the movement holding the previous value.
func (d *InventoryDAO) SetQuantity(ctx context.Context, itemID uint, quantity int, reference string) (Item, StockMovement, error) {
	var movement StockMovement

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := lockItem(tx, itemID)
		if err != nil {
			return err
		}

		if err = tx.Model(&Item{ID: itemID}).Update("quantity", quantity).Error; err != nil {
			return err
		}

		movement = StockMovement{
			ItemID:      itemID,
			Kind:        "correction",
			Delta:       quantity - item.Quantity,
			OldQuantity: item.Quantity,
			NewQuantity: quantity,
			Reference:   reference,
		}

		return tx.Create(&movement).Error
	})
	if err != nil {
		return Item{}, StockMovement{}, err
	}

	item, err := d.FindItemByID(ctx, itemID)
	if err != nil {
		return Item{}, StockMovement{}, err
	}

	return item, movement, nil
}

func (d *InventoryDAO) ListMovements(ctx context.Context, itemID uint, limit int) ([]StockMovement, error) {
	var ms []StockMovement

	q := d.db.WithContext(ctx).Where("item_id = ?", itemID).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}

	return ms, nil
}

// ImportRows upserts the rows by SKU in one transaction. Warehouses are
// matched by name and created on first use. Any failure rolls back the whole
// batch. The returned movements cover every item whose quantity changed.
func (d *InventoryDAO) ImportRows(ctx context.Context, rows []ImportRow, reference string) ([]StockMovement, error) {
	var movements []StockMovement

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		warehouses := make(map[string]Warehouse)

		for _, row := range rows {
			w, ok := warehouses[row.WarehouseName]
			if !ok {
				var err error
				if w, err = findOrCreateWarehouseByName(tx, row.WarehouseName); err != nil {
					return &RowError{Line: row.Line, Err: err}
				}
				warehouses[row.WarehouseName] = w
			}

			m, err := upsertItem(tx, row, w.ID, reference)
			if err != nil {
				return &RowError{Line: row.Line, Err: err}
			}
			if m != nil {
				movements = append(movements, *m)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return movements, nil
}

func upsertItem(tx *gorm.DB, row ImportRow, warehouseID uint, reference string) (*StockMovement, error) {
	var item Item
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, "sku = ?", row.SKU).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = Item{Name: row.Name, SKU: row.SKU, Quantity: row.Quantity, WarehouseID: warehouseID}
		if err = tx.Omit(clause.Associations).Create(&item).Error; err != nil {
			if isUniqueViolation(err) {
				return nil, ErrSKUExists
			}
			return nil, err
		}
		if row.Quantity == 0 {
			return nil, nil
		}
		m := StockMovement{ItemID: item.ID, Kind: "import", Delta: row.Quantity, NewQuantity: row.Quantity, Reference: reference}
		return &m, tx.Create(&m).Error

	case err != nil:
		return nil, err
	}

	old := item.Quantity
	err = tx.Model(&Item{ID: item.ID}).
		Select("name", "quantity", "warehouse_id").
		Updates(Item{Name: row.Name, Quantity: row.Quantity, WarehouseID: warehouseID}).Error
	if err != nil {
		return nil, err
	}
	if old == row.Quantity {
		return nil, nil
	}

	m := StockMovement{ItemID: item.ID, Kind: "import", Delta: row.Quantity - old, OldQuantity: old, NewQuantity: row.Quantity, Reference: reference}
	return &m, tx.Create(&m).Error
}

func lockItem(tx *gorm.DB, id uint) (Item, error) {
	var item Item

	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Item{}, ErrItemNotFound
		}
		return Item{}, err
	}

	return item, nil
}

func insertMovement(tx *gorm.DB, itemID uint, kind string, old, updated int, reference string) error {
	return tx.Create(&StockMovement{
		ItemID:      itemID,
		Kind:        kind,
		Delta:       updated - old,
		OldQuantity: old,
		NewQuantity: updated,
		Reference:   reference,
	}).Error
}
