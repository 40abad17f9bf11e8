package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InsertItem creates the item in an existing warehouse. A non-zero starting
// quantity is logged as a create movement.
func (d *InventoryDAO) InsertItem(ctx context.Context, item Item, reference string) (Item, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := warehouseExists(tx, item.WarehouseID); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(&item).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrSKUExists
			}
			return err
		}

		if item.Quantity != 0 {
			return insertMovement(tx, item.ID, "create", 0, item.Quantity, reference)
		}

		return nil
	})
	if err != nil {
		return Item{}, err
	}

	return d.FindItemByID(ctx, item.ID)
}

// UpdateItem replaces every editable field. A changed quantity is logged as a
// correction.
func (d *InventoryDAO) UpdateItem(ctx context.Context, item Item, reference string) (Item, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := lockItem(tx, item.ID)
		if err != nil {
			return err
		}
		if err = warehouseExists(tx, item.WarehouseID); err != nil {
			return err
		}

		result := tx.Model(&Item{ID: item.ID}).
			Select("name", "sku", "quantity", "warehouse_id").
			Updates(Item{Name: item.Name, SKU: item.SKU, Quantity: item.Quantity, WarehouseID: item.WarehouseID})
		if result.Error != nil {
			if isUniqueViolation(result.Error) {
				return ErrSKUExists
			}
			return result.Error
		}

		if current.Quantity != item.Quantity {
			return insertMovement(tx, item.ID, "correction", current.Quantity, item.Quantity, reference)
		}

		return nil
	})
	if err != nil {
		return Item{}, err
	}

	return d.FindItemByID(ctx, item.ID)
}

func (d *InventoryDAO) FindItemByID(ctx context.Context, id uint) (Item, error) {
	var item Item

	result := d.db.WithContext(ctx).Preload("Warehouse").First(&item, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Item{}, ErrItemNotFound
		}

		return Item{}, result.Error
	}

	return item, nil
}

func (d *InventoryDAO) FindItemBySKU(ctx context.Context, sku string) (Item, error) {
	var item Item

	result := d.db.WithContext(ctx).Preload("Warehouse").First(&item, "sku = ?", sku)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Item{}, ErrItemNotFound
		}

		return Item{}, result.Error
	}

	return item, nil
}

func (d *InventoryDAO) ListItems(ctx context.Context) ([]Item, error) {
	var items []Item

	if err := d.db.WithContext(ctx).Preload("Warehouse").Order("name, id").Find(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}

// DeleteItem removes the item together with its orders and movements.
func (d *InventoryDAO) DeleteItem(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockItem(tx, id); err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", id).Delete(&Order{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", id).Delete(&StockMovement{}).Error; err != nil {
			return err
		}

		return tx.Delete(&Item{}, id).Error
	})
}

func warehouseExists(tx *gorm.DB, id uint) error {
	var n int64
	if err := tx.Model(&Warehouse{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrWarehouseNotFound
	}

	return nil
}
