package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

func (d *InventoryDAO) InsertWarehouse(ctx context.Context, w Warehouse) (Warehouse, error) {
	if err := d.db.WithContext(ctx).Create(&w).Error; err != nil {
		return Warehouse{}, err
	}

	return w, nil
}

func (d *InventoryDAO) UpdateWarehouse(ctx context.Context, w Warehouse) (Warehouse, error) {
	db := d.db.WithContext(ctx)

	var n int64
	if err := db.Model(&Warehouse{}).Where("id = ?", w.ID).Count(&n).Error; err != nil {
		return Warehouse{}, err
	}
	if n == 0 {
		return Warehouse{}, ErrWarehouseNotFound
	}

	err := db.Model(&Warehouse{ID: w.ID}).
		Select("name", "location").
		Updates(Warehouse{Name: w.Name, Location: w.Location}).Error
	if err != nil {
		return Warehouse{}, err
	}

	return d.FindWarehouseByID(ctx, w.ID)
}

func (d *InventoryDAO) FindWarehouseByID(ctx context.Context, id uint) (Warehouse, error) {
	var w Warehouse

	result := d.db.WithContext(ctx).First(&w, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Warehouse{}, ErrWarehouseNotFound
		}

		return Warehouse{}, result.Error
	}

	return w, nil
}

// FirstWarehouse returns the warehouse with the lowest ID.
func (d *InventoryDAO) FirstWarehouse(ctx context.Context) (Warehouse, error) {
	var w Warehouse

	result := d.db.WithContext(ctx).Order("id").First(&w)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Warehouse{}, ErrWarehouseNotFound
		}

		return Warehouse{}, result.Error
	}

	return w, nil
}

func (d *InventoryDAO) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	var ws []Warehouse

	if err := d.db.WithContext(ctx).Order("id").Find(&ws).Error; err != nil {
		return nil, err
	}

	return ws, nil
}

// DeleteWarehouse removes the warehouse and everything stored in it: orders
// and movements of its items, then the items, then the warehouse itself.
func (d *InventoryDAO) DeleteWarehouse(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var w Warehouse
		if err := tx.First(&w, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWarehouseNotFound
			}
			return err
		}

		itemIDs := tx.Model(&Item{}).Select("id").Where("warehouse_id = ?", id)
		if err := tx.Where("item_id IN (?)", itemIDs).Delete(&Order{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_id IN (?)", itemIDs).Delete(&StockMovement{}).Error; err != nil {
			return err
		}
		if err := tx.Where("warehouse_id = ?", id).Delete(&Item{}).Error; err != nil {
			return err
		}

		return tx.Delete(&w).Error
	})
}

func findOrCreateWarehouseByName(tx *gorm.DB, name string) (Warehouse, error) {
	var w Warehouse

	err := tx.Where("name = ?", name).Order("id").First(&w).Error
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Warehouse{}, err
	}

	w = Warehouse{Name: name}
	if err = tx.Create(&w).Error; err != nil {
		return Warehouse{}, err
	}

	return w, nil
}
