package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (d *InventoryDAO) InsertOrder(ctx context.Context, order Order) (Order, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := itemExists(tx, order.ItemID); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrOrderNumberExists
			}
			return err
		}

		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return d.FindOrderByID(ctx, order.ID)
}

// UpdateOrder replaces order number, item and quantity. The order date is
// never touched.
func (d *InventoryDAO) UpdateOrder(ctx context.Context, order Order) (Order, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&Order{}).Where("id = ?", order.ID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrOrderNotFound
		}
		if err := itemExists(tx, order.ItemID); err != nil {
			return err
		}

		err := tx.Model(&Order{ID: order.ID}).
			Select("order_number", "item_id", "quantity").
			Updates(Order{OrderNumber: order.OrderNumber, ItemID: order.ItemID, Quantity: order.Quantity}).Error
		if err != nil {
			if isUniqueViolation(err) {
				return ErrOrderNumberExists
			}
			return err
		}

		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return d.FindOrderByID(ctx, order.ID)
}

func (d *InventoryDAO) FindOrderByID(ctx context.Context, id uint) (Order, error) {
	var order Order

	result := d.db.WithContext(ctx).Preload("Item").First(&order, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Order{}, ErrOrderNotFound
		}

		return Order{}, result.Error
	}

	return order, nil
}

// ListOrders returns orders newest first.
func (d *InventoryDAO) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order

	if err := d.db.WithContext(ctx).Preload("Item").Order("order_date DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}

	return orders, nil
}

func (d *InventoryDAO) DeleteOrder(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Order{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func itemExists(tx *gorm.DB, id uint) error {
	var n int64
	if err := tx.Model(&Item{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrItemNotFound
	}

	return nil
}
