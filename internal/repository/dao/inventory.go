package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Warehouse struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;index"`
	Location  string `gorm:"size:200"`
	Items     []Item `gorm:"foreignKey:WarehouseID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Item struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:100;not null"`
	SKU         string    `gorm:"size:50;not null;uniqueIndex"`
	Quantity    int       `gorm:"not null;default:0;check:quantity >= 0"`
	WarehouseID uint      `gorm:"not null;index"`
	Warehouse   Warehouse `gorm:"foreignKey:WarehouseID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Order struct {
	ID          uint      `gorm:"primaryKey"`
	OrderNumber string    `gorm:"size:50;not null;uniqueIndex"`
	ItemID      uint      `gorm:"not null;index"`
	Item        Item      `gorm:"foreignKey:ItemID"`
	Quantity    int       `gorm:"not null;check:quantity > 0"`
	OrderDate   time.Time `gorm:"not null;index;autoCreateTime"`
}

type StockMovement struct {
	ID          uint   `gorm:"primaryKey"`
	ItemID      uint   `gorm:"not null;index"`
	Kind        string `gorm:"size:20;not null"`
	Delta       int    `gorm:"not null"`
	OldQuantity int    `gorm:"not null"`
	NewQuantity int    `gorm:"not null"`
	Reference   string `gorm:"size:200"`
	CreatedAt   time.Time
}

type Counts struct {
	Warehouses int64
	Items      int64
	Orders     int64
}

// InventoryDAO owns warehouses, items, orders and the stock movement log.
// Operations spanning several tables run in a single transaction.
type InventoryDAO struct {
	db *gorm.DB
}

func NewInventoryDAO(db *gorm.DB) *InventoryDAO {
	return &InventoryDAO{
		db: db,
	}
}

func (d *InventoryDAO) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	db := d.db.WithContext(ctx)

	if err := db.Model(&Warehouse{}).Count(&c.Warehouses).Error; err != nil {
		return Counts{}, err
	}
	if err := db.Model(&Item{}).Count(&c.Items).Error; err != nil {
		return Counts{}, err
	}
	if err := db.Model(&Order{}).Count(&c.Orders).Error; err != nil {
		return Counts{}, err
	}

	return c, nil
}
