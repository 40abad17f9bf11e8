package dao

import "gorm.io/gorm"

func models() []interface{} {
	return []interface{}{
		&User{},
		&Warehouse{},
		&Item{},
		&Order{},
		&StockMovement{},
	}
}

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(models()...)
}

// DropAllTables removes every table owned by the application, dependents first.
func DropAllTables(db *gorm.DB) error {
	ms := models()
	for i := len(ms) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(ms[i]); err != nil {
			return err
		}
	}

	return nil
}
