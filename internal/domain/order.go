package domain

import "time"

type Order struct {
	ID          uint      `json:"id"`
	OrderNumber string    `json:"order_number"`
	ItemID      uint      `json:"item"`
	ItemName    string    `json:"item_name"`
	ItemSKU     string    `json:"item_sku"`
	Quantity    int       `json:"quantity"`
	OrderDate   time.Time `json:"order_date"`
}
