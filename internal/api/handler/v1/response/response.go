package response

import "github.com/viastore/viastore/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type SessionResponse struct {
	User      domain.User `json:"user"`
	ExpiresIn int64       `json:"expires_in"`
}

type TouchReceiptResponse struct {
	Item    domain.Item `json:"item"`
	Created bool        `json:"created"`
}

type ItemInfoResponse struct {
	SKU    string `json:"sku"`
	Name   string `json:"name"`
	Source string `json:"source,omitempty"`
	Found  bool   `json:"found"`
}

type ItemStockResponse struct {
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
