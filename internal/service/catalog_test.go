package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viastore/viastore/internal/domain"
	"github.com/viastore/viastore/internal/service"
)

func requireFieldError(t *testing.T, err error, field string, want error) {
	t.Helper()

	var fe *service.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, field, fe.Field)
	assert.ErrorIs(t, err, want)
}

func TestCatalogService_Warehouses(t *testing.T) {
	ctx := context.Background()
	svc := service.NewCatalogService(newRepository(t))

	_, err := svc.CreateWarehouse(ctx, domain.Warehouse{Name: "  "})
	requireFieldError(t, err, "name", service.ErrRequired)

	_, err = svc.CreateWarehouse(ctx, domain.Warehouse{Name: "Main", Location: strings.Repeat("x", 201)})
	requireFieldError(t, err, "location", service.ErrTooLong)

	w, err := svc.CreateWarehouse(ctx, domain.Warehouse{Name: "Main", Location: "Hall A"})
	require.NoError(t, err)

	w.Location = "Hall B"
	updated, err := svc.UpdateWarehouse(ctx, w)
	require.NoError(t, err)
	assert.Equal(t, "Hall B", updated.Location)

	_, err = svc.GetWarehouse(ctx, 999)
	assert.ErrorIs(t, err, service.ErrWarehouseNotFound)

	require.NoError(t, svc.DeleteWarehouse(ctx, w.ID))
	assert.ErrorIs(t, svc.DeleteWarehouse(ctx, w.ID), service.ErrWarehouseNotFound)
}

func TestCatalogService_Items(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)
	svc := service.NewCatalogService(repo)
	w := createWarehouse(t, repo, "Main")

	tests := []struct {
		name  string
		item  domain.Item
		field string
		want  error
	}{
		{name: "missing name", item: domain.Item{SKU: "X", WarehouseID: w.ID}, field: "name", want: service.ErrRequired},
		{name: "missing sku", item: domain.Item{Name: "X", WarehouseID: w.ID}, field: "sku", want: service.ErrRequired},
		{name: "long name", item: domain.Item{Name: strings.Repeat("n", 101), SKU: "X", WarehouseID: w.ID}, field: "name", want: service.ErrTooLong},
		{name: "long sku", item: domain.Item{Name: "X", SKU: strings.Repeat("s", 51), WarehouseID: w.ID}, field: "sku", want: service.ErrTooLong},
		{name: "negative quantity", item: domain.Item{Name: "X", SKU: "X", Quantity: -1, WarehouseID: w.ID}, field: "quantity", want: service.ErrQuantityNegative},
		{name: "unknown warehouse", item: domain.Item{Name: "X", SKU: "X", WarehouseID: 999}, field: "warehouse", want: service.ErrUnknownWarehouse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateItem(ctx, tt.item, "api")
			requireFieldError(t, err, tt.field, tt.want)
		})
	}

	item, err := svc.CreateItem(ctx, domain.Item{Name: "Bolt", SKU: "B-1", Quantity: 2, WarehouseID: w.ID}, "api")
	require.NoError(t, err)
	assert.Equal(t, "Main", item.WarehouseName)

	_, err = svc.CreateItem(ctx, domain.Item{Name: "Bolt", SKU: "B-1", WarehouseID: w.ID}, "api")
	requireFieldError(t, err, "sku", service.ErrDuplicateSKU)

	name := "Bolt M8"
	patched, err := svc.PatchItem(ctx, item.ID, domain.ItemPatch{Name: &name}, "api")
	require.NoError(t, err)
	assert.Equal(t, "Bolt M8", patched.Name)
	assert.Equal(t, "B-1", patched.SKU)
	assert.Equal(t, 2, patched.Quantity)

	_, err = svc.PatchItem(ctx, 999, domain.ItemPatch{Name: &name}, "api")
	assert.ErrorIs(t, err, service.ErrItemNotFound)

	listing, err := svc.StockListing(ctx)
	require.NoError(t, err)
	require.Len(t, listing, 1)
	assert.Equal(t, "Bolt M8", listing[0].Name)

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Dashboard{WarehouseCount: 1, ItemCount: 1}, dash)
}

func TestCatalogService_Orders(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)
	svc := service.NewCatalogService(repo)
	item := createItem(t, repo, createWarehouse(t, repo, "Main"), "O-1", 0)

	_, err := svc.CreateOrder(ctx, domain.Order{ItemID: item.ID, Quantity: 1})
	requireFieldError(t, err, "order_number", service.ErrRequired)

	_, err = svc.CreateOrder(ctx, domain.Order{OrderNumber: "PO-1", ItemID: item.ID})
	requireFieldError(t, err, "quantity", service.ErrQuantityNotPositive)

	_, err = svc.CreateOrder(ctx, domain.Order{OrderNumber: "PO-1", ItemID: 999, Quantity: 1})
	requireFieldError(t, err, "item", service.ErrUnknownItem)

	order, err := svc.CreateOrder(ctx, domain.Order{OrderNumber: "PO-1", ItemID: item.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "O-1", order.ItemSKU)

	_, err = svc.CreateOrder(ctx, domain.Order{OrderNumber: "PO-1", ItemID: item.ID, Quantity: 2})
	requireFieldError(t, err, "order_number", service.ErrDuplicateOrderNumber)

	order.Quantity = 5
	updated, err := svc.UpdateOrder(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)
	assert.True(t, order.OrderDate.Equal(updated.OrderDate))

	// Deleting the item takes its orders with it.
	require.NoError(t, svc.DeleteItem(ctx, item.ID))
	_, err = svc.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
}
