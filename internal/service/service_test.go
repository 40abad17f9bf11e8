package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/viastore/viastore/internal/domain"
	"github.com/viastore/viastore/internal/lookup"
	"github.com/viastore/viastore/internal/repository"
	"github.com/viastore/viastore/internal/repository/dao"
	"github.com/viastore/viastore/internal/testutil"
)

// stubResolver answers every SKU with a fixed result and counts calls.
type stubResolver struct {
	mu     sync.Mutex
	calls  int
	result lookup.Result
}

func (r *stubResolver) Resolve(_ context.Context, sku string) lookup.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	if r.result.Source == "" {
		return lookup.Result{Name: sku, Source: lookup.SourceSKU}
	}

	return r.result
}

func (r *stubResolver) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.calls
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.StockEvent
}

func (p *recordingPublisher) Publish(e domain.StockEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) Events() []domain.StockEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]domain.StockEvent(nil), p.events...)
}

func newRepository(t *testing.T) *repository.InventoryRepository {
	t.Helper()

	return repository.NewInventoryRepository(dao.NewInventoryDAO(testutil.SetupTestDB(t)))
}

func createWarehouse(t *testing.T, repo *repository.InventoryRepository, name string) domain.Warehouse {
	t.Helper()

	w, err := repo.CreateWarehouse(context.Background(), domain.Warehouse{Name: name})
	require.NoError(t, err)

	return w
}

func createItem(t *testing.T, repo *repository.InventoryRepository, w domain.Warehouse, sku string, quantity int) domain.Item {
	t.Helper()

	item, err := repo.CreateItem(context.Background(), domain.Item{
		Name:        "Item " + sku,
		SKU:         sku,
		Quantity:    quantity,
		WarehouseID: w.ID,
	}, "test")
	require.NoError(t, err)

	return item
}
