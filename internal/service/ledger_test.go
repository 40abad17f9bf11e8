package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viastore/viastore/internal/domain"
	"github.com/viastore/viastore/internal/lookup"
	"github.com/viastore/viastore/internal/service"
)

func TestLedgerService_ReceiveAndCorrect(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)
	pub := &recordingPublisher{}
	svc := service.NewLedgerService(repo, &stubResolver{}, pub)

	item := createItem(t, repo, createWarehouse(t, repo, "Main"), "A-1", 5)

	received, err := svc.ReceiveGoods(ctx, item.ID, 3, "api")
	require.NoError(t, err)
	assert.Equal(t, 8, received.Quantity)

	correction, err := svc.CorrectStock(ctx, item.ID, 2, "api")
	require.NoError(t, err)
	assert.Equal(t, 8, correction.OldQuantity)
	assert.Equal(t, 2, correction.NewQuantity)
	assert.Equal(t, 2, correction.Item.Quantity)

	stock, err := svc.ItemStock(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stock.Quantity)

	events := pub.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "stock", events[0].Type)
	assert.Equal(t, domain.MovementReceipt, events[0].Kind)
	assert.Equal(t, 8, events[0].NewQuantity)
	assert.Equal(t, domain.MovementCorrection, events[1].Kind)
	assert.Equal(t, 8, events[1].OldQuantity)

	ms, err := svc.Movements(ctx, item.ID, 0)
	require.NoError(t, err)
	assert.Len(t, ms, 3)
}

func TestLedgerService_Validation(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)
	svc := service.NewLedgerService(repo, &stubResolver{}, nil)
	item := createItem(t, repo, createWarehouse(t, repo, "Main"), "V-1", 1)

	tests := []struct {
		name  string
		run   func() error
		field string
		want  error
	}{
		{
			name:  "receipt of zero",
			run:   func() error { _, err := svc.ReceiveGoods(ctx, item.ID, 0, "api"); return err },
			field: "quantity",
			want:  service.ErrQuantityNotPositive,
		},
		{
			name:  "negative correction",
			run:   func() error { _, err := svc.CorrectStock(ctx, item.ID, -1, "api"); return err },
			field: "quantity",
			want:  service.ErrQuantityNegative,
		},
		{
			name:  "receipt above the maximum",
			run:   func() error { _, err := svc.ReceiveGoods(ctx, item.ID, domain.MaxQuantity+1, "api"); return err },
			field: "quantity",
			want:  service.ErrQuantityTooLarge,
		},
		{
			name:  "correction above the maximum",
			run:   func() error { _, err := svc.CorrectStock(ctx, item.ID, domain.MaxQuantity+1, "api"); return err },
			field: "quantity",
			want:  service.ErrQuantityTooLarge,
		},
		{
			name:  "receipt that would overflow the stored quantity",
			run:   func() error { _, err := svc.ReceiveGoods(ctx, item.ID, domain.MaxQuantity, "api"); return err },
			field: "quantity",
			want:  service.ErrQuantityTooLarge,
		},
		{
			name: "touch above the maximum",
			run: func() error {
				_, _, err := svc.ReceiveGoodsBySKU(ctx, "V-1", domain.MaxQuantity+1, "touch")
				return err
			},
			field: "quantity",
			want:  service.ErrQuantityTooLarge,
		},
		{
			name:  "touch without sku",
			run:   func() error { _, _, err := svc.ReceiveGoodsBySKU(ctx, "  ", 1, "touch"); return err },
			field: "sku",
			want:  service.ErrRequired,
		},
		{
			name:  "touch with long sku",
			run:   func() error { _, _, err := svc.ReceiveGoodsBySKU(ctx, strings.Repeat("x", 51), 1, "touch"); return err },
			field: "sku",
			want:  service.ErrTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()

			var fe *service.FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.field, fe.Field)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	stock, err := svc.ItemStock(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stock.Quantity)

	// Correcting to zero is allowed, and so is the maximum itself.
	c, err := svc.CorrectStock(ctx, item.ID, 0, "api")
	require.NoError(t, err)
	assert.Equal(t, 0, c.NewQuantity)

	c, err = svc.CorrectStock(ctx, item.ID, domain.MaxQuantity, "api")
	require.NoError(t, err)
	assert.Equal(t, domain.MaxQuantity, c.NewQuantity)
}

func TestLedgerService_ConcurrentReceipts(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)
	pub := &recordingPublisher{}
	svc := service.NewLedgerService(repo, &stubResolver{}, pub)
	item := createItem(t, repo, createWarehouse(t, repo, "Main"), "C-1", 5)

	const n, k = 25, 4

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ReceiveGoods(ctx, item.ID, k, "api")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stock, err := svc.ItemStock(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5+n*k, stock.Quantity)

	ms, err := svc.Movements(ctx, item.ID, 100)
	require.NoError(t, err)
	receipts := 0
	for _, m := range ms {
		if m.Kind == domain.MovementReceipt {
			receipts++
		}
	}
	assert.Equal(t, n, receipts)
	assert.Len(t, pub.Events(), n)
}

func TestLedgerService_UnknownItem(t *testing.T) {
	ctx := context.Background()
	svc := service.NewLedgerService(newRepository(t), &stubResolver{}, nil)

	_, err := svc.ReceiveGoods(ctx, 404, 1, "api")
	assert.ErrorIs(t, err, service.ErrItemNotFound)

	_, err = svc.CorrectStock(ctx, 404, 1, "api")
	assert.ErrorIs(t, err, service.ErrItemNotFound)

	_, err = svc.Movements(ctx, 404, 10)
	assert.ErrorIs(t, err, service.ErrItemNotFound)
}

func TestLedgerService_ReceiveGoodsBySKU(t *testing.T) {
	ctx := context.Background()

	t.Run("no warehouse means no lookup", func(t *testing.T) {
		names := &stubResolver{}
		svc := service.NewLedgerService(newRepository(t), names, nil)

		_, _, err := svc.ReceiveGoodsBySKU(ctx, "NEW-1", 2, "touch")
		assert.ErrorIs(t, err, service.ErrNoWarehouseAvailable)
		assert.Zero(t, names.Calls())

		_, err = svc.LookupBySKU(ctx, "NEW-1")
		assert.ErrorIs(t, err, service.ErrItemNotFound)
	})

	t.Run("known sku adds to stock", func(t *testing.T) {
		repo := newRepository(t)
		names := &stubResolver{}
		svc := service.NewLedgerService(repo, names, nil)
		item := createItem(t, repo, createWarehouse(t, repo, "Main"), "K-1", 4)

		got, created, err := svc.ReceiveGoodsBySKU(ctx, " K-1 ", 6, "touch")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, item.ID, got.ID)
		assert.Equal(t, 10, got.Quantity)
		assert.Zero(t, names.Calls())
	})

	t.Run("unknown sku is created in the first warehouse", func(t *testing.T) {
		repo := newRepository(t)
		names := &stubResolver{result: lookup.Result{Name: "Bremsscheibe vorne", Source: "autodoc"}}
		pub := &recordingPublisher{}
		svc := service.NewLedgerService(repo, names, pub)
		first := createWarehouse(t, repo, "First")
		createWarehouse(t, repo, "Second")

		got, created, err := svc.ReceiveGoodsBySKU(ctx, "4006381333931", 3, "touch")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "Bremsscheibe vorne", got.Name)
		assert.Equal(t, "4006381333931", got.SKU)
		assert.Equal(t, 3, got.Quantity)
		assert.Equal(t, first.ID, got.WarehouseID)
		assert.Equal(t, 1, names.Calls())

		events := pub.Events()
		require.Len(t, events, 1)
		assert.Equal(t, 3, events[0].NewQuantity)
	})

	t.Run("lookup miss names the item after its sku", func(t *testing.T) {
		repo := newRepository(t)
		svc := service.NewLedgerService(repo, &stubResolver{}, nil)
		createWarehouse(t, repo, "Main")

		got, created, err := svc.ReceiveGoodsBySKU(ctx, "ZZ-9", 1, "touch")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "ZZ-9", got.Name)
	})

	t.Run("long names are truncated", func(t *testing.T) {
		repo := newRepository(t)
		long := strings.Repeat("ä", 150)
		svc := service.NewLedgerService(repo, &stubResolver{result: lookup.Result{Name: long, Source: "google"}}, nil)
		createWarehouse(t, repo, "Main")

		got, _, err := svc.ReceiveGoodsBySKU(ctx, "L-1", 1, "touch")
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("ä", 100), got.Name)
	})
}

func TestLedgerService_LookupBySKU(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)
	svc := service.NewLedgerService(repo, &stubResolver{}, nil)
	item := createItem(t, repo, createWarehouse(t, repo, "Main"), "S-1", 0)

	got, err := svc.LookupBySKU(ctx, "S-1")
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)

	_, err = svc.LookupBySKU(ctx, "missing")
	assert.ErrorIs(t, err, service.ErrItemNotFound)
}
