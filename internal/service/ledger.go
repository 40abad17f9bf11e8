package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/viastore/viastore/internal/domain"
	"github.com/viastore/viastore/internal/lookup"
	"github.com/viastore/viastore/internal/repository"
)

const (
	maxItemNameLength    = 100
	maxSKULength         = 50
	maxWarehouseNameLen  = 100
	maxLocationLength    = 200
	maxOrderNumberLength = 50
	defaultMovementLimit = 50
	maxMovementLimit     = 500
)

type LedgerRepository interface {
	GetItem(ctx context.Context, id uint) (domain.ItemDetail, error)
	GetItemBySKU(ctx context.Context, sku string) (domain.Item, error)
	FirstWarehouse(ctx context.Context) (domain.Warehouse, error)
	CreateItem(ctx context.Context, item domain.Item, reference string) (domain.Item, error)
	AddQuantity(ctx context.Context, itemID uint, delta int, reference string) (domain.Item, domain.StockMovement, error)
	SetQuantity(ctx context.Context, itemID uint, quantity int, reference string) (domain.Item, domain.StockMovement, error)
	ListMovements(ctx context.Context, itemID uint, limit int) ([]domain.StockMovement, error)
}

// StockPublisher receives an event after every committed stock change.
type StockPublisher interface {
	Publish(event domain.StockEvent)
}

// LedgerService owns on-hand quantities. Receipts add to the stored
// quantity, corrections overwrite it.
type LedgerService struct {
	repo      LedgerRepository
	names     lookup.NameResolver
	publisher StockPublisher
}

// NewLedgerService builds the ledger. names resolves display names for SKUs
// first seen at the touch kiosk; publisher may be nil.
func NewLedgerService(repo LedgerRepository, names lookup.NameResolver, publisher StockPublisher) *LedgerService {
	return &LedgerService{
		repo:      repo,
		names:     names,
		publisher: publisher,
	}
}

func (s *LedgerService) ReceiveGoods(ctx context.Context, itemID uint, quantity int, reference string) (domain.Item, error) {
	if err := checkReceipt(quantity); err != nil {
		return domain.Item{}, err
	}

	item, m, err := s.repo.AddQuantity(ctx, itemID, quantity, reference)
	if err != nil {
		if errors.Is(err, repository.ErrQuantityOverflow) {
			return domain.Item{}, fieldError("quantity", ErrQuantityTooLarge)
		}
		return domain.Item{}, fmt.Errorf("s.repo.AddQuantity -> %w", err)
	}

	s.publish(item, m)

	return item, nil
}

// ReceiveGoodsBySKU books a receipt for the item with this SKU. An unknown
// SKU becomes a new item in the first warehouse, named by the lookup chain.
// The bool reports whether the item was created.
func (s *LedgerService) ReceiveGoodsBySKU(ctx context.Context, sku string, quantity int, reference string) (domain.Item, bool, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return domain.Item{}, false, fieldError("sku", ErrRequired)
	}
	if utf8.RuneCountInString(sku) > maxSKULength {
		return domain.Item{}, false, fieldError("sku", ErrTooLong)
	}
	if err := checkReceipt(quantity); err != nil {
		return domain.Item{}, false, err
	}

	existing, err := s.repo.GetItemBySKU(ctx, sku)
	if err == nil {
		item, err := s.ReceiveGoods(ctx, existing.ID, quantity, reference)
		return item, false, err
	}
	if !errors.Is(err, repository.ErrItemNotFound) {
		return domain.Item{}, false, fmt.Errorf("s.repo.GetItemBySKU -> %w", err)
	}

	w, err := s.repo.FirstWarehouse(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrWarehouseNotFound) {
			return domain.Item{}, false, ErrNoWarehouseAvailable
		}
		return domain.Item{}, false, fmt.Errorf("s.repo.FirstWarehouse -> %w", err)
	}

	res := s.names.Resolve(ctx, sku)

	created, err := s.repo.CreateItem(ctx, domain.Item{
		Name:        truncate(res.Name, maxItemNameLength),
		SKU:         sku,
		WarehouseID: w.ID,
	}, reference)
	switch {
	case errors.Is(err, repository.ErrSKUExists):
		// Another receipt created it first.
		existing, err = s.repo.GetItemBySKU(ctx, sku)
		if err != nil {
			return domain.Item{}, false, fmt.Errorf("s.repo.GetItemBySKU -> %w", err)
		}
		item, err := s.ReceiveGoods(ctx, existing.ID, quantity, reference)
		return item, false, err
	case err != nil:
		return domain.Item{}, false, fmt.Errorf("s.repo.CreateItem -> %w", err)
	}

	zap.L().Info("item created from touch receipt",
		zap.Uint("item_id", created.ID),
		zap.String("sku", sku),
		zap.String("name", created.Name),
		zap.String("source", res.Source),
	)

	item, err := s.ReceiveGoods(ctx, created.ID, quantity, reference)
	if err != nil {
		return domain.Item{}, true, err
	}

	return item, true, nil
}

// CorrectStock overwrites the quantity and reports the value it replaced.
func (s *LedgerService) CorrectStock(ctx context.Context, itemID uint, quantity int, reference string) (domain.Correction, error) {
	switch {
	case quantity < 0:
		return domain.Correction{}, fieldError("quantity", ErrQuantityNegative)
	case quantity > domain.MaxQuantity:
		return domain.Correction{}, fieldError("quantity", ErrQuantityTooLarge)
	}

	item, m, err := s.repo.SetQuantity(ctx, itemID, quantity, reference)
	if err != nil {
		return domain.Correction{}, fmt.Errorf("s.repo.SetQuantity -> %w", err)
	}

	s.publish(item, m)

	return domain.Correction{
		Item:        item,
		OldQuantity: m.OldQuantity,
		NewQuantity: m.NewQuantity,
	}, nil
}

func (s *LedgerService) LookupBySKU(ctx context.Context, sku string) (domain.Item, error) {
	item, err := s.repo.GetItemBySKU(ctx, strings.TrimSpace(sku))
	if err != nil {
		return domain.Item{}, fmt.Errorf("s.repo.GetItemBySKU -> %w", err)
	}

	return item, nil
}

func (s *LedgerService) ItemStock(ctx context.Context, itemID uint) (domain.Item, error) {
	detail, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return domain.Item{}, fmt.Errorf("s.repo.GetItem -> %w", err)
	}

	return detail.Item, nil
}

// Movements returns the latest movements of an item, newest first.
func (s *LedgerService) Movements(ctx context.Context, itemID uint, limit int) ([]domain.StockMovement, error) {
	if limit <= 0 || limit > maxMovementLimit {
		limit = defaultMovementLimit
	}

	if _, err := s.repo.GetItem(ctx, itemID); err != nil {
		return nil, fmt.Errorf("s.repo.GetItem -> %w", err)
	}

	ms, err := s.repo.ListMovements(ctx, itemID, limit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListMovements -> %w", err)
	}

	return ms, nil
}

func (s *LedgerService) publish(item domain.Item, m domain.StockMovement) {
	if s.publisher == nil {
		return
	}

	s.publisher.Publish(stockEvent(item, m))
}

func stockEvent(item domain.Item, m domain.StockMovement) domain.StockEvent {
	return domain.StockEvent{
		Type:        "stock",
		ItemID:      item.ID,
		SKU:         item.SKU,
		Name:        item.Name,
		Kind:        m.Kind,
		OldQuantity: m.OldQuantity,
		NewQuantity: m.NewQuantity,
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	return string([]rune(s)[:n])
}

func checkReceipt(quantity int) error {
	switch {
	case quantity <= 0:
		return fieldError("quantity", ErrQuantityNotPositive)
	case quantity > domain.MaxQuantity:
		return fieldError("quantity", ErrQuantityTooLarge)
	}

	return nil
}
