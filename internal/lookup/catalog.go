package lookup

import (
	"context"
	"errors"

	"github.com/viastore/viastore/internal/domain"
	"github.com/viastore/viastore/internal/repository"
)

type ItemFinder interface {
	GetItemBySKU(ctx context.Context, sku string) (domain.Item, error)
}

// CatalogStrategy answers from the local item table.
type CatalogStrategy struct {
	items ItemFinder
}

func NewCatalogStrategy(items ItemFinder) *CatalogStrategy {
	return &CatalogStrategy{items: items}
}

func (s *CatalogStrategy) Name() string { return "catalog" }

func (s *CatalogStrategy) Lookup(ctx context.Context, sku string) (string, error) {
	item, err := s.items.GetItemBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return "", nil
		}
		return "", err
	}

	return item.Name, nil
}
