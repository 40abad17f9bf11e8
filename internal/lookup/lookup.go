// Package lookup resolves display names for SKUs that are not in the local
// catalog. Sources are tried in a fixed order and the first non-empty answer
// wins. Source failures never reach the caller: they are logged and the next
// source is tried, and the raw SKU is the last resort.
package lookup

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// SourceSKU marks a result that fell back to the SKU itself.
const SourceSKU = "sku"

// Strategy is one external or local source of item names. An empty name with
// a nil error means the source has no answer for this SKU.
type Strategy interface {
	Name() string
	Lookup(ctx context.Context, sku string) (string, error)
}

type Result struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// Found reports whether a strategy answered, as opposed to the SKU fallback.
func (r Result) Found() bool {
	return r.Source != SourceSKU
}

type NameResolver interface {
	Resolve(ctx context.Context, sku string) Result
}

type Resolver struct {
	chain      string
	strategies []Strategy
}

func NewResolver(chain string, strategies ...Strategy) *Resolver {
	return &Resolver{
		chain:      chain,
		strategies: strategies,
	}
}

func (r *Resolver) Chain() string {
	return r.chain
}

// Resolve walks the strategies in order and stops at the first hit.
func (r *Resolver) Resolve(ctx context.Context, sku string) Result {
	for _, s := range r.strategies {
		if ctx.Err() != nil {
			break
		}

		name, err := s.Lookup(ctx, sku)
		if err != nil {
			zap.L().Debug("lookup source failed",
				zap.String("chain", r.chain),
				zap.String("source", s.Name()),
				zap.String("sku", sku),
				zap.Error(err),
			)
			continue
		}

		if name = strings.TrimSpace(name); name != "" {
			return Result{Name: name, Source: s.Name()}
		}
	}

	return Result{Name: sku, Source: SourceSKU}
}

// Select picks the named strategies out of available, keeping the order of
// names.
func Select(names []string, available map[string]Strategy) ([]Strategy, error) {
	strategies := make([]Strategy, 0, len(names))
	for _, name := range names {
		s, ok := available[name]
		if !ok {
			return nil, fmt.Errorf("unknown lookup source %q", name)
		}
		strategies = append(strategies, s)
	}

	return strategies, nil
}
