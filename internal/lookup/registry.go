package lookup

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/viastore/viastore/internal/config"
)

// browserTimeoutFactor stretches the HTTP timeout for a full page render.
const browserTimeoutFactor = 3

// Strategies builds every known source from config, keyed by name.
func Strategies(conf *config.LookupConfig, items ItemFinder) map[string]Strategy {
	all := []Strategy{
		NewCatalogStrategy(items),
		NewGoogleStrategy(conf.GoogleURL, conf.UserAgent, conf.Timeout),
		NewOpenFoodFactsStrategy(conf.OpenFoodFactsURL, conf.OpenFoodFactsNamePath, conf.UserAgent, conf.Timeout),
		NewAutodocStrategy(conf.AutodocURL, conf.UserAgent, conf.Timeout),
		NewBrowserStrategy(conf.BrowserEnabled, conf.AutodocURL, conf.UserAgent, browserTimeoutFactor*conf.Timeout),
	}

	byName := make(map[string]Strategy, len(all))
	for _, s := range all {
		byName[s.Name()] = s
	}

	return byName
}

// NewChain assembles the named chain. Hits are cached in Redis when client
// is not nil.
func NewChain(chain string, names []string, available map[string]Strategy, client *redis.Client, ttl time.Duration) (NameResolver, error) {
	strategies, err := Select(names, available)
	if err != nil {
		return nil, fmt.Errorf("chain %s: %w", chain, err)
	}

	var r NameResolver = NewResolver(chain, strategies...)
	if client != nil {
		r = NewCachedResolver(r, client, chain, ttl)
	}

	return r, nil
}
