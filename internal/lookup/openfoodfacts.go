package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"golang.org/x/net/html"
)

// OpenFoodFactsStrategy asks the product JSON API first and falls back to the
// public product page.
type OpenFoodFactsStrategy struct {
	fetcher
	baseURL  string
	namePath string
}

func NewOpenFoodFactsStrategy(baseURL, namePath, userAgent string, timeout time.Duration) *OpenFoodFactsStrategy {
	return &OpenFoodFactsStrategy{
		fetcher:  newFetcher(timeout, userAgent),
		baseURL:  strings.TrimRight(baseURL, "/"),
		namePath: namePath,
	}
}

func (s *OpenFoodFactsStrategy) Name() string { return "openfoodfacts" }

func (s *OpenFoodFactsStrategy) Lookup(ctx context.Context, sku string) (string, error) {
	escaped := url.PathEscape(sku)

	name, apiErr := s.fromAPI(ctx, s.baseURL+"/api/v0/product/"+escaped+".json")
	if apiErr == nil && name != "" {
		return name, nil
	}

	name, err := s.fromPage(ctx, s.baseURL+"/product/"+escaped)
	if err != nil {
		if apiErr != nil {
			return "", fmt.Errorf("api: %v, page: %w", apiErr, err)
		}
		return "", err
	}

	return name, nil
}

func (s *OpenFoodFactsStrategy) fromAPI(ctx context.Context, u string) (string, error) {
	body, err := s.get(ctx, u)
	if err != nil {
		return "", err
	}
	defer body.Close()

	return extractJSONName(body, s.namePath)
}

func (s *OpenFoodFactsStrategy) fromPage(ctx context.Context, u string) (string, error) {
	body, err := s.get(ctx, u)
	if err != nil {
		return "", err
	}
	defer body.Close()

	return parseOpenFoodFactsPage(body)
}

// extractJSONName evaluates path against the decoded document. A path that
// does not resolve is a miss, not an error.
func extractJSONName(r io.Reader, path string) (string, error) {
	var doc interface{}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return "", fmt.Errorf("json.Decode -> %w", err)
	}

	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return "", nil
	}

	name, _ := v.(string)

	return strings.TrimSpace(name), nil
}

func parseOpenFoodFactsPage(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("html.Parse -> %w", err)
	}

	return text(find(doc, element("h2", "title-1"))), nil
}
