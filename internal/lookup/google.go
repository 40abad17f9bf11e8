package lookup

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// GoogleStrategy searches for the SKU and takes the text of the first result
// linking to autodoc.de.
type GoogleStrategy struct {
	fetcher
	searchURL string
}

func NewGoogleStrategy(searchURL, userAgent string, timeout time.Duration) *GoogleStrategy {
	return &GoogleStrategy{
		fetcher:   newFetcher(timeout, userAgent),
		searchURL: searchURL,
	}
}

func (s *GoogleStrategy) Name() string { return "google" }

func (s *GoogleStrategy) Lookup(ctx context.Context, sku string) (string, error) {
	body, err := s.get(ctx, s.searchURL+"?q="+url.QueryEscape(sku))
	if err != nil {
		return "", err
	}
	defer body.Close()

	return parseGoogleResults(body)
}

func parseGoogleResults(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("html.Parse -> %w", err)
	}

	for _, a := range findAll(doc, element("a", "")) {
		if !strings.Contains(attr(a, "href"), "autodoc.de") {
			continue
		}
		if name := text(a); name != "" {
			return name, nil
		}
	}

	return "", nil
}
