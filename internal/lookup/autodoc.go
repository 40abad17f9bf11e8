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

const articleNumberLabel = "Artikelnummer"

// AutodocStrategy scrapes the autodoc.de search page.
type AutodocStrategy struct {
	fetcher
	searchURL string
}

func NewAutodocStrategy(searchURL, userAgent string, timeout time.Duration) *AutodocStrategy {
	return &AutodocStrategy{
		fetcher:   newFetcher(timeout, userAgent),
		searchURL: searchURL,
	}
}

func (s *AutodocStrategy) Name() string { return "autodoc" }

func (s *AutodocStrategy) Lookup(ctx context.Context, sku string) (string, error) {
	body, err := s.get(ctx, autodocSearchURL(s.searchURL, sku))
	if err != nil {
		return "", err
	}
	defer body.Close()

	return parseAutodocHTML(body)
}

func autodocSearchURL(base, sku string) string {
	return base + "?keyword=" + url.QueryEscape(sku)
}

// parseAutodoc returns the value of the first product detail row labelled
// with the article number.
func parseAutodoc(doc *html.Node) string {
	for _, li := range findAll(doc, element("li", "product-description__item")) {
		title := text(find(li, element("span", "product-description__item-title")))
		if !strings.Contains(title, articleNumberLabel) {
			continue
		}
		if value := text(find(li, element("span", "product-description__item-value"))); value != "" {
			return value
		}
	}

	return ""
}

func parseAutodocHTML(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("html.Parse -> %w", err)
	}

	return parseAutodoc(doc), nil
}
