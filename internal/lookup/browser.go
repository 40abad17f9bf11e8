package lookup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/net/html"
)

// BrowserStrategy renders the autodoc search page in headless Chrome for
// results that only appear after scripts run. When disabled it never answers.
type BrowserStrategy struct {
	enabled   bool
	searchURL string
	userAgent string
	timeout   time.Duration
	settle    time.Duration
}

func NewBrowserStrategy(enabled bool, searchURL, userAgent string, timeout time.Duration) *BrowserStrategy {
	return &BrowserStrategy{
		enabled:   enabled,
		searchURL: searchURL,
		userAgent: userAgent,
		timeout:   timeout,
		settle:    2 * time.Second,
	}
}

func (s *BrowserStrategy) Name() string { return "browser" }

func (s *BrowserStrategy) Lookup(ctx context.Context, sku string) (string, error) {
	if !s.enabled {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(s.userAgent),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var page string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(autodocSearchURL(s.searchURL, sku)),
		chromedp.Sleep(s.settle),
		chromedp.OuterHTML("html", &page, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp.Run -> %w", err)
	}

	return parseRenderedAutodoc(page)
}

func parseRenderedAutodoc(page string) (string, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("html.Parse -> %w", err)
	}

	if name := parseAutodoc(doc); name != "" {
		return name, nil
	}
	if name := text(find(doc, element("", "product-description__name"))); name != "" {
		return name, nil
	}

	return text(find(doc, element("", "product-link"))), nil
}
