package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const autodocPage = `<html><body>
<ul class="product-description">
  <li class="product-description__item">
    <span class="product-description__item-title">Hersteller:</span>
    <span class="product-description__item-value">BOSCH</span>
  </li>
  <li class="product-description__item">
    <span class="product-description__item-title">Artikelnummer:</span>
    <span class="product-description__item-value">
      0 986 479 S20
    </span>
  </li>
</ul>
</body></html>`

const googlePage = `<html><body>
<a href="https://example.com/ad">Sponsored</a>
<a href="https://www.autodoc.de/bosch/123"><span></span></a>
<a href="/url?q=https://www.autodoc.de/bosch/456"><h3>BOSCH Bremsscheibe</h3> <span>vorne</span></a>
<a href="https://www.autodoc.de/other">Second</a>
</body></html>`

const openFoodFactsPage = `<html><body>
<h1>Open Food Facts</h1>
<h2 class="title-1 product-title">  Nutella
  750g </h2>
</body></html>`

func TestParseGoogleResults(t *testing.T) {
	name, err := parseGoogleResults(strings.NewReader(googlePage))
	require.NoError(t, err)
	assert.Equal(t, "BOSCH Bremsscheibe vorne", name)

	name, err = parseGoogleResults(strings.NewReader(`<a href="https://example.com">x</a>`))
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestParseAutodoc(t *testing.T) {
	name, err := parseAutodocHTML(strings.NewReader(autodocPage))
	require.NoError(t, err)
	assert.Equal(t, "0 986 479 S20", name)

	doc, err := html.Parse(strings.NewReader(`<li class="product-description__item"><span class="product-description__item-title">Gewicht</span><span class="product-description__item-value">2kg</span></li>`))
	require.NoError(t, err)
	assert.Empty(t, parseAutodoc(doc))
}

func TestParseRenderedAutodoc(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{name: "detail row", page: autodocPage, want: "0 986 479 S20"},
		{name: "product name", page: `<div class="product-description__name">Bremsscheibe</div><a class="product-link">Link</a>`, want: "Bremsscheibe"},
		{name: "product link", page: `<a class="listing product-link" href="/p/1">Wischblatt 600</a>`, want: "Wischblatt 600"},
		{name: "nothing", page: `<p>Keine Ergebnisse</p>`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRenderedAutodoc(tt.page)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSONName(t *testing.T) {
	const path = "$.product.product_name"

	name, err := extractJSONName(strings.NewReader(`{"status":1,"product":{"product_name":" Nutella "}}`), path)
	require.NoError(t, err)
	assert.Equal(t, "Nutella", name)

	name, err = extractJSONName(strings.NewReader(`{"status":0,"status_verbose":"product not found"}`), path)
	require.NoError(t, err)
	assert.Empty(t, name)

	_, err = extractJSONName(strings.NewReader(`<html>`), path)
	assert.Error(t, err)
}

func TestParseOpenFoodFactsPage(t *testing.T) {
	name, err := parseOpenFoodFactsPage(strings.NewReader(openFoodFactsPage))
	require.NoError(t, err)
	assert.Equal(t, "Nutella 750g", name)
}

func TestOpenFoodFactsStrategy(t *testing.T) {
	ctx := context.Background()

	t.Run("api answer", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v0/product/3017620422003.json", r.URL.Path)
			assert.Equal(t, "viastore-test", r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte(`{"product":{"product_name":"Nutella"}}`))
		}))
		defer srv.Close()

		s := NewOpenFoodFactsStrategy(srv.URL+"/", "$.product.product_name", "viastore-test", time.Second)
		name, err := s.Lookup(ctx, "3017620422003")
		require.NoError(t, err)
		assert.Equal(t, "Nutella", name)
	})

	t.Run("page fallback", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				_, _ = w.Write([]byte(`{"status":0}`))
				return
			}
			assert.Equal(t, "/product/3017620422003", r.URL.Path)
			_, _ = w.Write([]byte(openFoodFactsPage))
		}))
		defer srv.Close()

		s := NewOpenFoodFactsStrategy(srv.URL, "$.product.product_name", "", time.Second)
		name, err := s.Lookup(ctx, "3017620422003")
		require.NoError(t, err)
		assert.Equal(t, "Nutella 750g", name)
	})

	t.Run("both down", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		s := NewOpenFoodFactsStrategy(srv.URL, "$.product.product_name", "", time.Second)
		_, err := s.Lookup(ctx, "1")
		assert.ErrorContains(t, err, "status 404")
	})
}

func TestGoogleStrategy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0 986/479", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(googlePage))
	}))
	defer srv.Close()

	name, err := NewGoogleStrategy(srv.URL+"/search", "", time.Second).Lookup(context.Background(), "0 986/479")
	require.NoError(t, err)
	assert.Equal(t, "BOSCH Bremsscheibe vorne", name)
}

func TestAutodocStrategy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "0986479S20", r.URL.Query().Get("keyword"))
		_, _ = w.Write([]byte(autodocPage))
	}))
	defer srv.Close()

	name, err := NewAutodocStrategy(srv.URL+"/search", "", time.Second).Lookup(context.Background(), "0986479S20")
	require.NoError(t, err)
	assert.Equal(t, "0 986 479 S20", name)
}

func TestStrategyTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	res := NewResolver("test", NewAutodocStrategy(srv.URL, "", 50*time.Millisecond)).Resolve(context.Background(), "SLOW-1")
	assert.Equal(t, Result{Name: "SLOW-1", Source: SourceSKU}, res)
}
