package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/viastore/viastore/internal/api/handler/v1/response"
	"github.com/viastore/viastore/internal/config"
	"github.com/viastore/viastore/internal/domain"
	"github.com/viastore/viastore/internal/repository"
	"github.com/viastore/viastore/internal/repository/dao"
	"github.com/viastore/viastore/internal/service"
	"github.com/viastore/viastore/internal/session"
	"github.com/viastore/viastore/internal/testutil"
)

const (
	testUserAgent = "viastore-test"
	testUsername  = "clerk"
	testPassword  = "secret123"
)

// lookupStub stands in for the public product sources.
func lookupStub(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v0/product/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v0/product/3017620422003.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":1,"product":{"product_name":"Nutella"}}`)
	})
	mux.HandleFunc("/product/", http.NotFound)
	mux.HandleFunc("/autodoc", http.NotFound)
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if r.URL.Query().Get("q") != "BREMS-1" {
			fmt.Fprint(w, `<html><body></body></html>`)
			return
		}
		fmt.Fprint(w, `<html><body><a href="https://www.autodoc.de/bosch/1"><h3>BOSCH Bremsscheibe</h3></a></body></html>`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func testConfig(stubURL string) *config.AppConfig {
	return &config.AppConfig{
		API: &config.APIConfig{
			Environment:        "test",
			Port:               "0",
			JWTSigningKey:      "test-signing-key",
			JWTTTL:             time.Hour,
			SessionTTL:         time.Hour,
			AllowedCORSDomains: []string{"http://localhost:8080"},
		},
		Gin:      &config.GinConfig{Mode: gin.TestMode},
		Database: &config.DatabaseConfig{Driver: "sqlite"},
		Redis:    &config.RedisConfig{},
		Lookup: &config.LookupConfig{
			Timeout:               2 * time.Second,
			TouchChain:            []string{"openfoodfacts", "autodoc"},
			InfoChain:             []string{"catalog", "google"},
			UserAgent:             "viastore-test",
			GoogleURL:             stubURL + "/search",
			OpenFoodFactsURL:      stubURL,
			OpenFoodFactsNamePath: "$.product.product_name",
			AutodocURL:            stubURL + "/autodoc",
		},
	}
}

type testServer struct {
	*Server
	t *testing.T
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	stub := lookupStub(t)
	db := testutil.SetupTestDB(t)

	s, err := NewServer(testConfig(stub.URL), db, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go s.Feed.Run(ctx)
	t.Cleanup(cancel)

	users := service.NewAuthService(repository.NewUserRepository(dao.NewUserDAO(db)))
	_, err = users.CreateUser(context.Background(), testUsername, testPassword)
	require.NoError(t, err)

	return &testServer{Server: s, t: t}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	req.Header.Set("User-Agent", testUserAgent)
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	return w
}

func (s *testServer) json(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return s.do(req)
}

func (s *testServer) token() string {
	s.t.Helper()

	w := s.json(http.MethodPost, "/auth/token", "", gin.H{"username": testUsername, "password": testPassword})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var res response.LoginResponse
	decode(s.t, w, &res)
	require.NotEmpty(s.t, res.Token)
	assert.Equal(s.t, testUsername, res.User.Username)

	return res.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}

	return nil
}

func TestHealthcheck(t *testing.T) {
	s := newTestServer(t)

	w := s.json(http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res response.HealthResponse
	decode(t, w, &res)
	assert.Equal(t, "ok", res.Status)
}

func TestAPI_Auth(t *testing.T) {
	s := newTestServer(t)

	t.Run("protected routes need credentials", func(t *testing.T) {
		w := s.json(http.MethodGet, "/items", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := s.json(http.MethodPost, "/auth/token", "", gin.H{"username": testUsername, "password": "nope-nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token is bound to the user agent", func(t *testing.T) {
		token := s.token()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		req.Header.Set("User-Agent", "someone-else")
		s.Router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = s.json(http.MethodGet, "/auth/me", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var me domain.User
		decode(t, w, &me)
		assert.Equal(t, testUsername, me.Username)
	})

	t.Run("session login and logout", func(t *testing.T) {
		w := s.json(http.MethodPost, "/auth/login", "", gin.H{"username": testUsername, "password": testPassword})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		cookie := sessionCookie(w)
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)

		me := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		me.AddCookie(cookie)
		assert.Equal(t, http.StatusOK, s.do(me).Code)

		logout := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
		logout.AddCookie(cookie)
		assert.Equal(t, http.StatusNoContent, s.do(logout).Code)

		me = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		me.AddCookie(cookie)
		assert.Equal(t, http.StatusUnauthorized, s.do(me).Code)
	})

	t.Run("create user checks the confirmation", func(t *testing.T) {
		token := s.token()

		w := s.json(http.MethodPost, "/users", token, gin.H{"username": "second", "password": "password1", "confirm_password": "password2"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.json(http.MethodPost, "/users", token, gin.H{"username": "second", "password": "password1", "confirm_password": "password1"})
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})
}

func TestAPI_InventoryFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.token()

	w := s.json(http.MethodPost, "/warehouses", token, gin.H{"name": "Main", "location": "Hall A"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var warehouse domain.Warehouse
	decode(t, w, &warehouse)

	w = s.json(http.MethodPost, "/items", token, gin.H{"name": "Bolt", "sku": "B-1", "quantity": 5, "warehouse": warehouse.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var item domain.Item
	decode(t, w, &item)
	assert.Equal(t, 5, item.Quantity)

	t.Run("duplicate sku is a field error", func(t *testing.T) {
		w := s.json(http.MethodPost, "/items", token, gin.H{"name": "Other", "sku": "B-1", "quantity": 1, "warehouse": warehouse.ID})
		require.Equal(t, http.StatusBadRequest, w.Code)

		var res response.Err
		decode(t, w, &res)
		assert.Contains(t, res.Fields, "sku")
	})

	t.Run("goods receipt adds", func(t *testing.T) {
		w := s.json(http.MethodPost, "/goods-receipts", token, gin.H{"item": item.ID, "quantity": 3})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got domain.Item
		decode(t, w, &got)
		assert.Equal(t, 8, got.Quantity)
	})

	t.Run("goods receipt rejects zero", func(t *testing.T) {
		w := s.json(http.MethodPost, "/goods-receipts", token, gin.H{"item": item.ID, "quantity": 0})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("correction overwrites", func(t *testing.T) {
		w := s.json(http.MethodPost, "/stock-corrections", token, gin.H{"item": item.ID, "quantity": 2})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var c domain.Correction
		decode(t, w, &c)
		assert.Equal(t, 8, c.OldQuantity)
		assert.Equal(t, 2, c.NewQuantity)
	})

	t.Run("stock and movements", func(t *testing.T) {
		w := s.json(http.MethodGet, fmt.Sprintf("/items/%d/stock", item.ID), token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var stock response.ItemStockResponse
		decode(t, w, &stock)
		assert.Equal(t, response.ItemStockResponse{Name: "Bolt", SKU: "B-1", Quantity: 2}, stock)

		w = s.json(http.MethodGet, fmt.Sprintf("/items/%d/movements", item.ID), token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var movements []domain.StockMovement
		decode(t, w, &movements)
		require.Len(t, movements, 3)
		assert.Equal(t, domain.MovementCorrection, movements[0].Kind)
		assert.Equal(t, domain.MovementCreate, movements[2].Kind)
	})

	t.Run("orders", func(t *testing.T) {
		w := s.json(http.MethodPost, "/orders", token, gin.H{"order_number": "PO-1", "item": item.ID, "quantity": 4})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = s.json(http.MethodGet, "/orders", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var orders []domain.Order
		decode(t, w, &orders)
		require.Len(t, orders, 1)
		assert.Equal(t, "Bolt", orders[0].ItemName)

		w = s.json(http.MethodPost, "/orders", token, gin.H{"order_number": "PO-2", "item": 9999, "quantity": 1})
		require.Equal(t, http.StatusBadRequest, w.Code)
		var res response.Err
		decode(t, w, &res)
		assert.Contains(t, res.Fields, "item")
	})

	t.Run("dashboard", func(t *testing.T) {
		w := s.json(http.MethodGet, "/dashboard", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var d domain.Dashboard
		decode(t, w, &d)
		assert.Equal(t, domain.Dashboard{WarehouseCount: 1, ItemCount: 1, OrderCount: 1}, d)
	})

	t.Run("item info and lookup", func(t *testing.T) {
		w := s.json(http.MethodGet, "/item-info/B-1", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var found domain.Item
		decode(t, w, &found)
		assert.Equal(t, item.ID, found.ID)

		w = s.json(http.MethodGet, "/item-info/NOPE", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = s.json(http.MethodGet, "/item-lookup/BREMS-1", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var info response.ItemInfoResponse
		decode(t, w, &info)
		assert.Equal(t, response.ItemInfoResponse{SKU: "BREMS-1", Name: "BOSCH Bremsscheibe", Source: "google", Found: true}, info)
	})

	t.Run("google item info is public", func(t *testing.T) {
		w := s.json(http.MethodGet, "/google-item-info/UNKNOWN-9", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var info response.ItemInfoResponse
		decode(t, w, &info)
		assert.Equal(t, "UNKNOWN-9", info.Name)
		assert.False(t, info.Found)
	})

	t.Run("deleting the warehouse removes its items", func(t *testing.T) {
		w := s.json(http.MethodDelete, fmt.Sprintf("/warehouses/%d", warehouse.ID), token, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = s.json(http.MethodGet, fmt.Sprintf("/items/%d", item.ID), token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAPI_QuantityCap(t *testing.T) {
	s := newTestServer(t)
	token := s.token()

	w := s.json(http.MethodPost, "/warehouses", token, gin.H{"name": "Main"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var warehouse domain.Warehouse
	decode(t, w, &warehouse)

	w = s.json(http.MethodPost, "/items", token, gin.H{"name": "Bolt", "sku": "B-1", "quantity": 1, "warehouse": warehouse.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var item domain.Item
	decode(t, w, &item)

	huge := int64(1) << 40
	for _, tc := range []struct {
		path string
		body gin.H
	}{
		{"/goods-receipts", gin.H{"item": item.ID, "quantity": huge}},
		{"/goods-receipts/touch", gin.H{"sku": "B-1", "quantity": huge}},
		{"/stock-corrections", gin.H{"item": item.ID, "quantity": huge}},
		{"/items", gin.H{"name": "Huge", "sku": "H-1", "quantity": huge, "warehouse": warehouse.ID}},
		{"/orders", gin.H{"order_number": "PO-1", "item": item.ID, "quantity": huge}},
	} {
		w := s.json(http.MethodPost, tc.path, token, tc.body)
		require.Equal(t, http.StatusBadRequest, w.Code, tc.path)

		var res response.Err
		decode(t, w, &res)
		assert.Contains(t, res.Fields, "quantity", tc.path)
	}

	w = s.json(http.MethodPost, "/stock-corrections", token, gin.H{"item": item.ID, "quantity": domain.MaxQuantity - 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.json(http.MethodPost, "/goods-receipts", token, gin.H{"item": item.ID, "quantity": 2})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	var res response.Err
	decode(t, w, &res)
	assert.Contains(t, res.Fields, "quantity")

	w = s.json(http.MethodGet, fmt.Sprintf("/items/%d/stock", item.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stock response.ItemStockResponse
	decode(t, w, &stock)
	assert.Equal(t, domain.MaxQuantity-1, stock.Quantity)
}

func TestAPI_TouchReceipt(t *testing.T) {
	s := newTestServer(t)
	token := s.token()

	w := s.json(http.MethodPost, "/goods-receipts/touch", token, gin.H{"sku": "3017620422003", "quantity": 2})
	require.Equal(t, http.StatusBadRequest, w.Code, "no warehouse to create into")

	w = s.json(http.MethodPost, "/warehouses", token, gin.H{"name": "Kiosk"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.json(http.MethodPost, "/goods-receipts/touch", token, gin.H{"sku": "3017620422003", "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res response.TouchReceiptResponse
	decode(t, w, &res)
	assert.True(t, res.Created)
	assert.Equal(t, "Nutella", res.Item.Name)
	assert.Equal(t, 2, res.Item.Quantity)

	w = s.json(http.MethodPost, "/goods-receipts/touch", token, gin.H{"sku": "3017620422003", "quantity": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &res)
	assert.False(t, res.Created)
	assert.Equal(t, 5, res.Item.Quantity)

	w = s.json(http.MethodPost, "/goods-receipts/touch", token, gin.H{"sku": "UNKNOWN-1", "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, w, &res)
	assert.Equal(t, "UNKNOWN-1", res.Item.Name)
}

func importWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf := &bytes.Buffer{}
	require.NoError(t, f.Write(buf))

	return buf
}

func (s *testServer) upload(token string, workbook *bytes.Buffer) *httptest.ResponseRecorder {
	s.t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "stock.xlsx")
	require.NoError(s.t, err)
	_, err = part.Write(workbook.Bytes())
	require.NoError(s.t, err)
	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	return s.do(req)
}

func TestAPI_ImportExport(t *testing.T) {
	s := newTestServer(t)
	token := s.token()

	t.Run("bad row rejects the whole file", func(t *testing.T) {
		w := s.upload(token, importWorkbook(t, [][]interface{}{
			{"Name", "SKU", "Quantity", "Warehouse"},
			{"Bolt", "B-1", 4, "Main"},
			{"Nut", "N-1", "many", "Main"},
		}))
		require.Equal(t, http.StatusBadRequest, w.Code)

		var res response.Err
		decode(t, w, &res)
		assert.Contains(t, res.ErrorText, "row 3")

		w = s.json(http.MethodGet, "/items", token, nil)
		var items []domain.ItemDetail
		decode(t, w, &items)
		assert.Empty(t, items)
	})

	t.Run("imports every row", func(t *testing.T) {
		w := s.upload(token, importWorkbook(t, [][]interface{}{
			{"Name", "SKU", "Quantity", "Warehouse"},
			{"Bolt", "B-1", 4, "Main"},
			{"Nut", "N-1", 10, "Main"},
		}))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res response.ImportResponse
		decode(t, w, &res)
		assert.Equal(t, 2, res.Imported)
	})

	t.Run("export", func(t *testing.T) {
		w := s.json(http.MethodGet, "/stock/export", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

		f, err := excelize.OpenReader(w.Body)
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Stock")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "Name", rows[0][0])
	})

	t.Run("not a workbook", func(t *testing.T) {
		w := s.upload(token, bytes.NewBufferString("name,sku\n"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestWeb_Pages(t *testing.T) {
	s := newTestServer(t)

	t.Run("pages redirect to the login form", func(t *testing.T) {
		w := s.do(httptest.NewRequest(http.MethodGet, "/items", nil))
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login?next=%2Fitems", w.Header().Get("Location"))
	})

	t.Run("login page", func(t *testing.T) {
		w := s.do(httptest.NewRequest(http.MethodGet, "/login?next=/items", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "Log in")
	})

	login := func(password string) *httptest.ResponseRecorder {
		form := url.Values{"username": {testUsername}, "password": {password}, "next": {"/items"}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return s.do(req)
	}

	t.Run("wrong password stays on the form", func(t *testing.T) {
		w := login("wrong-password")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "wrong username or password")
		assert.Nil(t, sessionCookie(w))
	})

	t.Run("login ignores off-site next", func(t *testing.T) {
		for _, next := range []string{"//evil.example", `/\evil.example`, "https://evil.example"} {
			form := url.Values{"username": {testUsername}, "password": {testPassword}, "next": {next}}
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := s.do(req)
			require.Equal(t, http.StatusSeeOther, w.Code, next)
			assert.Equal(t, "/", w.Header().Get("Location"), next)
		}
	})

	t.Run("missing records are 404 pages", func(t *testing.T) {
		cookie := sessionCookie(login(testPassword))
		require.NotNil(t, cookie)

		form := url.Values{"item": {"9999"}, "quantity": {"2"}}
		req := httptest.NewRequest(http.MethodPost, "/goods-receipt", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)
		w := s.do(req)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "item not found")

		req = httptest.NewRequest(http.MethodGet, "/items/9999/edit", nil)
		req.AddCookie(cookie)
		assert.Equal(t, http.StatusNotFound, s.do(req).Code)
	})

	t.Run("login then browse", func(t *testing.T) {
		w := login(testPassword)
		require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
		assert.Equal(t, "/items", w.Header().Get("Location"))
		cookie := sessionCookie(w)
		require.NotNil(t, cookie)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		w = s.do(req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Dashboard")

		form := url.Values{"name": {"Main"}, "location": {"Hall A"}}
		req = httptest.NewRequest(http.MethodPost, "/warehouses/new", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)
		w = s.do(req)
		require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
		assert.Equal(t, "/", w.Header().Get("Location"))

		req = httptest.NewRequest(http.MethodGet, "/logout", nil)
		req.AddCookie(cookie)
		w = s.do(req)
		require.Equal(t, http.StatusSeeOther, w.Code)

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		assert.Equal(t, http.StatusSeeOther, s.do(req).Code)
	})
}
