// Package web serves the HTML pages of the inventory UI. Every page except
// the login form requires a session cookie.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"

	"github.com/viastore/viastore/internal/api/middleware"
	"github.com/viastore/viastore/internal/config"
	"github.com/viastore/viastore/internal/domain"
	"github.com/viastore/viastore/internal/service"
	"github.com/viastore/viastore/internal/session"
)

const (
	reference      = "web"
	touchReference = "touch"
	flashCookie    = "viastore_flash"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates for gin's HTML renderer.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"field": func(errs map[string]string, name string) string {
			return errs[name]
		},
	}).ParseFS(templateFS, "templates/*.html")
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (domain.User, error)
}

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

type CatalogService interface {
	Dashboard(ctx context.Context) (domain.Dashboard, error)
	ListWarehouses(ctx context.Context) ([]domain.Warehouse, error)
	CreateWarehouse(ctx context.Context, w domain.Warehouse) (domain.Warehouse, error)
	ListItems(ctx context.Context) ([]domain.ItemDetail, error)
	StockListing(ctx context.Context) ([]domain.ItemDetail, error)
	GetItem(ctx context.Context, id uint) (domain.ItemDetail, error)
	CreateItem(ctx context.Context, item domain.Item, reference string) (domain.Item, error)
	UpdateItem(ctx context.Context, item domain.Item, reference string) (domain.Item, error)
	DeleteItem(ctx context.Context, id uint) error
	ListOrders(ctx context.Context) ([]domain.Order, error)
	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
}

type LedgerService interface {
	ReceiveGoods(ctx context.Context, itemID uint, quantity int, reference string) (domain.Item, error)
	ReceiveGoodsBySKU(ctx context.Context, sku string, quantity int, reference string) (domain.Item, bool, error)
	CorrectStock(ctx context.Context, itemID uint, quantity int, reference string) (domain.Correction, error)
}

type SpreadsheetService interface {
	Import(ctx context.Context, r io.Reader, reference string) (int, error)
}

type Handler struct {
	conf     *config.APIConfig
	auth     AuthService
	users    UserService
	sessions session.Store
	catalog  CatalogService
	ledger   LedgerService
	sheets   SpreadsheetService
}

func NewHandler(conf *config.APIConfig, auth AuthService, users UserService, sessions session.Store,
	catalog CatalogService, ledger LedgerService, sheets SpreadsheetService) *Handler {
	return &Handler{
		conf:     conf,
		auth:     auth,
		users:    users,
		sessions: sessions,
		catalog:  catalog,
		ledger:   ledger,
		sheets:   sheets,
	}
}

// Mount registers the public login routes on r and every other page on
// protected.
func (h *Handler) Mount(r gin.IRoutes, protected gin.IRoutes) {
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)

	protected.GET("/logout", h.Logout)
	protected.POST("/logout", h.Logout)
	protected.GET("/", h.Dashboard)
	protected.GET("/warehouses/new", h.NewWarehousePage)
	protected.POST("/warehouses/new", h.CreateWarehouse)
	protected.GET("/items", h.Items)
	protected.GET("/items/new", h.NewItemPage)
	protected.POST("/items/new", h.CreateItem)
	protected.GET("/items/:id/edit", h.EditItemPage)
	protected.POST("/items/:id/edit", h.UpdateItem)
	protected.GET("/items/:id/delete", h.DeleteItemPage)
	protected.POST("/items/:id/delete", h.DeleteItem)
	protected.GET("/orders", h.Orders)
	protected.GET("/orders/new", h.NewOrderPage)
	protected.POST("/orders/new", h.CreateOrder)
	protected.GET("/goods-receipt", h.GoodsReceiptPage)
	protected.POST("/goods-receipt", h.GoodsReceipt)
	protected.GET("/touch", h.TouchPage)
	protected.POST("/touch", h.Touch)
	protected.GET("/stock-correction", h.StockCorrectionPage)
	protected.POST("/stock-correction", h.StockCorrection)
	protected.GET("/stock", h.Stock)
	protected.GET("/import", h.ImportPage)
	protected.POST("/import", h.Import)
}

// page is the data every template receives.
type page struct {
	Title  string
	User   domain.User
	Flash  string
	Errors map[string]string
	Form   any
	Data   any
}

func (h *Handler) render(ctx *gin.Context, status int, name string, p page) {
	if userID := ctx.GetUint(middleware.UserIDKey); userID != 0 {
		if user, err := h.users.GetUser(ctx.Request.Context(), userID); err == nil {
			p.User = user
		}
	}
	if p.Flash == "" {
		p.Flash = takeFlash(ctx)
	}

	ctx.HTML(status, name, p)
}

// fail renders the page again with field messages for validation errors,
// with a 404 status for missing records and a 500 page for anything else.
func (h *Handler) fail(ctx *gin.Context, name string, p page, err error) {
	var (
		ve       validation.Errors
		fieldErr *service.FieldError
		rowErr   *service.RowError
	)

	if field, msg, ok := notFound(err); ok {
		p.Errors = map[string]string{field: msg}
		h.render(ctx, http.StatusNotFound, name, p)
		return
	}

	switch {
	case errors.As(err, &ve):
		p.Errors = make(map[string]string, len(ve))
		for k, v := range ve {
			if v != nil {
				p.Errors[k] = v.Error()
			}
		}
	case errors.As(err, &fieldErr):
		p.Errors = map[string]string{fieldErr.Field: fieldErr.Err.Error()}
	case errors.Is(err, service.ErrNoWarehouseAvailable):
		p.Errors = map[string]string{"form": service.ErrNoWarehouseAvailable.Error()}
	case service.IsImportRejection(err) && errors.As(err, &rowErr):
		p.Errors = map[string]string{"file": rowErr.Error()}
	case service.IsImportRejection(err):
		p.Errors = map[string]string{"file": err.Error()}
	default:
		zap.L().Error("web request failed", zap.String("path", ctx.FullPath()), zap.Error(err))
		ctx.String(http.StatusInternalServerError, "something went wrong, please try again later")
		return
	}

	h.render(ctx, http.StatusBadRequest, name, p)
}

func (h *Handler) redirect(ctx *gin.Context, to, flash string) {
	if flash != "" {
		ctx.SetSameSite(http.SameSiteLaxMode)
		ctx.SetCookie(flashCookie, url.QueryEscape(flash), 60, "/", "", h.conf.CookieSecure, true)
	}
	ctx.Redirect(http.StatusSeeOther, to)
}

func takeFlash(ctx *gin.Context) string {
	v, err := ctx.Cookie(flashCookie)
	if err != nil || v == "" {
		return ""
	}
	ctx.SetCookie(flashCookie, "", -1, "/", "", false, true)

	msg, err := url.QueryUnescape(v)
	if err != nil {
		return ""
	}

	return msg
}

// notFound reports which form field a missing-record error belongs to.
func notFound(err error) (field, message string, ok bool) {
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		return "item", service.ErrItemNotFound.Error(), true
	case errors.Is(err, service.ErrWarehouseNotFound):
		return "warehouse", service.ErrWarehouseNotFound.Error(), true
	case errors.Is(err, service.ErrOrderNotFound):
		return "form", service.ErrOrderNotFound.Error(), true
	}

	return "", "", false
}

// safeNext keeps post-login redirects on this site: only a path without a
// host is accepted. Browsers treat a backslash like a slash.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.ContainsRune(next, '\\') {
		return "/"
	}

	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" || u.User != nil {
		return "/"
	}

	return next
}
