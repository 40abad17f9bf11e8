package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/viastore/viastore/internal/api/handler/v1/request"
	"github.com/viastore/viastore/internal/api/middleware"
	"github.com/viastore/viastore/internal/domain"
	"github.com/viastore/viastore/internal/service"
)

func (h *Handler) LoginPage(ctx *gin.Context) {
	h.render(ctx, http.StatusOK, "login.html", page{
		Title: "Log in",
		Form:  gin.H{"Next": ctx.Query("next")},
	})
}

func (h *Handler) Login(ctx *gin.Context) {
	var req request.LoginRequest
	next := ctx.PostForm("next")
	p := page{Title: "Log in", Form: gin.H{"Username": ctx.PostForm("username"), "Next": next}}

	if err := ctx.ShouldBind(&req); err != nil {
		h.fail(ctx, "login.html", p, bindError(err))
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(ctx, "login.html", p, err)
		return
	}

	user, err := h.auth.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrWrongPassword) {
			p.Errors = map[string]string{"form": "wrong username or password"}
			h.render(ctx, http.StatusUnauthorized, "login.html", p)
			return
		}
		h.fail(ctx, "login.html", p, err)
		return
	}

	sess, err := h.sessions.Create(ctx.Request.Context(), user.ID)
	if err != nil {
		h.fail(ctx, "login.html", p, err)
		return
	}

	middleware.SetSessionCookie(ctx, sess, h.conf.CookieSecure)
	ctx.Redirect(http.StatusSeeOther, safeNext(next))
}

func (h *Handler) Logout(ctx *gin.Context) {
	if id := ctx.GetString(middleware.SessionIDKey); id != "" {
		if err := h.sessions.Delete(ctx.Request.Context(), id); err != nil {
			zap.L().Error("session delete failed", zap.Error(err))
			ctx.String(http.StatusInternalServerError, "could not log out, please try again")
			return
		}
	}

	middleware.ClearSessionCookie(ctx, h.conf.CookieSecure)
	ctx.Redirect(http.StatusSeeOther, "/login")
}

func (h *Handler) Dashboard(ctx *gin.Context) {
	d, err := h.catalog.Dashboard(ctx.Request.Context())
	if err != nil {
		h.fail(ctx, "dashboard.html", page{}, err)
		return
	}

	h.render(ctx, http.StatusOK, "dashboard.html", page{Title: "Dashboard", Data: d})
}

func (h *Handler) NewWarehousePage(ctx *gin.Context) {
	h.render(ctx, http.StatusOK, "warehouse_form.html", page{Title: "New warehouse", Form: request.WarehouseRequest{}})
}

func (h *Handler) CreateWarehouse(ctx *gin.Context) {
	var req request.WarehouseRequest
	p := page{Title: "New warehouse"}

	if err := ctx.ShouldBind(&req); err != nil {
		p.Form = req
		h.fail(ctx, "warehouse_form.html", p, bindError(err))
		return
	}
	p.Form = req

	if err := req.Validate(); err != nil {
		h.fail(ctx, "warehouse_form.html", p, err)
		return
	}

	w, err := h.catalog.CreateWarehouse(ctx.Request.Context(), req.ToDomain(0))
	if err != nil {
		h.fail(ctx, "warehouse_form.html", p, err)
		return
	}

	h.redirect(ctx, "/", fmt.Sprintf("Warehouse %q created.", w.Name))
}

func (h *Handler) Items(ctx *gin.Context) {
	items, err := h.catalog.ListItems(ctx.Request.Context())
	if err != nil {
		h.fail(ctx, "items.html", page{}, err)
		return
	}

	h.render(ctx, http.StatusOK, "items.html", page{Title: "Items", Data: items})
}

// itemForm is the data of the create and edit item pages.
type itemForm struct {
	ID         uint
	Item       request.ItemRequest
	Warehouses []domain.Warehouse
}

func (h *Handler) NewItemPage(ctx *gin.Context) {
	h.itemPage(ctx, http.StatusOK, page{Title: "New item"}, itemForm{})
}

func (h *Handler) CreateItem(ctx *gin.Context) {
	var req request.ItemRequest
	if err := ctx.ShouldBind(&req); err != nil {
		h.itemFail(ctx, page{Title: "New item"}, itemForm{Item: req}, bindError(err))
		return
	}
	if err := req.Validate(); err != nil {
		h.itemFail(ctx, page{Title: "New item"}, itemForm{Item: req}, err)
		return
	}

	item, err := h.catalog.CreateItem(ctx.Request.Context(), req.ToDomain(0), reference)
	if err != nil {
		h.itemFail(ctx, page{Title: "New item"}, itemForm{Item: req}, err)
		return
	}

	h.redirect(ctx, "/items", fmt.Sprintf("Item %q created.", item.Name))
}

func (h *Handler) EditItemPage(ctx *gin.Context) {
	id, ok := h.itemID(ctx)
	if !ok {
		return
	}

	item, err := h.catalog.GetItem(ctx.Request.Context(), id)
	if err != nil {
		h.notFoundOr(ctx, err)
		return
	}

	h.itemPage(ctx, http.StatusOK, page{Title: "Edit item"}, itemForm{
		ID: id,
		Item: request.ItemRequest{
			Name:      item.Name,
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			Warehouse: item.WarehouseID,
		},
	})
}

func (h *Handler) UpdateItem(ctx *gin.Context) {
	id, ok := h.itemID(ctx)
	if !ok {
		return
	}

	var req request.ItemRequest
	if err := ctx.ShouldBind(&req); err != nil {
		h.itemFail(ctx, page{Title: "Edit item"}, itemForm{ID: id, Item: req}, bindError(err))
		return
	}
	if err := req.Validate(); err != nil {
		h.itemFail(ctx, page{Title: "Edit item"}, itemForm{ID: id, Item: req}, err)
		return
	}

	item, err := h.catalog.UpdateItem(ctx.Request.Context(), req.ToDomain(id), reference)
	if err != nil {
		if _, _, ok := notFound(err); ok {
			h.notFoundOr(ctx, err)
			return
		}
		h.itemFail(ctx, page{Title: "Edit item"}, itemForm{ID: id, Item: req}, err)
		return
	}

	h.redirect(ctx, "/items", fmt.Sprintf("Item %q saved.", item.Name))
}

func (h *Handler) DeleteItemPage(ctx *gin.Context) {
	id, ok := h.itemID(ctx)
	if !ok {
		return
	}

	item, err := h.catalog.GetItem(ctx.Request.Context(), id)
	if err != nil {
		h.notFoundOr(ctx, err)
		return
	}

	h.render(ctx, http.StatusOK, "item_delete.html", page{Title: "Delete item", Data: item})
}

func (h *Handler) DeleteItem(ctx *gin.Context) {
	id, ok := h.itemID(ctx)
	if !ok {
		return
	}

	if err := h.catalog.DeleteItem(ctx.Request.Context(), id); err != nil {
		h.notFoundOr(ctx, err)
		return
	}

	h.redirect(ctx, "/items", "Item deleted.")
}

func (h *Handler) itemPage(ctx *gin.Context, status int, p page, form itemForm) {
	ws, err := h.catalog.ListWarehouses(ctx.Request.Context())
	if err != nil {
		h.fail(ctx, "item_form.html", p, err)
		return
	}

	form.Warehouses = ws
	p.Form = form
	h.render(ctx, status, "item_form.html", p)
}

func (h *Handler) itemFail(ctx *gin.Context, p page, form itemForm, err error) {
	ws, lerr := h.catalog.ListWarehouses(ctx.Request.Context())
	if lerr != nil {
		h.fail(ctx, "item_form.html", p, lerr)
		return
	}

	form.Warehouses = ws
	p.Form = form
	h.fail(ctx, "item_form.html", p, err)
}

func (h *Handler) itemID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil || id == 0 {
		ctx.String(http.StatusNotFound, "item not found")
		return 0, false
	}

	return uint(id), true
}

func (h *Handler) notFoundOr(ctx *gin.Context, err error) {
	if _, msg, ok := notFound(err); ok {
		ctx.String(http.StatusNotFound, msg)
		return
	}

	h.fail(ctx, "items.html", page{}, err)
}

func (h *Handler) Orders(ctx *gin.Context) {
	orders, err := h.catalog.ListOrders(ctx.Request.Context())
	if err != nil {
		h.fail(ctx, "orders.html", page{}, err)
		return
	}

	h.render(ctx, http.StatusOK, "orders.html", page{Title: "Orders", Data: orders})
}

func (h *Handler) NewOrderPage(ctx *gin.Context) {
	h.itemChoicePage(ctx, http.StatusOK, "order_form.html", page{Title: "New order", Form: request.OrderRequest{}}, nil)
}

func (h *Handler) CreateOrder(ctx *gin.Context) {
	var req request.OrderRequest
	p := page{Title: "New order"}

	if err := ctx.ShouldBind(&req); err != nil {
		p.Form = req
		h.itemChoicePage(ctx, http.StatusBadRequest, "order_form.html", p, bindError(err))
		return
	}
	p.Form = req

	if err := req.Validate(); err != nil {
		h.itemChoicePage(ctx, http.StatusBadRequest, "order_form.html", p, err)
		return
	}

	order, err := h.catalog.CreateOrder(ctx.Request.Context(), req.ToDomain(0))
	if err != nil {
		h.itemChoicePage(ctx, http.StatusBadRequest, "order_form.html", p, err)
		return
	}

	h.redirect(ctx, "/orders", fmt.Sprintf("Order %s created.", order.OrderNumber))
}

func (h *Handler) GoodsReceiptPage(ctx *gin.Context) {
	h.itemChoicePage(ctx, http.StatusOK, "goods_receipt.html", page{Title: "Goods receipt", Form: request.GoodsReceiptRequest{}}, nil)
}

func (h *Handler) GoodsReceipt(ctx *gin.Context) {
	var req request.GoodsReceiptRequest
	p := page{Title: "Goods receipt"}

	if err := ctx.ShouldBind(&req); err != nil {
		p.Form = req
		h.itemChoicePage(ctx, http.StatusBadRequest, "goods_receipt.html", p, bindError(err))
		return
	}
	p.Form = req

	if err := req.Validate(); err != nil {
		h.itemChoicePage(ctx, http.StatusBadRequest, "goods_receipt.html", p, err)
		return
	}

	item, err := h.ledger.ReceiveGoods(ctx.Request.Context(), req.Item, req.Quantity, reference)
	if err != nil {
		h.itemChoicePage(ctx, http.StatusBadRequest, "goods_receipt.html", p, err)
		return
	}

	h.redirect(ctx, "/goods-receipt", fmt.Sprintf("Received %d x %s, now %d in stock.", req.Quantity, item.Name, item.Quantity))
}

func (h *Handler) StockCorrectionPage(ctx *gin.Context) {
	h.itemChoicePage(ctx, http.StatusOK, "stock_correction.html", page{Title: "Stock correction", Form: request.StockCorrectionRequest{}}, nil)
}

func (h *Handler) StockCorrection(ctx *gin.Context) {
	var req request.StockCorrectionRequest
	p := page{Title: "Stock correction"}

	if err := ctx.ShouldBind(&req); err != nil {
		p.Form = req
		h.itemChoicePage(ctx, http.StatusBadRequest, "stock_correction.html", p, bindError(err))
		return
	}
	p.Form = req

	if err := req.Validate(); err != nil {
		h.itemChoicePage(ctx, http.StatusBadRequest, "stock_correction.html", p, err)
		return
	}

	c, err := h.ledger.CorrectStock(ctx.Request.Context(), req.Item, *req.Quantity, reference)
	if err != nil {
		h.itemChoicePage(ctx, http.StatusBadRequest, "stock_correction.html", p, err)
		return
	}

	h.redirect(ctx, "/stock-correction",
		fmt.Sprintf("Stock of %s corrected from %d to %d.", c.Item.Name, c.OldQuantity, c.NewQuantity))
}

// itemChoicePage renders a form that picks an item from a list. A non-nil
// err is shown on the form.
func (h *Handler) itemChoicePage(ctx *gin.Context, status int, name string, p page, err error) {
	items, lerr := h.catalog.ListItems(ctx.Request.Context())
	if lerr != nil {
		h.fail(ctx, name, p, lerr)
		return
	}
	p.Data = items

	if err != nil {
		h.fail(ctx, name, p, err)
		return
	}

	h.render(ctx, status, name, p)
}

func (h *Handler) TouchPage(ctx *gin.Context) {
	h.render(ctx, http.StatusOK, "touch.html", page{Title: "Touch receipt", Form: request.TouchReceiptRequest{Quantity: 1}})
}

func (h *Handler) Touch(ctx *gin.Context) {
	var req request.TouchReceiptRequest
	p := page{Title: "Touch receipt"}

	if err := ctx.ShouldBind(&req); err != nil {
		p.Form = req
		h.fail(ctx, "touch.html", p, bindError(err))
		return
	}
	p.Form = req

	if err := req.Validate(); err != nil {
		h.fail(ctx, "touch.html", p, err)
		return
	}

	item, created, err := h.ledger.ReceiveGoodsBySKU(ctx.Request.Context(), req.SKU, req.Quantity, touchReference)
	if err != nil {
		h.fail(ctx, "touch.html", p, err)
		return
	}

	msg := fmt.Sprintf("Received %d x %s, now %d in stock.", req.Quantity, item.Name, item.Quantity)
	if created {
		msg = fmt.Sprintf("New item %s (%s) created. ", item.Name, item.SKU) + msg
	}
	h.redirect(ctx, "/touch", msg)
}

func (h *Handler) Stock(ctx *gin.Context) {
	items, err := h.catalog.StockListing(ctx.Request.Context())
	if err != nil {
		h.fail(ctx, "stock.html", page{}, err)
		return
	}

	h.render(ctx, http.StatusOK, "stock.html", page{Title: "Stock", Data: items})
}

func (h *Handler) ImportPage(ctx *gin.Context) {
	h.render(ctx, http.StatusOK, "import.html", page{Title: "Import"})
}

func (h *Handler) Import(ctx *gin.Context) {
	p := page{Title: "Import"}

	header, err := ctx.FormFile("file")
	if err != nil {
		p.Errors = map[string]string{"file": "choose an xlsx file to upload"}
		h.render(ctx, http.StatusBadRequest, "import.html", p)
		return
	}

	file, err := header.Open()
	if err != nil {
		h.fail(ctx, "import.html", p, err)
		return
	}
	defer file.Close()

	n, err := h.sheets.Import(ctx.Request.Context(), file, "import:"+header.Filename)
	if err != nil {
		h.fail(ctx, "import.html", p, err)
		return
	}

	h.redirect(ctx, "/stock", fmt.Sprintf("%d rows imported from %s.", n, header.Filename))
}

// bindError turns a form binding failure into a form-level message.
func bindError(err error) error {
	return &service.FieldError{Field: "form", Err: fmt.Errorf("the form could not be read: %w", err)}
}
