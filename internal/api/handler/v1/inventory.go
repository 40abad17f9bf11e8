package v1

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/viastore/viastore/internal/api/handler/v1/request"
	"github.com/viastore/viastore/internal/api/handler/v1/response"
	"github.com/viastore/viastore/internal/domain"
	"github.com/viastore/viastore/internal/lookup"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CatalogService interface {
	Dashboard(ctx context.Context) (domain.Dashboard, error)

	ListWarehouses(ctx context.Context) ([]domain.Warehouse, error)
	GetWarehouse(ctx context.Context, id uint) (domain.Warehouse, error)
	CreateWarehouse(ctx context.Context, w domain.Warehouse) (domain.Warehouse, error)
	UpdateWarehouse(ctx context.Context, w domain.Warehouse) (domain.Warehouse, error)
	DeleteWarehouse(ctx context.Context, id uint) error

	ListItems(ctx context.Context) ([]domain.ItemDetail, error)
	StockListing(ctx context.Context) ([]domain.ItemDetail, error)
	GetItem(ctx context.Context, id uint) (domain.ItemDetail, error)
	CreateItem(ctx context.Context, item domain.Item, reference string) (domain.Item, error)
	UpdateItem(ctx context.Context, item domain.Item, reference string) (domain.Item, error)
	PatchItem(ctx context.Context, id uint, patch domain.ItemPatch, reference string) (domain.Item, error)
	DeleteItem(ctx context.Context, id uint) error

	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id uint) (domain.Order, error)
	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	UpdateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	DeleteOrder(ctx context.Context, id uint) error
}

type LedgerService interface {
	ReceiveGoods(ctx context.Context, itemID uint, quantity int, reference string) (domain.Item, error)
	ReceiveGoodsBySKU(ctx context.Context, sku string, quantity int, reference string) (domain.Item, bool, error)
	CorrectStock(ctx context.Context, itemID uint, quantity int, reference string) (domain.Correction, error)
	LookupBySKU(ctx context.Context, sku string) (domain.Item, error)
	ItemStock(ctx context.Context, itemID uint) (domain.Item, error)
	Movements(ctx context.Context, itemID uint, limit int) ([]domain.StockMovement, error)
}

type SpreadsheetService interface {
	Import(ctx context.Context, r io.Reader, reference string) (int, error)
	Export(ctx context.Context, w io.Writer) error
	Template(w io.Writer) error
}

type InventoryHandler struct {
	catalog CatalogService
	ledger  LedgerService
	sheets  SpreadsheetService
	info    lookup.NameResolver
	google  lookup.NameResolver
}

func NewInventoryHandler(catalog CatalogService, ledger LedgerService, sheets SpreadsheetService, info, google lookup.NameResolver) *InventoryHandler {
	return &InventoryHandler{
		catalog: catalog,
		ledger:  ledger,
		sheets:  sheets,
		info:    info,
		google:  google,
	}
}

// HandleDashboard godoc
// @Summary      Count warehouses, items and orders
// @Tags         dashboard
// @Produce      json
// @Success      200      {object}   domain.Dashboard
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /dashboard [get]
// @Security     BearerAuth
func (h *InventoryHandler) HandleDashboard(ctx *gin.Context) {
	d, err := h.catalog.Dashboard(ctx.Request.Context())
	if err != nil {
		renderErr(ctx, "v1.HandleDashboard -> h.catalog.Dashboard", err, "", nil)
		return
	}

	ctx.JSON(http.StatusOK, d)
}

// HandleListWarehouses godoc
// @Summary      List warehouses
// @Tags         warehouses
// @Produce      json
// @Success      200      {array}    domain.Warehouse
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /warehouses [get]
// @Security     BearerAuth
func (h *InventoryHandler) HandleListWarehouses(ctx *gin.Context) {
	ws, err := h.catalog.ListWarehouses(ctx.Request.Context())
	if err != nil {
		renderErr(ctx, "v1.HandleListWarehouses -> h.catalog.ListWarehouses", err, "", nil)
		return
	}

	ctx.JSON(http.StatusOK, ws)
}

// HandleGetWarehouse godoc
// @Summary      Get a warehouse
// @Tags         warehouses
// @Produce      json
// @Param        id       path       int  true  "warehouse ID"
// @Success      200      {object}   domain.Warehouse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /warehouses/{id} [get]
// @Security     BearerAuth
func (h *InventoryHandler) HandleGetWarehouse(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	w, err := h.catalog.GetWarehouse(ctx.Request.Context(), id)
	if err != nil {
		renderErr(ctx, "v1.HandleGetWarehouse -> h.catalog.GetWarehouse", err, "id", id)
		return
	}

	ctx.JSON(http.StatusOK, w)
}

// HandleCreateWarehouse godoc
// @Summary      Create a warehouse
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        request  body       request.WarehouseRequest true "request body"
// @Success      201      {object}   domain.Warehouse
// @Failure      400      {object}   response.Err
// @Router       /warehouses [post]
// @Security     BearerAuth
func (h *InventoryHandler) HandleCreateWarehouse(ctx *gin.Context) {
	var req request.WarehouseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	w, err := h.catalog.CreateWarehouse(ctx.Request.Context(), req.ToDomain(0))
	if err != nil {
		renderErr(ctx, "v1.HandleCreateWarehouse -> h.catalog.CreateWarehouse", err, "", nil)
		return
	}

	ctx.JSON(http.StatusCreated, w)
}

// HandleUpdateWarehouse godoc
// @Summary      Replace a warehouse
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        id       path       int  true  "warehouse ID"
// @Param        request  body       request.WarehouseRequest true "request body"
// @Success      200      {object}   domain.Warehouse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /warehouses/{id} [put]
// @Security     BearerAuth
func (h *InventoryHandler) HandleUpdateWarehouse(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req request.WarehouseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	w, err := h.catalog.UpdateWarehouse(ctx.Request.Context(), req.ToDomain(id))
	if err != nil {
		renderErr(ctx, "v1.HandleUpdateWarehouse -> h.catalog.UpdateWarehouse", err, "id", id)
		return
	}

	ctx.JSON(http.StatusOK, w)
}

// HandleDeleteWarehouse godoc
// @Summary      Delete a warehouse with its items, their orders and movements
// @Tags         warehouses
// @Param        id       path       int  true  "warehouse ID"
// @Success      204
// @Failure      404      {object}   response.Err
// @Router       /warehouses/{id} [delete]
// @Security     BearerAuth
func (h *InventoryHandler) HandleDeleteWarehouse(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteWarehouse(ctx.Request.Context(), id); err != nil {
		renderErr(ctx, "v1.HandleDeleteWarehouse -> h.catalog.DeleteWarehouse", err, "id", id)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListItems godoc
// @Summary      List items ordered by name
// @Tags         items
// @Produce      json
// @Success      200      {array}    domain.ItemDetail
// @Failure      500      {object}   response.Err
// @Router       /items [get]
// @Security     BearerAuth
func (h *InventoryHandler) HandleListItems(ctx *gin.Context) {
	items, err := h.catalog.ListItems(ctx.Request.Context())
	if err != nil {
		renderErr(ctx, "v1.HandleListItems -> h.catalog.ListItems", err, "", nil)
		return
	}

	ctx.JSON(http.StatusOK, items)
}

// HandleGetItem godoc
// @Summary      Get an item
// @Tags         items
// @Produce      json
// @Param        id       path       int  true  "item ID"
// @Success      200      {object}   domain.ItemDetail
// @Failure      404      {object}   response.Err
// @Router       /items/{id} [get]
// @Security     BearerAuth
func (h *InventoryHandler) HandleGetItem(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	item, err := h.catalog.GetItem(ctx.Request.Context(), id)
	if err != nil {
		renderErr(ctx, "v1.HandleGetItem -> h.catalog.GetItem", err, "id", id)
		return
	}

	ctx.JSON(http.StatusOK, item)
}

// HandleCreateItem godoc
// @Summary      Create an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        request  body       request.ItemRequest true "request body"
// @Success      201      {object}   domain.Item
// @Failure      400      {object}   response.Err
// @Router       /items [post]
// @Security     BearerAuth
func (h *InventoryHandler) HandleCreateItem(ctx *gin.Context) {
	var req request.ItemRequest
	if !bindJSON(ctx, &req) {
		return
	}

	item, err := h.catalog.CreateItem(ctx.Request.Context(), req.ToDomain(0), reference)
	if err != nil {
		renderErr(ctx, "v1.HandleCreateItem -> h.catalog.CreateItem", err, "", nil)
		return
	}

	ctx.JSON(http.StatusCreated, item)
}

// HandleUpdateItem godoc
// @Summary      Replace an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id       path       int  true  "item ID"
// @Param        request  body       request.ItemRequest true "request body"
// @Success      200      {object}   domain.Item
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /items/{id} [put]
// @Security     BearerAuth
func (h *InventoryHandler) HandleUpdateItem(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req request.ItemRequest
	if !bindJSON(ctx, &req) {
		return
	}

	item, err := h.catalog.UpdateItem(ctx.Request.Context(), req.ToDomain(id), reference)
	if err != nil {
		renderErr(ctx, "v1.HandleUpdateItem -> h.catalog.UpdateItem", err, "id", id)
		return
	}

	ctx.JSON(http.StatusOK, item)
}

// HandlePatchItem godoc
// @Summary      Change some fields of an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id       path       int  true  "item ID"
// @Param        request  body       request.ItemPatchRequest true "request body"
// @Success      200      {object}   domain.Item
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /items/{id} [patch]
// @Security     BearerAuth
func (h *InventoryHandler) HandlePatchItem(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req request.ItemPatchRequest
	if !bindJSON(ctx, &req) {
		return
	}

	item, err := h.catalog.PatchItem(ctx.Request.Context(), id, req.ToDomain(), reference)
	if err != nil {
		renderErr(ctx, "v1.HandlePatchItem -> h.catalog.PatchItem", err, "id", id)
		return
	}

	ctx.JSON(http.StatusOK, item)
}

// HandleDeleteItem godoc
// @Summary      Delete an item with its orders and movements
// @Tags         items
// @Param        id       path       int  true  "item ID"
// @Success      204
// @Failure      404      {object}   response.Err
// @Router       /items/{id} [delete]
// @Security     BearerAuth
func (h *InventoryHandler) HandleDeleteItem(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteItem(ctx.Request.Context(), id); err != nil {
		renderErr(ctx, "v1.HandleDeleteItem -> h.catalog.DeleteItem", err, "id", id)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleItemStock godoc
// @Summary      Current stock of one item
// @Tags         stock
// @Produce      json
// @Param        id       path       int  true  "item ID"
// @Success      200      {object}   response.ItemStockResponse
// @Failure      404      {object}   response.Err
// @Router       /items/{id}/stock [get]
// @Security     BearerAuth
func (h *InventoryHandler) HandleItemStock(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	item, err := h.ledger.ItemStock(ctx.Request.Context(), id)
	if err != nil {
		renderErr(ctx, "v1.HandleItemStock -> h.ledger.ItemStock", err, "id", id)
		return
	}

	ctx.JSON(http.StatusOK, response.ItemStockResponse{
		Name:     item.Name,
		SKU:      item.SKU,
		Quantity: item.Quantity,
	})
}

// HandleItemMovements godoc
// @Summary      Latest stock movements of one item
// @Tags         stock
// @Produce      json
// @Param        id       path       int  true   "item ID"
// @Param        limit    query      int  false  "max movements (default 50)"
// @Success      200      {array}    domain.StockMovement
// @Failure      404      {object}   response.Err
// @Router       /items/{id}/movements [get]
// @Security     BearerAuth
func (h *InventoryHandler) HandleItemMovements(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "0"))

	ms, err := h.ledger.Movements(ctx.Request.Context(), id, limit)
	if err != nil {
		renderErr(ctx, "v1.HandleItemMovements -> h.ledger.Movements", err, "id", id)
		return
	}

	ctx.JSON(http.StatusOK, ms)
}

// HandleItemInfo godoc
// @Summary      Find a catalog item by SKU
// @Tags         items
// @Produce      json
// @Param        sku      path       string  true  "SKU"
// @Success      200      {object}   domain.Item
// @Failure      404      {object}   response.Err
// @Router       /item-info/{sku} [get]
// @Security     BearerAuth
func (h *InventoryHandler) HandleItemInfo(ctx *gin.Context) {
	sku := ctx.Param("sku")

	item, err := h.ledger.LookupBySKU(ctx.Request.Context(), sku)
	if err != nil {
		renderErr(ctx, "v1.HandleItemInfo -> h.ledger.LookupBySKU", err, "sku", sku)
		return
	}

	ctx.JSON(http.StatusOK, item)
}

// HandleItemLookup godoc
// @Summary      Resolve a display name for a SKU
// @Description  Tries the catalog, then external sources. Falls back to the SKU itself.
// @Tags         items
// @Produce      json
// @Param        sku      path       string  true  "SKU"
// @Success      200      {object}   response.ItemInfoResponse
// @Router       /item-lookup/{sku} [get]
// @Security     BearerAuth
func (h *InventoryHandler) HandleItemLookup(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, resolve(ctx, h.info))
}

// HandleGoogleItemInfo godoc
// @Summary      Resolve a display name for a SKU through web search
// @Tags         items
// @Produce      json
// @Param        sku      path       string  true  "SKU"
// @Success      200      {object}   response.ItemInfoResponse
// @Router       /google-item-info/{sku} [get]
func (h *InventoryHandler) HandleGoogleItemInfo(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, resolve(ctx, h.google))
}

func resolve(ctx *gin.Context, r lookup.NameResolver) response.ItemInfoResponse {
	sku := ctx.Param("sku")
	res := r.Resolve(ctx.Request.Context(), sku)

	return response.ItemInfoResponse{
		SKU:    sku,
		Name:   res.Name,
		Source: res.Source,
		Found:  res.Found(),
	}
}

// HandleListOrders godoc
// @Summary      List orders, newest first
// @Tags         orders
// @Produce      json
// @Success      200      {array}    domain.Order
// @Failure      500      {object}   response.Err
// @Router       /orders [get]
// @Security     BearerAuth
func (h *InventoryHandler) HandleListOrders(ctx *gin.Context) {
	orders, err := h.catalog.ListOrders(ctx.Request.Context())
	if err != nil {
		renderErr(ctx, "v1.HandleListOrders -> h.catalog.ListOrders", err, "", nil)
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

// HandleGetOrder godoc
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id       path       int  true  "order ID"
// @Success      200      {object}   domain.Order
// @Failure      404      {object}   response.Err
// @Router       /orders/{id} [get]
// @Security     BearerAuth
func (h *InventoryHandler) HandleGetOrder(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	order, err := h.catalog.GetOrder(ctx.Request.Context(), id)
	if err != nil {
		renderErr(ctx, "v1.HandleGetOrder -> h.catalog.GetOrder", err, "id", id)
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// HandleCreateOrder godoc
// @Summary      Create an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request  body       request.OrderRequest true "request body"
// @Success      201      {object}   domain.Order
// @Failure      400      {object}   response.Err
// @Router       /orders [post]
// @Security     BearerAuth
func (h *InventoryHandler) HandleCreateOrder(ctx *gin.Context) {
	var req request.OrderRequest
	if !bindJSON(ctx, &req) {
		return
	}

	order, err := h.catalog.CreateOrder(ctx.Request.Context(), req.ToDomain(0))
	if err != nil {
		renderErr(ctx, "v1.HandleCreateOrder -> h.catalog.CreateOrder", err, "", nil)
		return
	}

	ctx.JSON(http.StatusCreated, order)
}

// HandleUpdateOrder godoc
// @Summary      Replace an order; the order date is kept
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id       path       int  true  "order ID"
// @Param        request  body       request.OrderRequest true "request body"
// @Success      200      {object}   domain.Order
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /orders/{id} [put]
// @Security     BearerAuth
func (h *InventoryHandler) HandleUpdateOrder(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req request.OrderRequest
	if !bindJSON(ctx, &req) {
		return
	}

	order, err := h.catalog.UpdateOrder(ctx.Request.Context(), req.ToDomain(id))
	if err != nil {
		renderErr(ctx, "v1.HandleUpdateOrder -> h.catalog.UpdateOrder", err, "id", id)
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// HandleDeleteOrder godoc
// @Summary      Delete an order
// @Tags         orders
// @Param        id       path       int  true  "order ID"
// @Success      204
// @Failure      404      {object}   response.Err
// @Router       /orders/{id} [delete]
// @Security     BearerAuth
func (h *InventoryHandler) HandleDeleteOrder(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteOrder(ctx.Request.Context(), id); err != nil {
		renderErr(ctx, "v1.HandleDeleteOrder -> h.catalog.DeleteOrder", err, "id", id)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGoodsReceipt godoc
// @Summary      Book received goods onto an item
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request  body       request.GoodsReceiptRequest true "request body"
// @Success      200      {object}   domain.Item
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /goods-receipts [post]
// @Security     BearerAuth
func (h *InventoryHandler) HandleGoodsReceipt(ctx *gin.Context) {
	var req request.GoodsReceiptRequest
	if !bindJSON(ctx, &req) {
		return
	}

	item, err := h.ledger.ReceiveGoods(ctx.Request.Context(), req.Item, req.Quantity, reference)
	if err != nil {
		renderErr(ctx, "v1.HandleGoodsReceipt -> h.ledger.ReceiveGoods", err, "id", req.Item)
		return
	}

	ctx.JSON(http.StatusOK, item)
}

// HandleTouchReceipt godoc
// @Summary      Book received goods by SKU
// @Description  Unknown SKUs become new items in the first warehouse, named by external lookup.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request  body       request.TouchReceiptRequest true "request body"
// @Success      200      {object}   response.TouchReceiptResponse
// @Success      201      {object}   response.TouchReceiptResponse
// @Failure      400      {object}   response.Err
// @Router       /goods-receipts/touch [post]
// @Security     BearerAuth
func (h *InventoryHandler) HandleTouchReceipt(ctx *gin.Context) {
	var req request.TouchReceiptRequest
	if !bindJSON(ctx, &req) {
		return
	}

	item, created, err := h.ledger.ReceiveGoodsBySKU(ctx.Request.Context(), req.SKU, req.Quantity, "touch")
	if err != nil {
		renderErr(ctx, "v1.HandleTouchReceipt -> h.ledger.ReceiveGoodsBySKU", err, "sku", req.SKU)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ctx.JSON(status, response.TouchReceiptResponse{Item: item, Created: created})
}

// HandleStockCorrection godoc
// @Summary      Overwrite the quantity of an item
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request  body       request.StockCorrectionRequest true "request body"
// @Success      200      {object}   domain.Correction
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /stock-corrections [post]
// @Security     BearerAuth
func (h *InventoryHandler) HandleStockCorrection(ctx *gin.Context) {
	var req request.StockCorrectionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	c, err := h.ledger.CorrectStock(ctx.Request.Context(), req.Item, *req.Quantity, reference)
	if err != nil {
		renderErr(ctx, "v1.HandleStockCorrection -> h.ledger.CorrectStock", err, "id", req.Item)
		return
	}

	ctx.JSON(http.StatusOK, c)
}

// HandleStockListing godoc
// @Summary      Every item with its warehouse
// @Tags         stock
// @Produce      json
// @Success      200      {array}    domain.ItemDetail
// @Failure      500      {object}   response.Err
// @Router       /stock [get]
// @Security     BearerAuth
func (h *InventoryHandler) HandleStockListing(ctx *gin.Context) {
	items, err := h.catalog.StockListing(ctx.Request.Context())
	if err != nil {
		renderErr(ctx, "v1.HandleStockListing -> h.catalog.StockListing", err, "", nil)
		return
	}

	ctx.JSON(http.StatusOK, items)
}

// HandleStockExport godoc
// @Summary      Download the stock listing as xlsx
// @Tags         stock
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200      {file}     file
// @Failure      500      {object}   response.Err
// @Router       /stock/export [get]
// @Security     BearerAuth
func (h *InventoryHandler) HandleStockExport(ctx *gin.Context) {
	var buf bytes.Buffer
	if err := h.sheets.Export(ctx.Request.Context(), &buf); err != nil {
		renderErr(ctx, "v1.HandleStockExport -> h.sheets.Export", err, "", nil)
		return
	}

	sendXLSX(ctx, "stock.xlsx", buf.Bytes())
}

// HandleImport godoc
// @Summary      Import items from an xlsx workbook
// @Description  Columns: name, SKU, quantity, warehouse. Row 1 is a header. Quantities replace stored ones.
// @Tags         stock
// @Accept       multipart/form-data
// @Produce      json
// @Param        file     formData   file  true  "xlsx workbook"
// @Success      200      {object}   response.ImportResponse
// @Failure      400      {object}   response.Err
// @Router       /imports [post]
// @Security     BearerAuth
func (h *InventoryHandler) HandleImport(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		response.RenderErr(ctx, response.ErrValidation(err, map[string]string{"file": "an xlsx file is required"}))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("cannot open upload: %w", err)))
		return
	}
	defer file.Close()

	n, err := h.sheets.Import(ctx.Request.Context(), file, "import:"+header.Filename)
	if err != nil {
		renderErr(ctx, "v1.HandleImport -> h.sheets.Import", err, "", nil)
		return
	}

	ctx.JSON(http.StatusOK, response.ImportResponse{Imported: n})
}

// HandleImportTemplate godoc
// @Summary      Download an empty import workbook
// @Tags         stock
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200      {file}     file
// @Router       /imports/template [get]
// @Security     BearerAuth
func (h *InventoryHandler) HandleImportTemplate(ctx *gin.Context) {
	var buf bytes.Buffer
	if err := h.sheets.Template(&buf); err != nil {
		renderErr(ctx, "v1.HandleImportTemplate -> h.sheets.Template", err, "", nil)
		return
	}

	sendXLSX(ctx, "import-template.xlsx", buf.Bytes())
}

func sendXLSX(ctx *gin.Context, filename string, data []byte) {
	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(http.StatusOK, xlsxContentType, data)
}

type validatable interface {
	Validate() error
}

func bindJSON(ctx *gin.Context, req validatable) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid JSON body")))
		return false
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return false
	}

	return true
}
