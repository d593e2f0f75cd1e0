package handler

import (
	"net/http"

	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/apierror"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/dto"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	svc      service.InventoryService
	transfer service.TransferService
}

func NewInventoryHandler(svc service.InventoryService, transfer service.TransferService) *InventoryHandler {
	return &InventoryHandler{svc: svc, transfer: transfer}
}

// Create godoc
// @Summary      Create an inventory record
// @Description  Registers a (store, product, variant) stock record. The key must be unique.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateInventoryRequest true "Inventory record"
// @Success      201 {object} model.Inventory
// @Failure      409 {object} apierror.APIError
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/inventory [post]
func (h *InventoryHandler) Create(c *gin.Context) {
	var req dto.CreateInventoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	inv, err := h.svc.CreateRecord(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// Get godoc
// @Summary      Get an inventory record
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Inventory ID"
// @Success      200 {object} model.Inventory
// @Failure      404 {object} apierror.APIError
// @Router       /v1/inventory/{id} [get]
func (h *InventoryHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid inventory ID"))
		return
	}
	inv, err := h.svc.GetRecord(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// List godoc
// @Summary      List inventory records
// @Description  Filters by store, category, brand, text search, or stock state.
// @Tags         inventory
// @Produce      json
// @Param        store_id          query string false "Store ID"
// @Param        category_id       query string false "Category ID"
// @Param        brand_id          query string false "Brand ID"
// @Param        search            query string false "Product name or code"
// @Param        low_stock_only    query bool   false "Only records at or below reorder level"
// @Param        out_of_stock_only query bool   false "Only records with zero stock"
// @Success      200 {array} model.Inventory
// @Router       /v1/inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	var filter dto.InventoryFilter
	if !bindQuery(c, &filter) {
		return
	}
	records, err := h.svc.ListRecords(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// Delete godoc
// @Summary      Delete an inventory record
// @Description  Removes the record and its movement history.
// @Tags         inventory
// @Param        id path string true "Inventory ID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/inventory/{id} [delete]
func (h *InventoryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid inventory ID"))
		return
	}
	if err := h.svc.DeleteRecord(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdjustStock godoc
// @Summary      Adjust stock to a new absolute level
// @Description  Writes an ADJUSTMENT movement for the delta between current and new stock.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body dto.AdjustStockRequest true "Adjustment"
// @Success      200 {object} model.Inventory
// @Failure      400 {object} apierror.APIError
// @Router       /v1/inventory/adjust-stock [post]
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	inv, err := h.svc.AdjustStock(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// StockTake godoc
// @Summary      Record a physical stock count
// @Description  Reconciles counted stock against the system level and stamps the stock-take date. A matching count still writes an audit movement.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body dto.StockTakeRequest true "Stock take"
// @Success      200 {object} model.Inventory
// @Failure      400 {object} apierror.APIError
// @Router       /v1/inventory/stock-take [post]
func (h *InventoryHandler) StockTake(c *gin.Context) {
	var req dto.StockTakeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	inv, err := h.svc.StockTake(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// Transfer godoc
// @Summary      Transfer stock between stores
// @Description  Atomically moves quantity from a source record to the destination store, creating the destination record if needed.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body dto.TransferStockRequest true "Transfer"
// @Success      200 {object} dto.TransferResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/inventory/transfer [post]
func (h *InventoryHandler) Transfer(c *gin.Context) {
	var req dto.TransferStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.transfer.TransferStock(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movements godoc
// @Summary      List inventory movements
// @Description  Returns the audit ledger, newest first.
// @Tags         inventory
// @Produce      json
// @Param        product_id    query string false "Product ID"
// @Param        variant_id    query string false "Variant ID"
// @Param        store_id      query string false "Store ID"
// @Param        movement_type query string false "SALE, RETURN, PURCHASE, ADJUSTMENT, TRANSFER_OUT, TRANSFER_IN, WASTE"
// @Param        limit         query int    false "Max rows (default 50)"
// @Success      200 {array} model.InventoryMovement
// @Router       /v1/inventory/movements [get]
func (h *InventoryHandler) Movements(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQuery(c, &filter) {
		return
	}
	movements, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, movements)
}

// Summary godoc
// @Summary      Inventory summary counters
// @Description  Aggregate SKU and stock counters, cached for a short TTL.
// @Tags         inventory
// @Produce      json
// @Success      200 {object} dto.InventorySummary
// @Router       /v1/inventory/summary [get]
func (h *InventoryHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// BulkData godoc
// @Summary      Bulk inventory payload
// @Description  Single round-trip payload for the inventory screen: records, catalogs, and summary.
// @Tags         inventory
// @Produce      json
// @Param        store_id query string false "Store ID"
// @Success      200 {object} dto.BulkInventoryData
// @Router       /v1/inventory/bulk-data [get]
func (h *InventoryHandler) BulkData(c *gin.Context) {
	var filter dto.InventoryFilter
	if !bindQuery(c, &filter) {
		return
	}
	data, err := h.svc.BulkData(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// LowStockAlerts godoc
// @Summary      Active low-stock alerts
// @Description  Alerts raised by the background worker for records at or below their reorder level.
// @Tags         inventory
// @Produce      json
// @Success      200 {array} worker.LowStockAlert
// @Router       /v1/inventory/alerts [get]
func (h *InventoryHandler) LowStockAlerts(c *gin.Context) {
	alerts, err := h.svc.LowStockAlerts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// AvailableProducts godoc
// @Summary      Products not yet stocked at a store
// @Description  Active product/variant pairs the store has no inventory record for.
// @Tags         inventory
// @Produce      json
// @Param        store_id query string true "Store ID"
// @Success      200 {array} dto.AvailableProduct
// @Failure      400 {object} apierror.APIError
// @Router       /v1/inventory/available-products [get]
func (h *InventoryHandler) AvailableProducts(c *gin.Context) {
	products, err := h.svc.AvailableProducts(c.Request.Context(), c.Query("store_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}
