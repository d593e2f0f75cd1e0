package handler

import (
	"net/http"

	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/apierror"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/dto"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SalesHandler struct {
	svc service.SaleService
}

func NewSalesHandler(svc service.SaleService) *SalesHandler {
	return &SalesHandler{svc: svc}
}

// cashierID reads the acting user from the query string. Terminals send it
// with every write until session auth lands.
func cashierID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("user_id query parameter is required"))
		return uuid.Nil, false
	}
	return id, true
}

// Create godoc
// @Summary      Commit a sale
// @Description  Prices the cart, verifies payment covers the grand total, decrements stock, and writes the invoice atomically.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        user_id query string true "Acting cashier ID"
// @Param        request body dto.CreateSaleRequest true "Sale"
// @Success      201 {object} dto.SaleResponse
// @Failure      400 {object} apierror.APIError
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/sales [post]
func (h *SalesHandler) Create(c *gin.Context) {
	userID, ok := cashierID(c)
	if !ok {
		return
	}
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sale, err := h.svc.CommitSale(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

// Get godoc
// @Summary      Get a sale
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{id} [get]
func (h *SalesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid sale ID"))
		return
	}
	sale, err := h.svc.GetSale(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// List godoc
// @Summary      List sales
// @Description  Paginated, newest first. Filter by store, customer, status, date range, or invoice search.
// @Tags         sales
// @Produce      json
// @Param        store_id       query string false "Store ID"
// @Param        customer_id    query string false "Customer ID"
// @Param        payment_status query string false "PAID, PARTIAL, REFUNDED, VOID"
// @Param        start_date     query string false "YYYY-MM-DD"
// @Param        end_date       query string false "YYYY-MM-DD"
// @Param        search         query string false "Invoice number fragment"
// @Param        page           query int    false "Page (default 1)"
// @Param        limit          query int    false "Page size (default 50)"
// @Success      200 {object} dto.SaleListResponse
// @Router       /v1/sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if !bindQuery(c, &filter) {
		return
	}
	sales, err := h.svc.ListSales(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

// Void godoc
// @Summary      Void a sale
// @Description  Restores stock with compensating RETURN movements and reverses any loyalty points. Voiding an already voided sale is rejected.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id      path  string true "Sale ID"
// @Param        user_id query string true "Acting user ID"
// @Param        request body  dto.VoidSaleRequest true "Void reason"
// @Success      200 {object} dto.SaleResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/sales/{id}/void [post]
func (h *SalesHandler) Void(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid sale ID"))
		return
	}
	userID, ok := cashierID(c)
	if !ok {
		return
	}
	var req dto.VoidSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sale, err := h.svc.VoidSale(c.Request.Context(), id, userID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// Stats godoc
// @Summary      Sales statistics
// @Description  Aggregated totals over non-void sales, optionally scoped to a store and date range.
// @Tags         sales
// @Produce      json
// @Param        store_id   query string false "Store ID"
// @Param        start_date query string false "Start date (YYYY-MM-DD)"
// @Param        end_date   query string false "End date (YYYY-MM-DD)"
// @Success      200 {object} dto.SalesStats
// @Router       /v1/sales/stats [get]
func (h *SalesHandler) Stats(c *gin.Context) {
	var filter dto.StatsFilter
	if !bindQuery(c, &filter) {
		return
	}
	stats, err := h.svc.SalesStats(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// DailyReport godoc
// @Summary      Daily sales report
// @Description  One day's sales totals with a cash/card/other payment breakdown. Defaults to today.
// @Tags         sales
// @Produce      json
// @Param        date     query string false "Report date (YYYY-MM-DD)"
// @Param        store_id query string false "Store ID"
// @Success      200 {object} dto.DailySalesReport
// @Failure      400 {object} apierror.APIError
// @Router       /v1/sales/reports/daily [get]
func (h *SalesHandler) DailyReport(c *gin.Context) {
	report, err := h.svc.DailyReport(c.Request.Context(), c.Query("date"), c.Query("store_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
