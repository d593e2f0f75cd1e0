package handler

import (
	"net/http"
	"strconv"

	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/apierror"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/dto"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReturnsHandler struct {
	svc service.ReturnService
}

func NewReturnsHandler(svc service.ReturnService) *ReturnsHandler {
	return &ReturnsHandler{svc: svc}
}

// Create godoc
// @Summary      Process a return
// @Description  Validates per-line return quantities against what remains returnable, restores stock, and refunds. A fully returned sale is marked REFUNDED.
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        user_id query string true "Acting user ID"
// @Param        request body dto.CreateReturnRequest true "Return"
// @Success      201 {object} dto.ReturnResponse
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /v1/returns [post]
func (h *ReturnsHandler) Create(c *gin.Context) {
	userID, ok := cashierID(c)
	if !ok {
		return
	}
	var req dto.CreateReturnRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ret, err := h.svc.CreateReturn(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ret)
}

// Get godoc
// @Summary      Get a return
// @Tags         returns
// @Produce      json
// @Param        id path string true "Return ID"
// @Success      200 {object} dto.ReturnResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/returns/{id} [get]
func (h *ReturnsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid return ID"))
		return
	}
	ret, err := h.svc.GetReturn(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ret)
}

// List godoc
// @Summary      List returns
// @Tags         returns
// @Produce      json
// @Param        store_id query string false "Store ID"
// @Param        search   query string false "Invoice number or customer"
// @Param        page     query int    false "Page (default 1)"
// @Param        limit    query int    false "Page size (default 50)"
// @Success      200 {object} dto.ReturnListResponse
// @Router       /v1/returns [get]
func (h *ReturnsHandler) List(c *gin.Context) {
	var filter dto.ReturnFilter
	if !bindQuery(c, &filter) {
		return
	}
	returns, err := h.svc.ListReturns(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, returns)
}

// Returnable godoc
// @Summary      List sales eligible for return
// @Description  PAID or PARTIAL sales with at least one line not fully returned. Search matches invoice number or customer name/phone.
// @Tags         returns
// @Produce      json
// @Param        search   query string false "Invoice or customer"
// @Param        store_id query string false "Store ID"
// @Param        limit    query int    false "Max rows (default 50)"
// @Success      200 {array} dto.ReturnableSale
// @Router       /v1/returns/sales/returnable [get]
func (h *ReturnsHandler) Returnable(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, apierror.New("invalid limit"))
			return
		}
		limit = n
	}
	sales, err := h.svc.ListReturnable(c.Request.Context(), c.Query("search"), c.Query("store_id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

// Stats godoc
// @Summary      Returns statistics
// @Description  Aggregated refund totals plus the ten most-returned products, optionally scoped to a store and date range.
// @Tags         returns
// @Produce      json
// @Param        store_id   query string false "Store ID"
// @Param        start_date query string false "Start date (YYYY-MM-DD)"
// @Param        end_date   query string false "End date (YYYY-MM-DD)"
// @Success      200 {object} dto.ReturnsStats
// @Router       /v1/returns/stats [get]
func (h *ReturnsHandler) Stats(c *gin.Context) {
	var filter dto.StatsFilter
	if !bindQuery(c, &filter) {
		return
	}
	stats, err := h.svc.ReturnsStats(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
