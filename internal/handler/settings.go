package handler

import (
	"net/http"

	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/repository"

	"github.com/gin-gonic/gin"
)

// SettingsHandler serves the read-only master data the POS front-end needs
// to render the sale screen. Master-data CRUD lives in the settings
// collaborator, so these endpoints go straight to the repositories.
type SettingsHandler struct {
	stores   repository.StoreRepository
	settings repository.SettingsRepository
}

func NewSettingsHandler(stores repository.StoreRepository, settings repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{stores: stores, settings: settings}
}

// ListStores godoc
// @Summary      List active stores
// @Tags         settings
// @Produce      json
// @Success      200 {array} model.Store
// @Router       /v1/stores [get]
func (h *SettingsHandler) ListStores(c *gin.Context) {
	stores, err := h.stores.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stores)
}

// ListPaymentMethods godoc
// @Summary      List active payment methods
// @Tags         settings
// @Produce      json
// @Success      200 {array} model.PaymentMethod
// @Router       /v1/sales/payment-methods [get]
func (h *SettingsHandler) ListPaymentMethods(c *gin.Context) {
	methods, err := h.settings.ListPaymentMethods(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, methods)
}
