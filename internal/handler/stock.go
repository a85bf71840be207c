package handler

import (
	"net/http"
	"strconv"

	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/dto"
	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/repository"
	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockHandler exposes the leaf-product stock surface: manual adjustments
// (receiving, corrections), the movement ledger and low-stock alerts.
type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler {
	return &StockHandler{svc: svc}
}

func (h *StockHandler) Adjust(c *gin.Context) {
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdjustStock(c.Request.Context(), productID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockHandler) ListMovements(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	filter := repository.StockLedgerFilter{
		Reason: c.Query("reason"),
		Page:   page,
		Limit:  limit,
	}
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid product_id"})
			return
		}
		filter.ProductID = &id
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockHandler) Alerts(c *gin.Context) {
	resp, err := h.svc.Alerts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
