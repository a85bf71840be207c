package handler

import (
	"net/http"

	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/dto"
	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/service"

	"github.com/gin-gonic/gin"
)

// KitsHandler exposes the composition graph and the stock derivation engine
// for one kit: BOM mutation, validation, virtual availability and the
// physical assemble/disassemble transactions.
type KitsHandler struct {
	composition service.CompositionService
	stock       service.StockService
}

func NewKitsHandler(composition service.CompositionService, stock service.StockService) *KitsHandler {
	return &KitsHandler{composition: composition, stock: stock}
}

func (h *KitsHandler) AddComponent(c *gin.Context) {
	kitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AddComponentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.composition.AddComponent(c.Request.Context(), kitID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *KitsHandler) RemoveComponent(c *gin.Context) {
	kitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	componentID, ok := pathUUID(c, "component_id")
	if !ok {
		return
	}
	if err := h.composition.RemoveComponent(c.Request.Context(), kitID, componentID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *KitsHandler) GetComposition(c *gin.Context) {
	kitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.composition.GetComposition(c.Request.Context(), kitID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *KitsHandler) ValidateKit(c *gin.Context) {
	kitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.composition.ValidateKit(c.Request.Context(), kitID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *KitsHandler) Availability(c *gin.Context) {
	kitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.stock.VirtualAvailability(c.Request.Context(), kitID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *KitsHandler) Assemble(c *gin.Context) {
	kitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AssembleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.stock.Assemble(c.Request.Context(), kitID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *KitsHandler) Disassemble(c *gin.Context) {
	kitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.DisassembleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.stock.Disassemble(c.Request.Context(), kitID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
