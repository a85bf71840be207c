package handler

import (
	"net/http"

	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/dto"
	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/service"

	"github.com/gin-gonic/gin"
)

type LineageHandler struct{ svc service.LineageService }

func NewLineageHandler(svc service.LineageService) *LineageHandler {
	return &LineageHandler{svc: svc}
}

func (h *LineageHandler) LinkPredecessor(c *gin.Context) {
	var req dto.LinkPredecessorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.LinkPredecessor(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *LineageHandler) GetLineage(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetLineage(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
