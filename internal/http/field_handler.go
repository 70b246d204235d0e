package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"farm-service/internal/http/middleware"
	"farm-service/internal/repository"
	"farm-service/internal/service"
)

// Area is accepted for compatibility and recomputed from the shape.
type fieldRequest struct {
	SectorID    *uint    `json:"sector_id"`
	LogicalName *string  `json:"logical_name"`
	Shape       *string  `json:"shape"`
	Area        *float64 `json:"area"`
	Color       *string  `json:"color"`
	cropPlanRequest
}

func (r fieldRequest) input() service.FieldInput {
	return service.FieldInput{
		SectorID:      r.SectorID,
		LogicalName:   r.LogicalName,
		Shape:         r.Shape,
		Color:         r.Color,
		CropPlanInput: r.cropPlanRequest.input(),
	}
}

func (h *Handler) listFields(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	filter := repository.FieldListFilter{}
	if filter.SectorID, ok = queryID(c, "sector_id"); !ok {
		return
	}

	items, err := h.fieldService.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) getField(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	item, err := h.fieldService.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *Handler) createField(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	item, err := h.fieldService.Create(c.Request.Context(), principal, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *Handler) updateField(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	item, err := h.fieldService.Update(c.Request.Context(), principal, id, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *Handler) deleteField(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.fieldService.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
