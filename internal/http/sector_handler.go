package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"farm-service/internal/http/middleware"
	"farm-service/internal/repository"
	"farm-service/internal/service"
)

type sectorRequest struct {
	RegionID              *uint    `json:"region_id"`
	Name                  *string  `json:"name"`
	Shape                 *string  `json:"shape"`
	TotalWaterRequirement *float64 `json:"total_water_requirement"`
	Color                 *string  `json:"color"`
}

func (r sectorRequest) input() service.SectorInput {
	return service.SectorInput{
		RegionID:              r.RegionID,
		Name:                  r.Name,
		Shape:                 r.Shape,
		TotalWaterRequirement: r.TotalWaterRequirement,
		Color:                 r.Color,
	}
}

func (h *Handler) listSectors(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	filter := repository.SectorListFilter{}
	if filter.RegionID, ok = queryID(c, "region_id"); !ok {
		return
	}

	items, err := h.sectorService.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) getSector(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	item, err := h.sectorService.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *Handler) createSector(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req sectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	item, err := h.sectorService.Create(c.Request.Context(), principal, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *Handler) updateSector(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req sectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	item, err := h.sectorService.Update(c.Request.Context(), principal, id, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *Handler) deleteSector(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.sectorService.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
