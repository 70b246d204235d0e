package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"farm-service/internal/crop"
	"farm-service/internal/http/middleware"
	"farm-service/internal/repository"
	"farm-service/internal/service"
)

// cropPlanRequest holds the crop slots and season dates of pivots and fields.
type cropPlanRequest struct {
	Crop1       *string `json:"crop_1"`
	Crop2       *string `json:"crop_2"`
	Crop3       *string `json:"crop_3"`
	Crop4       *string `json:"crop_4"`
	SeedingDate *string `json:"seeding_date"`
	HarvestDate *string `json:"harvest_date"`
}

func (r cropPlanRequest) input() service.CropPlanInput {
	return service.CropPlanInput{
		Crops:       [crop.SlotCount]*string{r.Crop1, r.Crop2, r.Crop3, r.Crop4},
		SeedingDate: r.SeedingDate,
		HarvestDate: r.HarvestDate,
	}
}

// Area is accepted for compatibility and recomputed from the radius.
type pivotRequest struct {
	SectorID    *uint    `json:"sector_id"`
	LogicalName *string  `json:"logical_name"`
	Center      *string  `json:"center"`
	RadiusM     *float64 `json:"radius_m"`
	Area        *float64 `json:"area"`
	Color       *string  `json:"color"`
	cropPlanRequest
}

func (r pivotRequest) input() service.PivotInput {
	return service.PivotInput{
		SectorID:      r.SectorID,
		LogicalName:   r.LogicalName,
		Center:        r.Center,
		RadiusM:       r.RadiusM,
		Color:         r.Color,
		CropPlanInput: r.cropPlanRequest.input(),
	}
}

func (h *Handler) listPivots(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	filter := repository.PivotListFilter{}
	if filter.SectorID, ok = queryID(c, "sector_id"); !ok {
		return
	}

	items, err := h.pivotService.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) getPivot(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	item, err := h.pivotService.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *Handler) createPivot(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req pivotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	item, err := h.pivotService.Create(c.Request.Context(), principal, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *Handler) updatePivot(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req pivotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	item, err := h.pivotService.Update(c.Request.Context(), principal, id, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *Handler) deletePivot(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.pivotService.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
