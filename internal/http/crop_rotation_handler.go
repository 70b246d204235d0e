package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"farm-service/internal/http/middleware"
	"farm-service/internal/repository"
	"farm-service/internal/service"
)

type cropRotationRequest struct {
	PivotID     *uint    `json:"pivot_id"`
	FieldID     *uint    `json:"field_id"`
	Year        *int     `json:"year"`
	Crop        *string  `json:"crop"`
	SeedingDate *string  `json:"seeding_date"`
	HarvestDate *string  `json:"harvest_date"`
	YieldTons   *float64 `json:"yield_tons"`
	Notes       *string  `json:"notes"`
}

func (r cropRotationRequest) input() service.CropRotationInput {
	return service.CropRotationInput{
		PivotID:     r.PivotID,
		FieldID:     r.FieldID,
		Year:        r.Year,
		Crop:        r.Crop,
		SeedingDate: r.SeedingDate,
		HarvestDate: r.HarvestDate,
		YieldTons:   r.YieldTons,
		Notes:       r.Notes,
	}
}

func (h *Handler) listCropRotations(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	filter := repository.CropRotationListFilter{}
	if filter.PivotID, ok = queryID(c, "pivot_id"); !ok {
		return
	}
	if filter.FieldID, ok = queryID(c, "field_id"); !ok {
		return
	}
	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid year"))
			return
		}
		filter.Year = &year
	}

	rotations, err := h.cropRotationService.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rotations)
}

func (h *Handler) getCropRotation(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	rotation, err := h.cropRotationService.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rotation)
}

func (h *Handler) createCropRotation(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req cropRotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	rotation, err := h.cropRotationService.Create(c.Request.Context(), principal, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rotation)
}

func (h *Handler) updateCropRotation(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req cropRotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	rotation, err := h.cropRotationService.Update(c.Request.Context(), principal, id, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rotation)
}

func (h *Handler) deleteCropRotation(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.cropRotationService.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
