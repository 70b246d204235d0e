package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"farm-service/internal/service"
)

type Handler struct {
	authService         *service.AuthService
	companyService      *service.CompanyService
	regionService       *service.RegionService
	sectorService       *service.SectorService
	pivotService        *service.PivotService
	fieldService        *service.FieldService
	cropRotationService *service.CropRotationService
	log                 zerolog.Logger
}

func NewHandler(
	authService *service.AuthService,
	companyService *service.CompanyService,
	regionService *service.RegionService,
	sectorService *service.SectorService,
	pivotService *service.PivotService,
	fieldService *service.FieldService,
	cropRotationService *service.CropRotationService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		authService:         authService,
		companyService:      companyService,
		regionService:       regionService,
		sectorService:       sectorService,
		pivotService:        pivotService,
		fieldService:        fieldService,
		cropRotationService: cropRotationService,
		log:                 log,
	}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware, authLimiter gin.HandlerFunc) {
	api := r.Group("/api")

	public := api.Group("/")
	public.Use(authLimiter)
	{
		public.POST("/user/register/", h.register)
		public.POST("/token/", h.login)
		public.POST("/token/refresh/", h.refresh)
	}

	protected := api.Group("/")
	protected.Use(authMiddleware)

	companies := protected.Group("/companies")
	{
		companies.GET("/", h.listCompanies)
		companies.POST("/", h.createCompany)
		companies.GET("/:id/", h.getCompany)
		companies.PUT("/:id/", h.updateCompany)
		companies.PATCH("/:id/", h.updateCompany)
		companies.DELETE("/:id/", h.deleteCompany)
	}

	regions := protected.Group("/regions")
	{
		regions.GET("/", h.listRegions)
		regions.POST("/", h.createRegion)
		regions.GET("/:id/", h.getRegion)
		regions.PUT("/:id/", h.updateRegion)
		regions.PATCH("/:id/", h.updateRegion)
		regions.DELETE("/:id/", h.deleteRegion)
	}

	sectors := protected.Group("/sectors")
	{
		sectors.GET("/", h.listSectors)
		sectors.POST("/", h.createSector)
		sectors.GET("/:id/", h.getSector)
		sectors.PUT("/:id/", h.updateSector)
		sectors.PATCH("/:id/", h.updateSector)
		sectors.DELETE("/:id/", h.deleteSector)
	}

	pivots := protected.Group("/pivots")
	{
		pivots.GET("/", h.listPivots)
		pivots.POST("/", h.createPivot)
		pivots.GET("/:id/", h.getPivot)
		pivots.PUT("/:id/", h.updatePivot)
		pivots.PATCH("/:id/", h.updatePivot)
		pivots.DELETE("/:id/", h.deletePivot)
	}

	fields := protected.Group("/fields")
	{
		fields.GET("/", h.listFields)
		fields.POST("/", h.createField)
		fields.GET("/:id/", h.getField)
		fields.PUT("/:id/", h.updateField)
		fields.PATCH("/:id/", h.updateField)
		fields.DELETE("/:id/", h.deleteField)
	}

	rotations := protected.Group("/crop-rotations")
	{
		rotations.GET("/", h.listCropRotations)
		rotations.POST("/", h.createCropRotation)
		rotations.GET("/:id/", h.getCropRotation)
		rotations.PUT("/:id/", h.updateCropRotation)
		rotations.PATCH("/:id/", h.updateCropRotation)
		rotations.DELETE("/:id/", h.deleteCropRotation)
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, errorResponse(err.Error()))
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, errorResponse("invalid id"))
		return 0, false
	}
	return uint(id), true
}

// queryID reads an optional numeric filter. ok is false after a 400 has
// been written.
func queryID(c *gin.Context, name string) (*uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid "+name))
		return nil, false
	}
	v := uint(id)
	return &v, true
}
