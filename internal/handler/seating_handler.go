package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-seating-api/internal/dto"
	"github.com/noah-isme/sma-seating-api/internal/models"
	"github.com/noah-isme/sma-seating-api/internal/service"
	appErrors "github.com/noah-isme/sma-seating-api/pkg/errors"
	"github.com/noah-isme/sma-seating-api/pkg/response"
)

// CacheHeader tells clients whether an allocation was served from the result cache.
const CacheHeader = "X-Seating-Cache"

type seatingService interface {
	Allocate(ctx context.Context, req dto.AllocateRequest) (*dto.AllocationResponse, error)
	Preview(ctx context.Context, req dto.PreviewRequest) (*dto.AllocationResponse, error)
	SaveLayout(ctx context.Context, req dto.SaveLayoutRequest, actor *models.JWTClaims) (*dto.SavedLayoutResponse, error)
	ListLayouts(ctx context.Context, query dto.LayoutListQuery) ([]models.SeatingLayoutSummary, *models.Pagination, error)
	GetLayout(ctx context.Context, id string) (*models.SeatingLayout, error)
	DeleteLayout(ctx context.Context, id string) error
	ExportLayout(ctx context.Context, id, format string) (*service.ExportedFile, error)
}

// SeatingHandler exposes allocation and saved layout endpoints.
type SeatingHandler struct {
	service seatingService
}

// NewSeatingHandler builds a new handler.
func NewSeatingHandler(service seatingService) *SeatingHandler {
	return &SeatingHandler{service: service}
}

// Allocate godoc
// @Summary Allocate caller supplied seats to caller supplied rosters
// @Tags Seating
// @Accept json
// @Produce json
// @Param payload body dto.AllocateRequest true "Seat maps and rosters"
// @Success 200 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /seating/allocate [post]
func (h *SeatingHandler) Allocate(c *gin.Context) {
	var req dto.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid allocation payload"))
		return
	}
	resp, err := h.service.Allocate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	setCacheHeader(c, resp.Cached)
	response.JSON(c, http.StatusOK, resp, nil)
}

// Preview godoc
// @Summary Preview an allocation over catalog rooms and classes
// @Tags Seating
// @Accept json
// @Produce json
// @Param payload body dto.PreviewRequest true "Rooms and classes"
// @Success 200 {object} response.Envelope
// @Router /seating/preview [post]
func (h *SeatingHandler) Preview(c *gin.Context) {
	var req dto.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preview payload"))
		return
	}
	resp, err := h.service.Preview(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	setCacheHeader(c, resp.Cached)
	response.JSON(c, http.StatusOK, resp, nil)
}

// SaveLayout godoc
// @Summary Allocate and store a seating layout
// @Tags Seating
// @Accept json
// @Produce json
// @Param payload body dto.SaveLayoutRequest true "Rooms and classes"
// @Success 201 {object} response.Envelope
// @Router /seating/layouts [post]
func (h *SeatingHandler) SaveLayout(c *gin.Context) {
	var req dto.SaveLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid layout payload"))
		return
	}
	saved, err := h.service.SaveLayout(c.Request.Context(), req, layoutAuthor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, saved)
}

// ListLayouts godoc
// @Summary List saved seating layouts
// @Tags Seating
// @Produce json
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /seating/layouts [get]
func (h *SeatingHandler) ListLayouts(c *gin.Context) {
	var query dto.LayoutListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	layouts, pagination, err := h.service.ListLayouts(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, layouts, pagination)
}

// GetLayout godoc
// @Summary Get a saved seating layout
// @Tags Seating
// @Produce json
// @Param id path string true "Layout ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /seating/layouts/{id} [get]
func (h *SeatingHandler) GetLayout(c *gin.Context) {
	layout, err := h.service.GetLayout(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, layout, nil)
}

// DeleteLayout godoc
// @Summary Delete a saved seating layout
// @Tags Seating
// @Param id path string true "Layout ID"
// @Success 204
// @Router /seating/layouts/{id} [delete]
func (h *SeatingHandler) DeleteLayout(c *gin.Context) {
	if err := h.service.DeleteLayout(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportLayout godoc
// @Summary Download a saved seating layout
// @Tags Seating
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Layout ID"
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Router /seating/layouts/{id}/export [get]
func (h *SeatingHandler) ExportLayout(c *gin.Context) {
	file, err := h.service.ExportLayout(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

func setCacheHeader(c *gin.Context, cached bool) {
	if cached {
		c.Header(CacheHeader, "HIT")
		return
	}
	c.Header(CacheHeader, "MISS")
}
