package reports

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"claimdesk-backend/internal/folders"
	"claimdesk-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the reports service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches report routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/folders/:id/analyze", h.analyzeFolder)
	rg.GET("/folders/:id/analysis", h.getAnalysis)
}

func (h *Handler) analyzeFolder(c *gin.Context) {
	folderID := c.Param("id")
	c.Set("folderId", folderID)

	report, err := h.Svc.Generate(c.Request.Context(), folderID)
	if err != nil {
		switch {
		case errors.Is(err, folders.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "folder not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate analysis", nil)
		}
		return
	}
	c.Set("reportId", report.ID)
	respond.JSON(c, http.StatusCreated, report)
}

func (h *Handler) getAnalysis(c *gin.Context) {
	folderID := c.Param("id")
	c.Set("folderId", folderID)

	report, err := h.Svc.Latest(c.Request.Context(), folderID)
	if err != nil {
		switch {
		case errors.Is(err, folders.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "folder not found", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "no analysis found, generate one first", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, report)
}
