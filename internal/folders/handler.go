package folders

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"claimdesk-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the folders service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches folder routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.dashboard)
	rg.GET("/folders", h.listFolders)
	rg.GET("/folders/:id", h.getFolder)
	rg.DELETE("/folders/:id", h.deleteFolder)
}

func (h *Handler) dashboard(c *gin.Context) {
	stats, err := h.Svc.Dashboard(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute dashboard", nil)
		return
	}
	respond.JSON(c, http.StatusOK, stats)
}

func (h *Handler) listFolders(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list folders", nil)
		return
	}
	out := make([]Response, 0, len(list))
	for _, folder := range list {
		count, err := h.Svc.DocumentCount(c.Request.Context(), folder.ID)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list folders", nil)
			return
		}
		out = append(out, ToResponse(folder, count))
	}
	respond.JSON(c, http.StatusOK, out)
}

func (h *Handler) getFolder(c *gin.Context) {
	folderID := c.Param("id")
	c.Set("folderId", folderID)

	folder, err := h.Svc.Get(c.Request.Context(), folderID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "folder not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch folder", nil)
		}
		return
	}
	count, err := h.Svc.DocumentCount(c.Request.Context(), folderID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch folder", nil)
		return
	}
	respond.JSON(c, http.StatusOK, ToResponse(folder, count))
}

func (h *Handler) deleteFolder(c *gin.Context) {
	folderID := c.Param("id")
	c.Set("folderId", folderID)

	if err := h.Svc.Delete(c.Request.Context(), folderID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "folder not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete folder", nil)
		}
		return
	}
	c.Status(http.StatusNoContent)
}
