package documents

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"claimdesk-backend/internal/folders"
	"claimdesk-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the documents service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/folders/:id/documents", h.listDocuments)
	rg.DELETE("/documents/:id", h.deleteDocument)
}

func (h *Handler) listDocuments(c *gin.Context) {
	folderID := c.Param("id")
	c.Set("folderId", folderID)

	docs, err := h.Svc.ListByFolder(c.Request.Context(), folderID)
	if err != nil {
		switch {
		case errors.Is(err, folders.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "folder not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		}
		return
	}
	if docs == nil {
		docs = []Document{}
	}
	respond.JSON(c, http.StatusOK, docs)
}

func (h *Handler) deleteDocument(c *gin.Context) {
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	if err := h.Svc.Delete(c.Request.Context(), documentID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete document", nil)
		}
		return
	}
	c.Status(http.StatusNoContent)
}
