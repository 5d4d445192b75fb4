package qna

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"claimdesk-backend/internal/folders"
	"claimdesk-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the Q&A service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches Q&A routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/folders/:id/qna", h.ask)
	rg.GET("/folders/:id/qna", h.history)
}

type askRequest struct {
	Question string `json:"question"`
}

func (h *Handler) ask(c *gin.Context) {
	folderID := c.Param("id")
	c.Set("folderId", folderID)

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	entry, err := h.Svc.Ask(c.Request.Context(), folderID, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyQuestion):
			respond.Error(c, http.StatusBadRequest, "validation_error", "question is required", nil)
		case errors.Is(err, folders.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "folder not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to answer question", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, entry)
}

func (h *Handler) history(c *gin.Context) {
	folderID := c.Param("id")
	c.Set("folderId", folderID)

	history, err := h.Svc.History(c.Request.Context(), folderID)
	if err != nil {
		switch {
		case errors.Is(err, folders.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "folder not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch history", nil)
		}
		return
	}
	if history == nil {
		history = []Entry{}
	}
	respond.JSON(c, http.StatusOK, history)
}
