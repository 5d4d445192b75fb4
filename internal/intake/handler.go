package intake

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"claimdesk-backend/internal/folders"
	"claimdesk-backend/internal/shared/server/respond"
)

// maxUploadBytes caps a multipart request body.
const maxUploadBytes = 16 << 20

// Handler wires the upload endpoints to the intake service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches upload routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/folders", h.uploadPolicy)
	rg.POST("/folders/:id/documents", h.uploadDocuments)
}

func (h *Handler) uploadPolicy(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "no file uploaded", nil)
		return
	}

	folder, err := h.Svc.CreatePolicyFolder(c.Request.Context(), c.PostForm("folder_name"), fromHeader(header))
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedType):
			respond.Error(c, http.StatusBadRequest, "validation_error", "unsupported file type", nil)
		case errors.Is(err, ErrUnreadable):
			respond.Error(c, http.StatusBadRequest, "unreadable_document", "could not extract text from document, upload a clearer image or PDF", nil)
		case errors.Is(err, ErrNotAPolicy):
			respond.Error(c, http.StatusBadRequest, "invalid_policy", "this does not appear to be a valid insurance policy document", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create folder", nil)
		}
		return
	}
	c.Set("folderId", folder.ID)
	respond.JSON(c, http.StatusCreated, folders.ToResponse(folder, 0))
}

func (h *Handler) uploadDocuments(c *gin.Context) {
	folderID := c.Param("id")
	c.Set("folderId", folderID)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid multipart request", nil)
		return
	}
	files := make([]File, 0, len(form.File["files"]))
	for _, header := range form.File["files"] {
		if header.Filename == "" {
			continue
		}
		files = append(files, fromHeader(header))
	}

	result, err := h.Svc.UploadDocuments(c.Request.Context(), folderID, files)
	if err != nil {
		switch {
		case errors.Is(err, folders.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "folder not found", nil)
		case errors.Is(err, ErrFolderFull):
			respond.Error(c, http.StatusBadRequest, "folder_full", "folder is complete, no more uploads allowed", nil)
		case errors.Is(err, ErrNoFiles):
			respond.Error(c, http.StatusBadRequest, "validation_error", "no files uploaded", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process uploads", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, result)
}

func fromHeader(header *multipart.FileHeader) File {
	return File{
		Name: header.Filename,
		Open: func() (io.ReadCloser, error) { return header.Open() },
	}
}
