package handler

import (
	stderrors "errors"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"projecthub/internal/errors"
	"projecthub/internal/storage"
)

// AttachmentHandler streams stored attachments back to clients.
type AttachmentHandler struct {
	store storage.Store
}

// NewAttachmentHandler creates a new attachment handler.
func NewAttachmentHandler(store storage.Store) *AttachmentHandler {
	return &AttachmentHandler{store: store}
}

// Serve godoc
// @Summary Download an attachment
// @Tags attachments
// @Produce octet-stream
// @Param name path string true "Stored file name"
// @Success 200 {file} file
// @Failure 404 {object} errors.ErrorResponse
// @Router /uploads/{name} [get]
func (h *AttachmentHandler) Serve(c echo.Context) error {
	name := c.Param("name")
	rc, err := h.store.Open(c.Request().Context(), name)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, errors.ErrorResponse{Error: "File not found"})
		}
		return httpError(err)
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Stream(http.StatusOK, contentType, rc)
}
