package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/printhaus/printhaus_api/internal/service"
	"github.com/printhaus/printhaus_api/internal/utils"
)

// UploadHandler receives customization files for file-type options.
type UploadHandler struct {
	uploadService *service.UploadService
}

// NewUploadHandler constructs an UploadHandler.
func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Upload handles POST /v1/uploads (multipart form, field "file"). The
// returned URL goes into the file selection's uploadedFiles list.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Missing file field")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to read upload")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to read upload")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := h.uploadService.UploadCustomizationFile(
		c.Request.Context(), c.GetString("session_id"), fileHeader.Filename, contentType, data)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, 201, "File uploaded", gin.H{
		"url": url,
	})
}
