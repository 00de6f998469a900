package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cpaas-portal/internal/middleware"
	"cpaas-portal/internal/models"
	wire "cpaas-portal/pkg/models"
)

// maxUploadSize bounds a single helper upload.
const maxUploadSize = 5 << 20

type HelperHandler struct {
	base
}

func NewHelperHandler(d Deps) *HelperHandler {
	return &HelperHandler{base{d}}
}

// Upload handles POST /api/v2/helper/upload. Files are stored under uuid
// names and served from /uploads.
func (h *HelperHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		fail(c, http.StatusBadRequest, "Upload failed")
		return
	}
	headers := form.File["file"]
	if len(headers) == 0 {
		fail(c, http.StatusBadRequest, "No file provided")
		return
	}
	if err := os.MkdirAll(h.Config.UploadDir, 0o755); err != nil {
		h.Logger.Error("failed to create upload dir", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Upload failed")
		return
	}

	files := make([]wire.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > maxUploadSize {
			fail(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("%s is too large", fh.Filename))
			return
		}
		stored := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
		if err := c.SaveUploadedFile(fh, filepath.Join(h.Config.UploadDir, stored)); err != nil {
			h.Logger.Error("failed to save upload", zap.String("file", fh.Filename), zap.Error(err))
			fail(c, http.StatusInternalServerError, "Upload failed")
			return
		}

		row := models.Upload{
			CompanyID:  middleware.GetCompanyID(c),
			Filename:   fh.Filename,
			StoredName: stored,
			MimeType:   fh.Header.Get("Content-Type"),
			FileSize:   fh.Size,
		}
		if err := h.DB.WithContext(c.Request.Context()).Create(&row).Error; err != nil {
			dbFail(c, h.Logger, err, "", "Upload failed")
			return
		}
		files = append(files, wire.UploadedFile{
			URL:  h.Config.PublicURL + "/uploads/" + stored,
			Name: fh.Filename,
			Size: fh.Size,
		})
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Image uploaded", "files": files})
}
