package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"pawhaven/services/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

// StorageHandler handles media uploads: pet photos, profile images and
// contractor verification documents.
type StorageHandler struct {
	StorageSvc    storage.StorageService
	EncryptionKey string
}

// NewStorageHandler creates a new StorageHandler. The encryption key for
// verification documents comes from configuration.
func NewStorageHandler(svc storage.StorageService) *StorageHandler {
	return &StorageHandler{
		StorageSvc:    svc,
		EncryptionKey: viper.GetString("STORAGE_ENCRYPTION_KEY"),
	}
}

// allowedBuckets defines permitted buckets for public uploads.
var allowedBuckets = map[string]bool{
	"pets":     true,
	"profiles": true,
}

// UploadFileHandler handles public media uploads.
func (h *StorageHandler) UploadFileHandler(c *gin.Context) {
	bucket := c.Param("bucket")
	if !allowedBuckets[bucket] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bucket; allowed values are 'pets' and 'profiles'"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file not provided", "detail": err.Error()})
		return
	}

	tempFilePath := filepath.Join(os.TempDir(), fileHeader.Filename)
	if err := c.SaveUploadedFile(fileHeader, tempFilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file", "detail": err.Error()})
		return
	}
	defer os.Remove(tempFilePath)

	publicID, err := h.StorageSvc.UploadFile(c, tempFilePath, "public/images/"+bucket)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload file", "detail": err.Error()})
		return
	}

	downloadURL, err := h.StorageSvc.GetDownloadURL(c, "image", publicID, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to construct download URL", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"publicId":    publicID,
		"downloadURL": downloadURL,
	})
}

// GetDownloadURLHandler generates a download URL for an uploaded file.
func (h *StorageHandler) GetDownloadURLHandler(c *gin.Context) {
	publicID := c.Param("publicID")

	expiry := 15 * time.Minute
	if expStr := c.Query("expires"); expStr != "" {
		if exp, err := time.ParseDuration(expStr); err == nil {
			expiry = exp
		}
	}

	url, err := h.StorageSvc.GetDownloadURL(c, "image", publicID, expiry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate download URL", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"downloadURL": url})
}

// UploadVerificationHandler handles contractor verification documents. The
// file is encrypted before leaving the server.
func (h *StorageHandler) UploadVerificationHandler(c *gin.Context) {
	if h.EncryptionKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "verification uploads are not configured"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file not provided", "detail": err.Error()})
		return
	}

	tempFilePath := filepath.Join(os.TempDir(), fileHeader.Filename)
	if err := c.SaveUploadedFile(fileHeader, tempFilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file", "detail": err.Error()})
		return
	}
	defer os.Remove(tempFilePath)

	publicID, err := h.StorageSvc.UploadVerificationFile(c, tempFilePath, h.EncryptionKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload verification file", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"publicId": publicID})
}
