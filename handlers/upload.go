package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"transport-broker-api/middleware"
	"transport-broker-api/models"
)

const maxUploadBytes = 5 << 20 // 5MB

// allowedMIMETypes maps sniffed content types to stored extensions.
var allowedMIMETypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

// UploadFile accepts a multipart form with `file` and `category`, sniffs
// the content type (extensions are not trusted), stores the file under a
// random name and returns its public URL path.
func (h *Handler) UploadFile(c *gin.Context) {
	ownerID := middleware.GetUserID(c)

	category := c.PostForm("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing category field"})
		return
	}
	// Categories become directory names; keep them flat.
	if strings.ContainsAny(category, "/\\.") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file field"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 5MB limit"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && n == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty file"})
		return
	}
	contentType := http.DetectContentType(head[:n])
	// DetectContentType can append parameters, e.g. "text/plain; charset=utf-8"
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	ext, ok := allowedMIMETypes[contentType]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unsupported file type. Accepted: JPEG, PNG, PDF",
		})
		return
	}

	if _, err := f.Seek(0, 0); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}

	storedName := uuid.New().String() + ext
	relPath, err := h.Store.Save(category, storedName, f)
	if err != nil {
		h.Log.Error().Err(err).Str("category", category).Msg("upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	url := h.Store.URL(relPath)
	doc := models.Document{
		OwnerID:   ownerID,
		Category:  category,
		FileName:  filepath.Base(fileHeader.Filename),
		URL:       url,
		SizeBytes: fileHeader.Size,
	}
	if err := h.DB.Create(&doc).Error; err != nil {
		h.Log.Error().Err(err).Msg("failed to record document")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record document"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "File uploaded",
		"url":      url,
		"document": doc,
	})
}
