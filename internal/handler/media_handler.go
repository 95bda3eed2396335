package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wisnuvb/calmsey/internal/service"
)

// ListMedia returns uploads newest first.
func (a *API) ListMedia(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "pageSize", 24)

	media, total, err := a.media.List(page, pageSize)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load media")
		return
	}
	respondOK(c, gin.H{"media": media, "total": total, "page": page})
}

// UploadMedia stores an uploaded file and generates a thumbnail for
// raster images.
func (a *API) UploadMedia(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	media, err := a.media.Save(file, header.Filename, mimeType, sessionUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrMediaUnsupported) {
			respondError(c, http.StatusUnsupportedMediaType, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to store upload")
		return
	}
	respondCreated(c, gin.H{"media": media})
}

// DeleteMedia removes an upload and its files.
func (a *API) DeleteMedia(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.media.Delete(id); err != nil {
		if errors.Is(err, service.ErrMediaNotFound) {
			respondError(c, http.StatusNotFound, "media not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete media")
		return
	}
	respondOK(c, nil)
}
