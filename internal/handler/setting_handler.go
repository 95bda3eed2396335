package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wisnuvb/calmsey/internal/service"
)

// ListSettings returns every site setting for the admin editor.
func (a *API) ListSettings(c *gin.Context) {
	settings, err := a.settings.All()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load settings")
		return
	}
	respondOK(c, gin.H{"settings": settings})
}

// SaveSettings upserts a batch of settings atomically.
func (a *API) SaveSettings(c *gin.Context) {
	var input struct {
		Settings map[string]string `json:"settings"`
	}
	if !bindJSON(c, &input, "invalid settings payload") {
		return
	}
	if len(input.Settings) == 0 {
		respondError(c, http.StatusBadRequest, "settings map is empty")
		return
	}

	if err := a.settings.SetMany(input.Settings); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, nil)
}

// DeleteSetting removes one setting key.
func (a *API) DeleteSetting(c *gin.Context) {
	if err := a.settings.Delete(c.Param("key")); err != nil {
		if errors.Is(err, service.ErrSettingNotFound) {
			respondError(c, http.StatusNotFound, "setting not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete setting")
		return
	}
	respondOK(c, nil)
}
