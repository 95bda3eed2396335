package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wisnuvb/calmsey/internal/service"
)

// ListLanguagesAdmin returns every configured language.
func (a *API) ListLanguagesAdmin(c *gin.Context) {
	languages, err := a.languages.ListAll()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load languages")
		return
	}
	respondOK(c, gin.H{"languages": languages})
}

type languageRequest struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"nativeName"`
	IsActive   bool   `json:"isActive"`
	IsDefault  bool   `json:"isDefault"`
}

// CreateLanguage registers a language.
func (a *API) CreateLanguage(c *gin.Context) {
	var input languageRequest
	if !bindJSON(c, &input, "invalid language payload") {
		return
	}

	language, err := a.languages.Create(service.LanguageInput(input))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLanguageInvalid):
			respondError(c, http.StatusBadRequest, "language code and name are required")
		case errors.Is(err, service.ErrLanguageCodeUsed):
			respondError(c, http.StatusConflict, "language code already exists")
		default:
			respondError(c, http.StatusInternalServerError, "failed to create language")
		}
		return
	}
	respondCreated(c, gin.H{"language": language})
}

// UpdateLanguage edits a language.
func (a *API) UpdateLanguage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var input languageRequest
	if !bindJSON(c, &input, "invalid language payload") {
		return
	}

	language, err := a.languages.Update(id, service.LanguageInput(input))
	if err != nil {
		if errors.Is(err, service.ErrLanguageNotFound) {
			respondError(c, http.StatusNotFound, "language not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to update language")
		return
	}
	respondOK(c, gin.H{"language": language})
}

// DeleteLanguage removes a non-default language.
func (a *API) DeleteLanguage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.languages.Delete(id); err != nil {
		if errors.Is(err, service.ErrLanguageNotFound) {
			respondError(c, http.StatusNotFound, "language not found")
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, nil)
}
