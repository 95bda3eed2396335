package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wisnuvb/calmsey/internal/service"
)

// ListFooterAdmin returns every footer section across languages.
func (a *API) ListFooterAdmin(c *gin.Context) {
	sections, err := a.footer.List(c.Query("lang"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load footer sections")
		return
	}
	respondOK(c, gin.H{"sections": sections})
}

type footerRequest struct {
	Key      string `json:"key"`
	Order    int    `json:"order"`
	Kind     string `json:"kind"`
	Language string `json:"language"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

// CreateFooterSection registers a footer block.
func (a *API) CreateFooterSection(c *gin.Context) {
	var input footerRequest
	if !bindJSON(c, &input, "invalid footer payload") {
		return
	}

	section, err := a.footer.Create(service.FooterSectionInput(input))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, gin.H{"section": section})
}

// UpdateFooterSection edits a footer block.
func (a *API) UpdateFooterSection(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var input footerRequest
	if !bindJSON(c, &input, "invalid footer payload") {
		return
	}

	section, err := a.footer.Update(id, service.FooterSectionInput(input))
	if err != nil {
		if errors.Is(err, service.ErrFooterSectionNotFound) {
			respondError(c, http.StatusNotFound, "footer section not found")
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, gin.H{"section": section})
}

// DeleteFooterSection removes a footer block.
func (a *API) DeleteFooterSection(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.footer.Delete(id); err != nil {
		if errors.Is(err, service.ErrFooterSectionNotFound) {
			respondError(c, http.StatusNotFound, "footer section not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete footer section")
		return
	}
	respondOK(c, nil)
}
