package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wisnuvb/calmsey/internal/service"
)

// ListPages returns every page for the admin list view.
func (a *API) ListPages(c *gin.Context) {
	pages, err := a.pages.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load pages")
		return
	}
	respondOK(c, gin.H{"pages": pages})
}

// GetPage returns one page with translations and sections.
func (a *API) GetPage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	page, err := a.pages.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			respondError(c, http.StatusNotFound, "page not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load page")
		return
	}
	respondOK(c, gin.H{"page": page})
}

type pageRequest struct {
	Slug     string `json:"slug"`
	PageType string `json:"pageType"`
	Template string `json:"template"`
}

// CreatePage registers a static page.
func (a *API) CreatePage(c *gin.Context) {
	var input pageRequest
	if !bindJSON(c, &input, "invalid page payload") {
		return
	}

	page, err := a.pages.Create(service.PageInput(input))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPageTypeInvalid):
			respondError(c, http.StatusBadRequest, "unknown page type")
		case errors.Is(err, service.ErrPageSlugConflict):
			respondError(c, http.StatusConflict, "page slug already exists")
		default:
			respondError(c, http.StatusInternalServerError, "failed to create page")
		}
		return
	}
	respondCreated(c, gin.H{"page": page})
}

// UpdatePage edits a page record.
func (a *API) UpdatePage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var input pageRequest
	if !bindJSON(c, &input, "invalid page payload") {
		return
	}

	page, err := a.pages.Update(id, service.PageInput(input))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPageNotFound):
			respondError(c, http.StatusNotFound, "page not found")
		case errors.Is(err, service.ErrPageTypeInvalid):
			respondError(c, http.StatusBadRequest, "unknown page type")
		default:
			respondError(c, http.StatusInternalServerError, "failed to update page")
		}
		return
	}
	respondOK(c, gin.H{"page": page})
}

// DeletePage removes a page with its translations and sections.
func (a *API) DeletePage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.pages.Delete(id); err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			respondError(c, http.StatusNotFound, "page not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete page")
		return
	}
	respondOK(c, nil)
}

// SavePageTranslation replaces one language's copy and content entries.
func (a *API) SavePageTranslation(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var input struct {
		Language        string            `json:"language"`
		Title           string            `json:"title"`
		MetaDescription string            `json:"metaDescription"`
		Entries         map[string]string `json:"entries"`
	}
	if !bindJSON(c, &input, "invalid translation payload") {
		return
	}

	translation, err := a.pages.SaveTranslation(id, service.TranslationInput{
		Language:        input.Language,
		Title:           input.Title,
		MetaDescription: input.MetaDescription,
		Entries:         input.Entries,
	})
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			respondError(c, http.StatusNotFound, "page not found")
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, gin.H{"translation": translation})
}

// ReplacePageSections swaps a page's layout atomically.
func (a *API) ReplacePageSections(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var input struct {
		Sections []struct {
			Kind    string `json:"kind"`
			Content string `json:"content"`
			Styles  string `json:"styles"`
		} `json:"sections"`
	}
	if !bindJSON(c, &input, "invalid sections payload") {
		return
	}

	inputs := make([]service.SectionInput, len(input.Sections))
	for i, section := range input.Sections {
		inputs[i] = service.SectionInput{
			Kind:    section.Kind,
			Order:   i,
			Content: section.Content,
			Styles:  section.Styles,
		}
	}

	sections, err := a.pages.ReplaceSections(id, inputs)
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			respondError(c, http.StatusNotFound, "page not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to replace sections")
		return
	}
	respondOK(c, gin.H{"sections": sections})
}
