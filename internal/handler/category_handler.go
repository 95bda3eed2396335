package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wisnuvb/calmsey/internal/service"
)

// ListCategoriesAdmin returns every category with translations.
func (a *API) ListCategoriesAdmin(c *gin.Context) {
	categories, err := a.categories.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load categories")
		return
	}
	respondOK(c, gin.H{"categories": categories})
}

// CreateCategory registers a category.
func (a *API) CreateCategory(c *gin.Context) {
	var input struct {
		Slug  string `json:"slug"`
		Order int    `json:"order"`
	}
	if !bindJSON(c, &input, "invalid category payload") {
		return
	}

	category, err := a.categories.Create(service.CategoryInput{Slug: input.Slug, Order: input.Order})
	if err != nil {
		if errors.Is(err, service.ErrCategorySlugConflict) {
			respondError(c, http.StatusConflict, "category slug already exists")
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, gin.H{"category": category})
}

// UpdateCategory edits a category.
func (a *API) UpdateCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var input struct {
		Slug  string `json:"slug"`
		Order int    `json:"order"`
	}
	if !bindJSON(c, &input, "invalid category payload") {
		return
	}

	category, err := a.categories.Update(id, service.CategoryInput{Slug: input.Slug, Order: input.Order})
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, http.StatusNotFound, "category not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to update category")
		return
	}
	respondOK(c, gin.H{"category": category})
}

// DeleteCategory removes a category when no article references it.
func (a *API) DeleteCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.categories.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, http.StatusNotFound, "category not found")
		case errors.Is(err, service.ErrCategoryInUse):
			respondError(c, http.StatusConflict, "category still has articles")
		default:
			respondError(c, http.StatusInternalServerError, "failed to delete category")
		}
		return
	}
	respondOK(c, nil)
}

// SaveCategoryTranslation creates or updates a localized category name.
func (a *API) SaveCategoryTranslation(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var input struct {
		Language    string `json:"language"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if !bindJSON(c, &input, "invalid translation payload") {
		return
	}

	translation, err := a.categories.SaveTranslation(id, service.CategoryTranslationInput{
		Language:    input.Language,
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, http.StatusNotFound, "category not found")
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, gin.H{"translation": translation})
}
