package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wisnuvb/calmsey/internal/service"
)

// ListArticlesAdmin returns every article for the admin table.
func (a *API) ListArticlesAdmin(c *gin.Context) {
	articles, err := a.articles.ListAll()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load articles")
		return
	}
	respondOK(c, gin.H{"articles": articles})
}

// GetArticleAdmin returns one article with all translations.
func (a *API) GetArticleAdmin(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	article, err := a.articles.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			respondError(c, http.StatusNotFound, "article not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load article")
		return
	}
	respondOK(c, gin.H{"article": article})
}

type articleRequest struct {
	Slug       string `json:"slug"`
	Status     string `json:"status"`
	CoverImage string `json:"coverImage"`
	CategoryID *uint  `json:"categoryId"`
}

// CreateArticle registers an article shell.
func (a *API) CreateArticle(c *gin.Context) {
	var input articleRequest
	if !bindJSON(c, &input, "invalid article payload") {
		return
	}

	article, err := a.articles.Create(service.ArticleInput{
		Slug:       input.Slug,
		Status:     input.Status,
		CoverImage: input.CoverImage,
		CategoryID: input.CategoryID,
		AuthorID:   sessionUserID(c),
	})
	if err != nil {
		if errors.Is(err, service.ErrArticleSlugConflict) {
			respondError(c, http.StatusConflict, "article slug already exists")
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, gin.H{"article": article})
}

// UpdateArticle edits an article shell.
func (a *API) UpdateArticle(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var input articleRequest
	if !bindJSON(c, &input, "invalid article payload") {
		return
	}

	article, err := a.articles.Update(id, service.ArticleInput{
		Slug:       input.Slug,
		Status:     input.Status,
		CoverImage: input.CoverImage,
		CategoryID: input.CategoryID,
	})
	if err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			respondError(c, http.StatusNotFound, "article not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to update article")
		return
	}
	respondOK(c, gin.H{"article": article})
}

// DeleteArticle removes an article and its translations.
func (a *API) DeleteArticle(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.articles.Delete(id); err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			respondError(c, http.StatusNotFound, "article not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete article")
		return
	}
	respondOK(c, nil)
}

// SaveArticleTranslation creates or updates one language's copy.
func (a *API) SaveArticleTranslation(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var input struct {
		Language string `json:"language"`
		Title    string `json:"title"`
		Summary  string `json:"summary"`
		Content  string `json:"content"`
	}
	if !bindJSON(c, &input, "invalid translation payload") {
		return
	}

	translation, err := a.articles.SaveTranslation(id, service.ArticleTranslationInput{
		Language: input.Language,
		Title:    input.Title,
		Summary:  input.Summary,
		Content:  input.Content,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrArticleNotFound):
			respondError(c, http.StatusNotFound, "article not found")
		case errors.Is(err, service.ErrArticleTitleMissing):
			respondError(c, http.StatusBadRequest, "article title is required")
		default:
			respondError(c, http.StatusBadRequest, err.Error())
		}
		return
	}
	respondOK(c, gin.H{"translation": translation})
}
