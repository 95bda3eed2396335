package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wisnuvb/calmsey/internal/content"
	"github.com/wisnuvb/calmsey/internal/db"
	"github.com/wisnuvb/calmsey/internal/pagetype"
	"github.com/wisnuvb/calmsey/internal/service"
)

// GetLanguages lists active languages, default first.
func (a *API) GetLanguages(c *gin.Context) {
	languages, err := a.languages.ListActive()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load languages")
		return
	}

	payload := make([]gin.H, len(languages))
	for i, l := range languages {
		payload[i] = gin.H{
			"code":       l.Code,
			"name":       l.Name,
			"nativeName": l.NativeName,
			"isDefault":  l.IsDefault,
		}
	}
	respondOK(c, gin.H{"languages": payload})
}

// GetNavigation returns the localized menu tree for a menu key.
func (a *API) GetNavigation(c *gin.Context) {
	key := c.DefaultQuery("menu", "header")
	language := a.requestLanguage(c)

	tree, err := a.menus.Tree(key, language)
	if err != nil {
		if errors.Is(err, service.ErrMenuKeyMissing) {
			respondError(c, http.StatusBadRequest, "menu key is required")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load navigation")
		return
	}
	respondOK(c, gin.H{"menu": key, "language": language, "items": tree})
}

// GetPageContent resolves the content overlay for one static page type.
// 内容缺失时返回空映射而不是错误，前端始终可以渲染。
func (a *API) GetPageContent(c *gin.Context) {
	pt, err := pagetype.Parse(c.Param("type"))
	if err != nil {
		respondError(c, http.StatusNotFound, "unknown page type")
		return
	}

	language := a.requestLanguage(c)
	loader := content.NewLoader(a.db, a.logger)
	res := loader.Resolve(pt, language)

	payload := gin.H{
		"pageType": pt.String(),
		"language": language,
		"content":  res.Values,
		"source":   string(res.Source),
	}

	page, err := a.pages.GetByType(pt)
	if err == nil {
		payload["slug"] = page.Slug
		payload["sections"] = sectionsPayload(page.Sections)
		if tr := pageTranslationFor(page.Translations, language); tr != nil {
			payload["title"] = tr.Title
			payload["metaDescription"] = tr.MetaDescription
		}
	}

	respondOK(c, payload)
}

// GetArticles lists published articles with localized text.
func (a *API) GetArticles(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "pageSize", 10)
	language := a.requestLanguage(c)

	articles, total, err := a.articles.ListPublished(page, pageSize)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load articles")
		return
	}

	payload := make([]gin.H, 0, len(articles))
	for i := range articles {
		payload = append(payload, publicArticlePayload(&articles[i], language, false))
	}
	respondOK(c, gin.H{
		"articles": payload,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
		"language": language,
	})
}

// GetArticle returns one published article with rendered HTML content.
func (a *API) GetArticle(c *gin.Context) {
	article, err := a.articles.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			respondError(c, http.StatusNotFound, "article not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load article")
		return
	}
	if article.Status != db.ArticleStatusPublished {
		respondError(c, http.StatusNotFound, "article not found")
		return
	}

	language := a.requestLanguage(c)
	respondOK(c, gin.H{"article": publicArticlePayload(article, language, true), "language": language})
}

// GetCategories lists categories with localized names.
func (a *API) GetCategories(c *gin.Context) {
	language := a.requestLanguage(c)

	categories, err := a.categories.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load categories")
		return
	}

	payload := make([]gin.H, 0, len(categories))
	for _, category := range categories {
		item := gin.H{"id": category.ID, "slug": category.Slug}
		if tr := categoryTranslationFor(category.Translations, language); tr != nil {
			item["name"] = tr.Name
			item["description"] = tr.Description
		}
		payload = append(payload, item)
	}
	respondOK(c, gin.H{"categories": payload, "language": language})
}

// GetFunds lists active funds with localized text and the structured info
// payload passed through verbatim.
func (a *API) GetFunds(c *gin.Context) {
	language := a.requestLanguage(c)

	funds, err := a.funds.ListActive()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load funds")
		return
	}

	payload := make([]gin.H, 0, len(funds))
	for _, fund := range funds {
		item := gin.H{"id": fund.ID, "slug": fund.Slug, "info": rawJSON(fund.Info)}
		if tr := fundTranslationFor(fund.Translations, language); tr != nil {
			item["name"] = tr.Name
			item["description"] = tr.Description
		}
		payload = append(payload, item)
	}
	respondOK(c, gin.H{"funds": payload, "language": language})
}

// GetFooter returns the localized footer sections.
func (a *API) GetFooter(c *gin.Context) {
	language := a.requestLanguage(c)

	sections, err := a.footer.List(language)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load footer")
		return
	}

	payload := make([]gin.H, 0, len(sections))
	for _, section := range sections {
		payload = append(payload, gin.H{
			"key":     section.Key,
			"kind":    section.Kind,
			"title":   section.Title,
			"content": section.Content,
		})
	}
	respondOK(c, gin.H{"sections": payload, "language": language})
}

// GetSettings exposes the site settings key/value map.
func (a *API) GetSettings(c *gin.Context) {
	settings, err := a.settings.All()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load settings")
		return
	}
	respondOK(c, gin.H{"settings": settings})
}

// SubmitContact accepts a public contact form submission.
func (a *API) SubmitContact(c *gin.Context) {
	var input struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if !bindJSON(c, &input, "invalid contact payload") {
		return
	}

	submission, err := a.contacts.Submit(c.Request.Context(), service.SubmissionInput{
		Name:    input.Name,
		Email:   input.Email,
		Subject: input.Subject,
		Message: input.Message,
		IP:      c.ClientIP(),
	})
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			a.countContact("invalid")
			respondErrorDetails(c, http.StatusBadRequest, "invalid contact submission", verr.Details)
		case errors.Is(err, service.ErrRateLimited):
			a.countContact("rate_limited")
			respondError(c, http.StatusTooManyRequests, "too many submissions, please try again later")
		default:
			a.countContact("error")
			respondError(c, http.StatusInternalServerError, "failed to store submission")
		}
		return
	}

	a.countContact("accepted")
	respondCreated(c, gin.H{"id": submission.ID})
}

func publicArticlePayload(article *db.Article, language string, withContent bool) gin.H {
	payload := gin.H{
		"id":         article.ID,
		"slug":       article.Slug,
		"coverImage": article.CoverImage,
	}
	if article.PublishedAt != nil {
		payload["publishedAt"] = article.PublishedAt
	}
	if article.Category != nil {
		category := gin.H{"id": article.Category.ID, "slug": article.Category.Slug}
		if tr := categoryTranslationFor(article.Category.Translations, language); tr != nil {
			category["name"] = tr.Name
		}
		payload["category"] = category
	}

	if tr := service.TranslationFor(article.Translations, language); tr != nil {
		payload["title"] = tr.Title
		payload["summary"] = tr.Summary
		payload["translationLanguage"] = tr.Language
		if withContent {
			rendered, err := service.RenderContent(tr.Content)
			if err == nil {
				payload["contentHtml"] = rendered
			}
		}
	}
	return payload
}

func pageTranslationFor(translations []db.PageTranslation, language string) *db.PageTranslation {
	for i := range translations {
		if translations[i].Language == language {
			return &translations[i]
		}
	}
	if len(translations) > 0 {
		return &translations[0]
	}
	return nil
}

func categoryTranslationFor(translations []db.CategoryTranslation, language string) *db.CategoryTranslation {
	for i := range translations {
		if translations[i].Language == language {
			return &translations[i]
		}
	}
	if len(translations) > 0 {
		return &translations[0]
	}
	return nil
}

func fundTranslationFor(translations []db.FundTranslation, language string) *db.FundTranslation {
	for i := range translations {
		if translations[i].Language == language {
			return &translations[i]
		}
	}
	if len(translations) > 0 {
		return &translations[0]
	}
	return nil
}

func sectionsPayload(sections []db.PageSection) []gin.H {
	payload := make([]gin.H, 0, len(sections))
	for _, section := range sections {
		payload = append(payload, gin.H{
			"id":      section.ID,
			"kind":    section.Kind,
			"content": rawJSON(section.Content),
			"styles":  rawJSON(section.Styles),
		})
	}
	return payload
}
