package service

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/wisnuvb/calmsey/internal/db"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
)

var (
	ErrArticleNotFound     = errors.New("article not found")
	ErrArticleSlugConflict = errors.New("article slug already exists")
	ErrArticleTitleMissing = errors.New("article title is required")
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// ArticleService wraps article related operations.
type ArticleService struct {
	db *gorm.DB
}

// NewArticleService creates an ArticleService instance.
func NewArticleService(gdb *gorm.DB) *ArticleService {
	return &ArticleService{db: gdb}
}

// ListPublished returns published articles ordered newest-first, with
// translations and category preloaded. Pagination is 1-based.
func (s *ArticleService) ListPublished(page, pageSize int) ([]db.Article, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	query := s.db.Model(&db.Article{}).Where("status = ?", db.ArticleStatusPublished)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var articles []db.Article
	err := query.
		Preload("Translations").
		Preload("Category.Translations").
		Order("published_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&articles).Error
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// ListAll returns every article for the admin list view.
func (s *ArticleService) ListAll() ([]db.Article, error) {
	var articles []db.Article
	err := s.db.
		Preload("Translations").
		Preload("Category.Translations").
		Order("created_at DESC").
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// GetBySlug fetches one article by slug.
func (s *ArticleService) GetBySlug(slug string) (*db.Article, error) {
	var article db.Article
	err := s.db.Where("slug = ?", slug).
		Preload("Translations").
		Preload("Category.Translations").
		First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

// Get fetches one article by id.
func (s *ArticleService) Get(id uint) (*db.Article, error) {
	var article db.Article
	err := s.db.Preload("Translations").First(&article, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

// ArticleInput carries admin edits to an article.
type ArticleInput struct {
	Slug       string
	Status     string
	CoverImage string
	CategoryID *uint
	AuthorID   uint
}

// Create registers a new article shell; text lives in translations.
func (s *ArticleService) Create(input ArticleInput) (*db.Article, error) {
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		return nil, errors.New("article slug is required")
	}

	var existing db.Article
	if err := s.db.Where("slug = ?", slug).First(&existing).Error; err == nil {
		return nil, ErrArticleSlugConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	article := db.Article{
		Slug:       slug,
		Status:     db.ArticleStatusDraft,
		CoverImage: strings.TrimSpace(input.CoverImage),
		CategoryID: input.CategoryID,
		AuthorID:   input.AuthorID,
	}
	if strings.EqualFold(input.Status, db.ArticleStatusPublished) {
		now := time.Now()
		article.Status = db.ArticleStatusPublished
		article.PublishedAt = &now
	}

	if err := s.db.Create(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// Update edits an article shell. Publishing stamps PublishedAt once.
func (s *ArticleService) Update(id uint, input ArticleInput) (*db.Article, error) {
	var article db.Article
	if err := s.db.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	if slug := strings.TrimSpace(input.Slug); slug != "" {
		article.Slug = slug
	}
	article.CoverImage = strings.TrimSpace(input.CoverImage)
	article.CategoryID = input.CategoryID

	if input.Status != "" {
		status := strings.ToUpper(strings.TrimSpace(input.Status))
		if status == db.ArticleStatusPublished && article.Status != db.ArticleStatusPublished {
			now := time.Now()
			article.PublishedAt = &now
		}
		article.Status = status
	}

	if err := s.db.Save(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// Delete removes an article and its translations.
func (s *ArticleService) Delete(id uint) error {
	var article db.Article
	if err := s.db.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArticleNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", article.ID).Delete(&db.ArticleTranslation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&article).Error
	})
}

// ArticleTranslationInput carries one language's copy of an article.
type ArticleTranslationInput struct {
	Language string
	Title    string
	Summary  string
	Content  string
}

// SaveTranslation creates or updates one language's copy.
func (s *ArticleService) SaveTranslation(articleID uint, input ArticleTranslationInput) (*db.ArticleTranslation, error) {
	language := strings.TrimSpace(input.Language)
	if language == "" {
		return nil, errors.New("language is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrArticleTitleMissing
	}

	var article db.Article
	if err := s.db.First(&article, articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	var translation db.ArticleTranslation
	err := s.db.Where("article_id = ? AND language = ?", article.ID, language).
		First(&translation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		translation = db.ArticleTranslation{ArticleID: article.ID, Language: language}
	} else if err != nil {
		return nil, err
	}

	translation.Title = strings.TrimSpace(input.Title)
	translation.Summary = strings.TrimSpace(input.Summary)
	translation.Content = input.Content

	if err := s.db.Save(&translation).Error; err != nil {
		return nil, err
	}
	return &translation, nil
}

// RenderContent converts markdown article content into sanitized HTML.
func RenderContent(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return sanitizer.Sanitize(buf.String()), nil
}

// TranslationFor picks the translation matching language, falling back to
// the first available copy.
func TranslationFor(translations []db.ArticleTranslation, language string) *db.ArticleTranslation {
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
