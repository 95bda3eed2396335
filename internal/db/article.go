package db

import (
	"time"

	"gorm.io/gorm"
)

// Article statuses.
const (
	ArticleStatusDraft     = "DRAFT"
	ArticleStatusPublished = "PUBLISHED"
)

// Article 定义了文章模型，正文按语言拆分到 ArticleTranslation。
type Article struct {
	gorm.Model
	Slug         string `gorm:"uniqueIndex;not null"`
	Status       string `gorm:"index;default:DRAFT"`
	CoverImage   string
	PublishedAt  *time.Time
	CategoryID   *uint
	Category     *Category
	AuthorID     uint
	Author       User
	Translations []ArticleTranslation
}

// ArticleTranslation holds one language's copy of an article.
type ArticleTranslation struct {
	gorm.Model
	ArticleID uint   `gorm:"index:idx_article_translation,unique"`
	Language  string `gorm:"index:idx_article_translation,unique;not null"`
	Title     string `gorm:"not null"`
	Summary   string
	Content   string `gorm:"type:text"`
}

// Category groups articles; labels are language-scoped.
type Category struct {
	gorm.Model
	Slug         string `gorm:"uniqueIndex;not null"`
	Order        int    `gorm:"column:sort_order"`
	Translations []CategoryTranslation
}

// CategoryTranslation holds one language's name for a category.
type CategoryTranslation struct {
	gorm.Model
	CategoryID  uint   `gorm:"index:idx_category_translation,unique"`
	Language    string `gorm:"index:idx_category_translation,unique;not null"`
	Name        string `gorm:"not null"`
	Description string
}
