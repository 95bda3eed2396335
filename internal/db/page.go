package db

import "gorm.io/gorm"

// Page represents a static route backed by editable content, such as the
// home or governance page. PageType ties the record to its route.
type Page struct {
	gorm.Model
	Slug         string `gorm:"uniqueIndex;not null"`
	PageType     string `gorm:"index;not null"`
	Template     string
	Translations []PageTranslation
	Sections     []PageSection
}

// PageTranslation holds the language-scoped editable fields of a page.
type PageTranslation struct {
	gorm.Model
	PageID          uint   `gorm:"index:idx_page_translation,unique"`
	Language        string `gorm:"index:idx_page_translation,unique;not null"`
	Title           string
	MetaDescription string
	Entries         []PageContentEntry `gorm:"foreignKey:TranslationID"`
}

// PageContentEntry is a single key/value override applied to a page's
// default component props at render time. Value may hold JSON.
type PageContentEntry struct {
	gorm.Model
	TranslationID uint   `gorm:"index:idx_content_key,unique"`
	Key           string `gorm:"index:idx_content_key,unique;not null"`
	Value         string `gorm:"type:text"`
}

// PageSection is an ordered, typed block of layout within a page.
// Content and Styles hold JSON payloads edited by the admin UI.
type PageSection struct {
	gorm.Model
	PageID  uint `gorm:"index"`
	Order   int  `gorm:"column:sort_order"`
	Kind    string
	Content string `gorm:"type:text"`
	Styles  string `gorm:"type:text"`
}
