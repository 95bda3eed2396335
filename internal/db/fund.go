package db

import "gorm.io/gorm"

// Fund represents a fund presented on the public funds page.
// Structured figures (amounts, partners) live in Info as JSON.
type Fund struct {
	gorm.Model
	Slug         string `gorm:"uniqueIndex;not null"`
	Order        int    `gorm:"column:sort_order"`
	IsActive     bool   `gorm:"default:true"`
	Info         string `gorm:"type:text"`
	Translations []FundTranslation
}

// FundTranslation holds one language's copy of a fund's text fields.
type FundTranslation struct {
	gorm.Model
	FundID      uint   `gorm:"index:idx_fund_translation,unique"`
	Language    string `gorm:"index:idx_fund_translation,unique;not null"`
	Name        string `gorm:"not null"`
	Description string `gorm:"type:text"`
}
