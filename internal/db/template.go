package db

import "gorm.io/gorm"

// Template is a reusable, importable bundle of section definitions and
// global style tokens. Sections and GlobalStyles hold JSON payloads.
type Template struct {
	gorm.Model
	Name          string `gorm:"not null"`
	Description   string
	AuthorID      uint
	Author        User
	IsPublic      bool `gorm:"default:false"`
	IsFeatured    bool `gorm:"default:false"`
	UsageCount    int  `gorm:"default:0"`
	DownloadCount int  `gorm:"default:0"`
	Version       string
	SchemaVersion string
	Sections      string `gorm:"type:text"`
	GlobalStyles  string `gorm:"type:text"`
}

// Brandkit is a named bundle of design tokens. Applying a brandkit never
// mutates the brandkit itself, only the target's section styles.
type Brandkit struct {
	gorm.Model
	Name          string `gorm:"not null"`
	Description   string
	AuthorID      uint
	Author        User
	IsPublic      bool `gorm:"default:false"`
	IsDefault     bool `gorm:"default:false"`
	SchemaVersion string
	Colors        string `gorm:"type:text"`
	Typography    string `gorm:"type:text"`
	Spacing       string `gorm:"type:text"`
	Assets        string `gorm:"type:text"`
}
