package db

import "gorm.io/gorm"

// Language 定义站点可用语言，作为所有翻译查询的分区键。
// 约定：活跃语言中应当恰好有一个默认语言。
type Language struct {
	gorm.Model
	Code       string `gorm:"uniqueIndex;not null"`
	Name       string `gorm:"not null"`
	NativeName string
	IsActive   bool `gorm:"default:true"`
	IsDefault  bool `gorm:"default:false"`
}
