package db

import "gorm.io/gorm"

// Menu item target kinds.
const (
	MenuTargetURL      = "URL"
	MenuTargetPage     = "PAGE"
	MenuTargetCategory = "CATEGORY"
)

// MenuItem 定义导航条目，支持一级父子嵌套。
// 同一 MenuKey 下的条目在重建时整体删除后重建。
type MenuItem struct {
	gorm.Model
	MenuKey    string `gorm:"index;not null"`
	ParentID   *uint  `gorm:"index"`
	Order      int    `gorm:"column:sort_order"`
	TargetKind string `gorm:"default:URL"`
	TargetID   *uint
	URL        string
	Labels     []MenuItemLabel
}

// MenuItemLabel holds a localized label for a menu item.
type MenuItemLabel struct {
	gorm.Model
	MenuItemID uint   `gorm:"index:idx_menu_label,unique"`
	Language   string `gorm:"index:idx_menu_label,unique;not null"`
	Label      string `gorm:"not null"`
}

// FooterSection is an ordered block of footer content managed by admins.
type FooterSection struct {
	gorm.Model
	Key      string `gorm:"index"`
	Order    int    `gorm:"column:sort_order"`
	Kind     string
	Language string
	Title    string
	Content  string `gorm:"type:text"`
}
