package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Init 打开数据库连接并执行自动迁移，返回注入各服务的句柄。
// databasePath 为空时回退到默认值 calmsey.db。
func Init(databasePath string) (*gorm.DB, error) {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = "calmsey.db"
	}

	if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}

	return gdb, nil
}

// Migrate 为核心模型创建表。
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&Language{},
		&Page{},
		&PageTranslation{},
		&PageContentEntry{},
		&PageSection{},
		&Article{},
		&ArticleTranslation{},
		&Category{},
		&CategoryTranslation{},
		&Template{},
		&Brandkit{},
		&MenuItem{},
		&MenuItemLabel{},
		&FooterSection{},
		&ContactSubmission{},
		&Media{},
		&SiteSetting{},
		&User{},
		&Fund{},
		&FundTranslation{},
	)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
