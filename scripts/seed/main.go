package main

import (
	"fmt"
	"log"

	"github.com/wisnuvb/calmsey/internal/config"
	"github.com/wisnuvb/calmsey/internal/db"
	"github.com/wisnuvb/calmsey/internal/service"
)

// 开发用数据生成器：向本地数据库写入一套可浏览的示例内容。
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	gdb, err := db.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	languages := service.NewLanguageService(gdb, cfg.DefaultLanguage)
	pages := service.NewPageService(gdb)
	articles := service.NewArticleService(gdb)
	categories := service.NewCategoryService(gdb)
	menus := service.NewMenuService(gdb)
	funds := service.NewFundService(gdb)
	users := service.NewUserService(gdb)

	admin, err := users.Create(service.UserInput{
		Username: "admin",
		Password: "admin123",
		Role:     "SUPER_ADMIN",
		IsActive: true,
	})
	if err != nil {
		log.Printf("admin user: %v", err)
	} else {
		fmt.Printf("created user %s\n", admin.Username)
	}

	for _, input := range []service.LanguageInput{
		{Code: "en", Name: "English", NativeName: "English", IsActive: true, IsDefault: true},
		{Code: "id", Name: "Indonesian", NativeName: "Bahasa Indonesia", IsActive: true},
	} {
		if _, err := languages.Create(input); err != nil {
			log.Printf("language %s: %v", input.Code, err)
		}
	}

	home, err := pages.Create(service.PageInput{PageType: "HOME"})
	if err != nil {
		log.Printf("home page: %v", err)
	} else {
		_, err = pages.SaveTranslation(home.ID, service.TranslationInput{
			Language: "en",
			Title:    "Welcome",
			Entries: map[string]string{
				"hero.title":    "Investing in what matters",
				"hero.subtitle": "Long-term funds for long-term problems",
			},
		})
		if err != nil {
			log.Printf("home translation: %v", err)
		}
	}

	category, err := categories.Create(service.CategoryInput{Slug: "announcements"})
	if err != nil {
		log.Printf("category: %v", err)
	} else {
		if _, err := categories.SaveTranslation(category.ID, service.CategoryTranslationInput{
			Language: "en",
			Name:     "Announcements",
		}); err != nil {
			log.Printf("category translation: %v", err)
		}

		article, err := articles.Create(service.ArticleInput{
			Slug:       "hello-world",
			Status:     "PUBLISHED",
			CategoryID: &category.ID,
		})
		if err != nil {
			log.Printf("article: %v", err)
		} else if _, err := articles.SaveTranslation(article.ID, service.ArticleTranslationInput{
			Language: "en",
			Title:    "Hello World",
			Summary:  "Our first announcement.",
			Content:  "## Welcome\n\nThis is the first article on the new site.",
		}); err != nil {
			log.Printf("article translation: %v", err)
		}
	}

	fund, err := funds.Create(service.FundInput{
		Slug:     "impact-fund-i",
		IsActive: true,
		Info:     `{"target":"USD 10M","vintage":2026}`,
	})
	if err != nil {
		log.Printf("fund: %v", err)
	} else if _, err := funds.SaveTranslation(fund.ID, service.FundTranslationInput{
		Language:    "en",
		Name:        "Impact Fund I",
		Description: "Our inaugural impact vehicle.",
	}); err != nil {
		log.Printf("fund translation: %v", err)
	}

	if err := menus.Rebuild("header", []service.MenuItemInput{
		{TargetKind: "URL", URL: "/", Labels: map[string]string{"en": "Home", "id": "Beranda"}},
		{TargetKind: "URL", URL: "/funds", Labels: map[string]string{"en": "Funds", "id": "Dana"}},
		{TargetKind: "URL", URL: "/news", Labels: map[string]string{"en": "News", "id": "Berita"}},
		{TargetKind: "URL", URL: "/contact", Labels: map[string]string{"en": "Contact", "id": "Kontak"}},
	}); err != nil {
		log.Printf("menu: %v", err)
	}

	fmt.Println("seed data written")
}
