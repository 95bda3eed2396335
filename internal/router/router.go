package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/wisnuvb/calmsey/internal/config"
	"github.com/wisnuvb/calmsey/internal/handler"
	"github.com/wisnuvb/calmsey/internal/metrics"
	"github.com/wisnuvb/calmsey/internal/role"
)

// Setup 配置 Gin 引擎和全部路由。
func Setup(api *handler.API, cfg config.Config, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("calmsey_session", store))

	if m != nil {
		r.Use(m.Middleware())
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	public := r.Group("/api/public")
	{
		public.GET("/languages", api.GetLanguages)
		public.GET("/navigation", api.GetNavigation)
		public.GET("/pages/:type", api.GetPageContent)
		public.GET("/articles", api.GetArticles)
		public.GET("/articles/:slug", api.GetArticle)
		public.GET("/categories", api.GetCategories)
		public.GET("/funds", api.GetFunds)
		public.GET("/footer", api.GetFooter)
		public.GET("/settings", api.GetSettings)
		public.POST("/contact", api.SubmitContact)
	}

	r.GET("/api/auth/setup-status", api.SetupStatus)
	r.POST("/api/auth/login", api.Login)
	r.POST("/api/auth/logout", api.Logout)

	admin := r.Group("/api/admin")
	admin.Use(handler.AuthRequired())
	{
		admin.GET("/me", api.Me)

		// VIEWER 及以上可读
		viewer := admin.Group("", handler.RequireRole(role.Viewer))
		{
			viewer.GET("/pages", api.ListPages)
			viewer.GET("/pages/:id", api.GetPage)
			viewer.GET("/articles", api.ListArticlesAdmin)
			viewer.GET("/articles/:id", api.GetArticleAdmin)
			viewer.GET("/categories", api.ListCategoriesAdmin)
			viewer.GET("/templates", api.ListTemplates)
			viewer.GET("/templates/:id", api.GetTemplate)
			viewer.GET("/brandkits", api.ListBrandkits)
			viewer.GET("/brandkits/:id", api.GetBrandkit)
			viewer.GET("/menus/:key", api.GetMenuAdmin)
			viewer.GET("/funds", api.ListFundsAdmin)
			viewer.GET("/footer", api.ListFooterAdmin)
			viewer.GET("/settings", api.ListSettings)
			viewer.GET("/media", api.ListMedia)
			viewer.GET("/contacts", api.ListContacts)
		}

		// AUTHOR 及以上可写文章内容
		author := admin.Group("", handler.RequireRole(role.Author))
		{
			author.POST("/articles", api.CreateArticle)
			author.PUT("/articles/:id", api.UpdateArticle)
			author.PUT("/articles/:id/translations", api.SaveArticleTranslation)
			author.POST("/media", api.UploadMedia)
		}

		// EDITOR 及以上可改站点内容
		editor := admin.Group("", handler.RequireRole(role.Editor))
		{
			editor.DELETE("/articles/:id", api.DeleteArticle)
			editor.POST("/categories", api.CreateCategory)
			editor.PUT("/categories/:id", api.UpdateCategory)
			editor.DELETE("/categories/:id", api.DeleteCategory)
			editor.PUT("/categories/:id/translations", api.SaveCategoryTranslation)

			editor.POST("/pages", api.CreatePage)
			editor.PUT("/pages/:id", api.UpdatePage)
			editor.PUT("/pages/:id/translations", api.SavePageTranslation)
			editor.PUT("/pages/:id/sections", api.ReplacePageSections)

			editor.POST("/templates", api.CreateTemplate)
			editor.PUT("/templates/:id", api.UpdateTemplate)
			editor.POST("/templates/:id/clone", api.CloneTemplate)
			editor.GET("/templates/:id/export", api.ExportTemplate)
			editor.POST("/templates/import", api.ImportTemplate)
			editor.POST("/templates/import/preview", api.PreviewTemplateImport)

			editor.POST("/brandkits", api.CreateBrandkit)
			editor.PUT("/brandkits/:id", api.UpdateBrandkit)
			editor.POST("/brandkits/:id/apply", api.ApplyBrandkit)

			editor.PUT("/menus/:key", api.RebuildMenu)

			editor.POST("/funds", api.CreateFund)
			editor.PUT("/funds/:id", api.UpdateFund)
			editor.PUT("/funds/:id/translations", api.SaveFundTranslation)

			editor.POST("/footer", api.CreateFooterSection)
			editor.PUT("/footer/:id", api.UpdateFooterSection)
			editor.DELETE("/footer/:id", api.DeleteFooterSection)

			editor.PUT("/contacts/:id/status", api.UpdateContactStatus)
			editor.DELETE("/media/:id", api.DeleteMedia)
		}

		// ADMIN 及以上可做破坏性与全局操作
		adminOnly := admin.Group("", handler.RequireRole(role.Admin))
		{
			adminOnly.DELETE("/pages/:id", api.DeletePage)
			adminOnly.DELETE("/templates/:id", api.DeleteTemplate)
			adminOnly.DELETE("/brandkits/:id", api.DeleteBrandkit)
			adminOnly.DELETE("/funds/:id", api.DeleteFund)
			adminOnly.DELETE("/contacts/:id", api.DeleteContact)

			adminOnly.GET("/languages", api.ListLanguagesAdmin)
			adminOnly.POST("/languages", api.CreateLanguage)
			adminOnly.PUT("/languages/:id", api.UpdateLanguage)
			adminOnly.DELETE("/languages/:id", api.DeleteLanguage)

			adminOnly.PUT("/settings", api.SaveSettings)
			adminOnly.DELETE("/settings/:key", api.DeleteSetting)
		}

		// 仅 SUPER_ADMIN 可管理账号
		superOnly := admin.Group("", handler.RequireRole(role.SuperAdmin))
		{
			superOnly.GET("/users", api.ListUsers)
			superOnly.POST("/users", api.CreateUser)
			superOnly.PUT("/users/:id", api.UpdateUser)
			superOnly.DELETE("/users/:id", api.DeleteUser)
		}
	}

	return r
}
