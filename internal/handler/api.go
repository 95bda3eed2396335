package handler

import (
	"log/slog"

	"github.com/wisnuvb/calmsey/internal/archive"
	"github.com/wisnuvb/calmsey/internal/config"
	"github.com/wisnuvb/calmsey/internal/mailer"
	"github.com/wisnuvb/calmsey/internal/metrics"
	"github.com/wisnuvb/calmsey/internal/relay"
	"github.com/wisnuvb/calmsey/internal/service"
	"gorm.io/gorm"
)

// AppVersion 标识当前应用版本，用于模板包的版本区间校验。
const AppVersion = "1.0.0"

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	logger     *slog.Logger
	metrics    *metrics.Metrics
	languages  *service.LanguageService
	pages      *service.PageService
	articles   *service.ArticleService
	categories *service.CategoryService
	templates  *service.TemplateService
	brandkits  *service.BrandkitService
	menus      *service.MenuService
	funds      *service.FundService
	footer     *service.FooterService
	settings   *service.SettingService
	media      *service.MediaService
	users      *service.UserService
	contacts   *service.ContactService
}

// NewAPI constructs a handler set with shared services. m may be nil when
// no metrics collection is wanted, e.g. in tests.
func NewAPI(gdb *gorm.DB, cfg config.Config, logger *slog.Logger, m *metrics.Metrics) *API {
	if logger == nil {
		logger = slog.Default()
	}

	relayClient := relay.New(cfg.Relay.EndpointURL)

	return &API{
		db:         gdb,
		logger:     logger,
		metrics:    m,
		languages:  service.NewLanguageService(gdb, cfg.DefaultLanguage),
		pages:      service.NewPageService(gdb),
		articles:   service.NewArticleService(gdb),
		categories: service.NewCategoryService(gdb),
		templates:  service.NewTemplateService(gdb, archive.NewPackager(AppVersion)),
		brandkits:  service.NewBrandkitService(gdb),
		menus:      service.NewMenuService(gdb),
		funds:      service.NewFundService(gdb),
		footer:     service.NewFooterService(gdb),
		settings:   service.NewSettingService(gdb),
		media:      service.NewMediaService(gdb, cfg.UploadDir, cfg.UploadURLPath),
		users:      service.NewUserService(gdb),
		contacts: service.NewContactService(
			gdb,
			mailer.New(cfg.SMTP, logger),
			relayClient,
			logger,
			cfg.Contact.MaxPerWindow,
			contactWindow(cfg.Contact.WindowHours),
		),
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

func (a *API) countContact(outcome string) {
	if a.metrics != nil {
		a.metrics.ContactSubmissionsTotal.WithLabelValues(outcome).Inc()
	}
}

func (a *API) countImport(outcome string) {
	if a.metrics != nil {
		a.metrics.TemplateImportsTotal.WithLabelValues(outcome).Inc()
	}
}
