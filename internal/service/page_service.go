package service

import (
	"errors"
	"strings"

	"github.com/wisnuvb/calmsey/internal/db"
	"github.com/wisnuvb/calmsey/internal/pagetype"
	"gorm.io/gorm"
)

var (
	ErrPageNotFound     = errors.New("page not found")
	ErrPageTypeInvalid  = errors.New("unknown page type")
	ErrPageSlugConflict = errors.New("page slug already exists")
)

// PageService provides CRUD over pages, their translations, sections and
// content overlay entries.
type PageService struct {
	db *gorm.DB
}

// NewPageService returns a new PageService instance.
func NewPageService(gdb *gorm.DB) *PageService {
	return &PageService{db: gdb}
}

// GetByType fetches the page for a page-type tag, with sections and
// translations preloaded.
func (s *PageService) GetByType(pt pagetype.PageType) (*db.Page, error) {
	if !pt.Valid() {
		return nil, ErrPageTypeInvalid
	}

	var page db.Page
	err := s.db.Where("page_type = ?", pt.String()).
		Preload("Translations").
		Preload("Sections", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sort_order ASC")
		}).
		First(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

// Get fetches one page by id with sections and translations preloaded.
func (s *PageService) Get(id uint) (*db.Page, error) {
	var page db.Page
	err := s.db.
		Preload("Translations").
		Preload("Sections", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sort_order ASC")
		}).
		First(&page, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

// GetBySlug fetches a page for a public slug.
func (s *PageService) GetBySlug(slug string) (*db.Page, error) {
	var page db.Page
	err := s.db.Where("slug = ?", slug).
		Preload("Translations").
		Preload("Sections", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sort_order ASC")
		}).
		First(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

// List returns all pages for the admin list view.
func (s *PageService) List() ([]db.Page, error) {
	var pages []db.Page
	if err := s.db.Order("page_type ASC").Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

// PageInput carries admin edits to a page record.
type PageInput struct {
	Slug     string
	PageType string
	Template string
}

// Create registers a page for a page type.
func (s *PageService) Create(input PageInput) (*db.Page, error) {
	pt, err := pagetype.Parse(input.PageType)
	if err != nil {
		return nil, ErrPageTypeInvalid
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = pt.DefaultSlug()
	}

	var existing db.Page
	if err := s.db.Where("slug = ?", slug).First(&existing).Error; err == nil {
		return nil, ErrPageSlugConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	page := db.Page{Slug: slug, PageType: pt.String(), Template: strings.TrimSpace(input.Template)}
	if err := s.db.Create(&page).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

// Update edits a page record.
func (s *PageService) Update(id uint, input PageInput) (*db.Page, error) {
	var page db.Page
	if err := s.db.First(&page, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}

	if input.PageType != "" {
		pt, err := pagetype.Parse(input.PageType)
		if err != nil {
			return nil, ErrPageTypeInvalid
		}
		page.PageType = pt.String()
	}
	if slug := strings.TrimSpace(input.Slug); slug != "" {
		page.Slug = slug
	}
	page.Template = strings.TrimSpace(input.Template)

	if err := s.db.Save(&page).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

// Delete removes a page together with its translations and sections.
func (s *PageService) Delete(id uint) error {
	var page db.Page
	if err := s.db.First(&page, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPageNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var translations []db.PageTranslation
		if err := tx.Where("page_id = ?", page.ID).Find(&translations).Error; err != nil {
			return err
		}
		for _, tr := range translations {
			if err := tx.Where("translation_id = ?", tr.ID).Delete(&db.PageContentEntry{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("page_id = ?", page.ID).Delete(&db.PageTranslation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("page_id = ?", page.ID).Delete(&db.PageSection{}).Error; err != nil {
			return err
		}
		return tx.Delete(&page).Error
	})
}

// TranslationInput carries one language's editable page fields plus the
// flattened content overlay.
type TranslationInput struct {
	Language        string
	Title           string
	MetaDescription string
	Entries         map[string]string
}

// SaveTranslation creates or replaces a page translation and its content
// entries in one transaction.
func (s *PageService) SaveTranslation(pageID uint, input TranslationInput) (*db.PageTranslation, error) {
	language := strings.TrimSpace(input.Language)
	if language == "" {
		return nil, errors.New("language is required")
	}

	var page db.Page
	if err := s.db.First(&page, pageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}

	var translation db.PageTranslation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("page_id = ? AND language = ?", page.ID, language).
			First(&translation).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			translation = db.PageTranslation{PageID: page.ID, Language: language}
			if err := tx.Create(&translation).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		translation.Title = strings.TrimSpace(input.Title)
		translation.MetaDescription = strings.TrimSpace(input.MetaDescription)
		if err := tx.Save(&translation).Error; err != nil {
			return err
		}

		if err := tx.Where("translation_id = ?", translation.ID).
			Delete(&db.PageContentEntry{}).Error; err != nil {
			return err
		}
		for key, value := range input.Entries {
			entry := db.PageContentEntry{
				TranslationID: translation.ID,
				Key:           key,
				Value:         value,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &translation, nil
}

// SectionInput carries one section's layout payload.
type SectionInput struct {
	Kind    string
	Order   int
	Content string
	Styles  string
}

// ReplaceSections swaps a page's section list atomically.
func (s *PageService) ReplaceSections(pageID uint, inputs []SectionInput) ([]db.PageSection, error) {
	var page db.Page
	if err := s.db.First(&page, pageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}

	var sections []db.PageSection
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("page_id = ?", page.ID).Delete(&db.PageSection{}).Error; err != nil {
			return err
		}
		for i, input := range inputs {
			section := db.PageSection{
				PageID:  page.ID,
				Order:   i,
				Kind:    strings.TrimSpace(input.Kind),
				Content: input.Content,
				Styles:  input.Styles,
			}
			if err := tx.Create(&section).Error; err != nil {
				return err
			}
			sections = append(sections, section)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sections, nil
}
