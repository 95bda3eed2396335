package service

import (
	"errors"
	"strings"

	"github.com/wisnuvb/calmsey/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategorySlugConflict = errors.New("category slug already exists")
	ErrCategoryInUse        = errors.New("category still has articles")
)

// CategoryService wraps category related operations.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// List returns categories in configured order with translations preloaded.
func (s *CategoryService) List() ([]db.Category, error) {
	var categories []db.Category
	err := s.db.Preload("Translations").
		Order("sort_order ASC, slug ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Get fetches one category by id.
func (s *CategoryService) Get(id uint) (*db.Category, error) {
	var category db.Category
	if err := s.db.Preload("Translations").First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// CategoryInput carries admin edits to a category.
type CategoryInput struct {
	Slug  string
	Order int
}

// Create registers a new category.
func (s *CategoryService) Create(input CategoryInput) (*db.Category, error) {
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		return nil, errors.New("category slug is required")
	}

	var existing db.Category
	if err := s.db.Where("slug = ?", slug).First(&existing).Error; err == nil {
		return nil, ErrCategorySlugConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := db.Category{Slug: slug, Order: input.Order}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Update edits a category.
func (s *CategoryService) Update(id uint, input CategoryInput) (*db.Category, error) {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	if slug := strings.TrimSpace(input.Slug); slug != "" {
		category.Slug = slug
	}
	category.Order = input.Order

	if err := s.db.Save(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete removes an empty category and its translations.
func (s *CategoryService) Delete(id uint) error {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	var count int64
	if err := s.db.Model(&db.Article{}).Where("category_id = ?", category.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", category.ID).Delete(&db.CategoryTranslation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
}

// CategoryTranslationInput carries one language's name for a category.
type CategoryTranslationInput struct {
	Language    string
	Name        string
	Description string
}

// SaveTranslation creates or updates a category's localized name.
func (s *CategoryService) SaveTranslation(categoryID uint, input CategoryTranslationInput) (*db.CategoryTranslation, error) {
	language := strings.TrimSpace(input.Language)
	if language == "" {
		return nil, errors.New("language is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.New("category name is required")
	}

	var category db.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	var translation db.CategoryTranslation
	err := s.db.Where("category_id = ? AND language = ?", category.ID, language).
		First(&translation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		translation = db.CategoryTranslation{CategoryID: category.ID, Language: language}
	} else if err != nil {
		return nil, err
	}

	translation.Name = strings.TrimSpace(input.Name)
	translation.Description = strings.TrimSpace(input.Description)

	if err := s.db.Save(&translation).Error; err != nil {
		return nil, err
	}
	return &translation, nil
}
