package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/wisnuvb/calmsey/internal/db"
	"gorm.io/gorm"
)

var (
	ErrFundNotFound     = errors.New("fund not found")
	ErrFundSlugConflict = errors.New("fund slug already exists")
)

// FundService wraps fund related operations.
type FundService struct {
	db *gorm.DB
}

// NewFundService creates a FundService instance.
func NewFundService(gdb *gorm.DB) *FundService {
	return &FundService{db: gdb}
}

// ListActive returns active funds in configured order for the public site.
func (s *FundService) ListActive() ([]db.Fund, error) {
	var funds []db.Fund
	err := s.db.Preload("Translations").
		Where("is_active = ?", true).
		Order("sort_order ASC, slug ASC").
		Find(&funds).Error
	if err != nil {
		return nil, err
	}
	return funds, nil
}

// ListAll returns every fund for the admin view.
func (s *FundService) ListAll() ([]db.Fund, error) {
	var funds []db.Fund
	err := s.db.Preload("Translations").
		Order("sort_order ASC, slug ASC").
		Find(&funds).Error
	if err != nil {
		return nil, err
	}
	return funds, nil
}

// Get fetches one fund by id.
func (s *FundService) Get(id uint) (*db.Fund, error) {
	var fund db.Fund
	if err := s.db.Preload("Translations").First(&fund, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFundNotFound
		}
		return nil, err
	}
	return &fund, nil
}

// GetBySlug fetches one active fund by slug.
func (s *FundService) GetBySlug(slug string) (*db.Fund, error) {
	var fund db.Fund
	err := s.db.Preload("Translations").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&fund).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFundNotFound
		}
		return nil, err
	}
	return &fund, nil
}

// FundInput carries admin edits to a fund. Info must be a JSON object when
// present; it is stored verbatim and returned untouched.
type FundInput struct {
	Slug     string
	Order    int
	IsActive bool
	Info     string
}

// Create registers a new fund.
func (s *FundService) Create(input FundInput) (*db.Fund, error) {
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		return nil, errors.New("fund slug is required")
	}
	if err := validateFundInfo(input.Info); err != nil {
		return nil, err
	}

	var existing db.Fund
	if err := s.db.Where("slug = ?", slug).First(&existing).Error; err == nil {
		return nil, ErrFundSlugConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fund := db.Fund{
		Slug:     slug,
		Order:    input.Order,
		IsActive: input.IsActive,
		Info:     input.Info,
	}
	if err := s.db.Create(&fund).Error; err != nil {
		return nil, err
	}
	return &fund, nil
}

// Update edits a fund.
func (s *FundService) Update(id uint, input FundInput) (*db.Fund, error) {
	var fund db.Fund
	if err := s.db.First(&fund, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFundNotFound
		}
		return nil, err
	}

	if slug := strings.TrimSpace(input.Slug); slug != "" {
		fund.Slug = slug
	}
	fund.Order = input.Order
	fund.IsActive = input.IsActive
	if input.Info != "" {
		if err := validateFundInfo(input.Info); err != nil {
			return nil, err
		}
		fund.Info = input.Info
	}

	if err := s.db.Save(&fund).Error; err != nil {
		return nil, err
	}
	return &fund, nil
}

// Delete removes a fund and its translations.
func (s *FundService) Delete(id uint) error {
	var fund db.Fund
	if err := s.db.First(&fund, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFundNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("fund_id = ?", fund.ID).Delete(&db.FundTranslation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&fund).Error
	})
}

// FundTranslationInput carries one language's copy of a fund's text.
type FundTranslationInput struct {
	Language    string
	Name        string
	Description string
}

// SaveTranslation creates or updates a fund's localized text.
func (s *FundService) SaveTranslation(fundID uint, input FundTranslationInput) (*db.FundTranslation, error) {
	language := strings.TrimSpace(input.Language)
	if language == "" {
		return nil, errors.New("language is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.New("fund name is required")
	}

	var fund db.Fund
	if err := s.db.First(&fund, fundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFundNotFound
		}
		return nil, err
	}

	var translation db.FundTranslation
	err := s.db.Where("fund_id = ? AND language = ?", fund.ID, language).
		First(&translation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		translation = db.FundTranslation{FundID: fund.ID, Language: language}
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

func validateFundInfo(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return fmt.Errorf("fund info is not a JSON object: %w", err)
	}
	return nil
}
