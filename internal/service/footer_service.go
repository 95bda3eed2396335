package service

import (
	"errors"
	"strings"

	"github.com/wisnuvb/calmsey/internal/db"
	"gorm.io/gorm"
)

var ErrFooterSectionNotFound = errors.New("footer section not found")

// FooterService manages the ordered footer content blocks.
type FooterService struct {
	db *gorm.DB
}

// NewFooterService creates a FooterService instance.
func NewFooterService(gdb *gorm.DB) *FooterService {
	return &FooterService{db: gdb}
}

// List returns footer sections for one language in configured order. An
// empty language returns every section for the admin view.
func (s *FooterService) List(language string) ([]db.FooterSection, error) {
	query := s.db.Model(&db.FooterSection{})
	if language != "" {
		query = query.Where("language = ?", language)
	}

	var sections []db.FooterSection
	if err := query.Order("sort_order ASC, id ASC").Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

// FooterSectionInput carries admin edits to one footer block.
type FooterSectionInput struct {
	Key      string
	Order    int
	Kind     string
	Language string
	Title    string
	Content  string
}

// Create registers a footer section.
func (s *FooterService) Create(input FooterSectionInput) (*db.FooterSection, error) {
	if strings.TrimSpace(input.Language) == "" {
		return nil, errors.New("language is required")
	}

	section := db.FooterSection{
		Key:      strings.TrimSpace(input.Key),
		Order:    input.Order,
		Kind:     strings.TrimSpace(input.Kind),
		Language: strings.TrimSpace(input.Language),
		Title:    strings.TrimSpace(input.Title),
		Content:  input.Content,
	}
	if err := s.db.Create(&section).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

// Update edits a footer section.
func (s *FooterService) Update(id uint, input FooterSectionInput) (*db.FooterSection, error) {
	var section db.FooterSection
	if err := s.db.First(&section, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFooterSectionNotFound
		}
		return nil, err
	}

	if key := strings.TrimSpace(input.Key); key != "" {
		section.Key = key
	}
	section.Order = input.Order
	if kind := strings.TrimSpace(input.Kind); kind != "" {
		section.Kind = kind
	}
	if language := strings.TrimSpace(input.Language); language != "" {
		section.Language = language
	}
	section.Title = strings.TrimSpace(input.Title)
	section.Content = input.Content

	if err := s.db.Save(&section).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

// Delete removes a footer section.
func (s *FooterService) Delete(id uint) error {
	var section db.FooterSection
	if err := s.db.First(&section, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFooterSectionNotFound
		}
		return err
	}
	return s.db.Delete(&section).Error
}
