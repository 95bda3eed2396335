package service

import (
	"errors"
	"strings"

	"github.com/wisnuvb/calmsey/internal/db"
	"github.com/wisnuvb/calmsey/internal/locale"
	"gorm.io/gorm"
)

var (
	ErrLanguageNotFound = errors.New("language not found")
	ErrLanguageCodeUsed = errors.New("language code already exists")
	ErrLanguageInvalid  = errors.New("language code and name are required")
)

// LanguageService 是语言注册表：维护活跃语言列表并解析请求语言。
type LanguageService struct {
	db              *gorm.DB
	fallbackDefault string
}

// NewLanguageService constructs a LanguageService. fallbackDefault is used
// when no stored language is flagged as default.
func NewLanguageService(gdb *gorm.DB, fallbackDefault string) *LanguageService {
	if strings.TrimSpace(fallbackDefault) == "" {
		fallbackDefault = locale.DefaultLanguage
	}
	return &LanguageService{db: gdb, fallbackDefault: fallbackDefault}
}

// ListActive returns active languages ordered default-first, then
// alphabetically by code.
func (s *LanguageService) ListActive() ([]db.Language, error) {
	var languages []db.Language
	err := s.db.Where("is_active = ?", true).
		Order("is_default DESC, code ASC").
		Find(&languages).Error
	if err != nil {
		return nil, err
	}
	return languages, nil
}

// ListAll returns every configured language for the admin UI.
func (s *LanguageService) ListAll() ([]db.Language, error) {
	var languages []db.Language
	if err := s.db.Order("is_default DESC, code ASC").Find(&languages).Error; err != nil {
		return nil, err
	}
	return languages, nil
}

// Default returns the code of the default active language, falling back to
// the configured default when none is flagged.
func (s *LanguageService) Default() string {
	var language db.Language
	err := s.db.Where("is_active = ? AND is_default = ?", true, true).
		First(&language).Error
	if err != nil {
		return s.fallbackDefault
	}
	return language.Code
}

// Resolve matches a raw language tag against the active list and returns
// the matching code, or the default when the tag is absent or unknown.
func (s *LanguageService) Resolve(raw string) string {
	active, err := s.ListActive()
	if err != nil {
		return s.fallbackDefault
	}

	codes := make([]string, 0, len(active))
	for _, l := range active {
		codes = append(codes, l.Code)
	}

	if matched := locale.Match(raw, codes); matched != "" {
		return matched
	}
	return s.Default()
}

// ResolveAcceptLanguage resolves an Accept-Language header against the
// active list, falling back to the default language.
func (s *LanguageService) ResolveAcceptLanguage(header string) string {
	active, err := s.ListActive()
	if err != nil {
		return s.fallbackDefault
	}

	codes := make([]string, 0, len(active))
	for _, l := range active {
		codes = append(codes, l.Code)
	}

	if matched := locale.FromAcceptLanguage(header, codes); matched != "" {
		return matched
	}
	return s.Default()
}

// LanguageInput carries admin edits to a language record.
type LanguageInput struct {
	Code       string
	Name       string
	NativeName string
	IsActive   bool
	IsDefault  bool
}

// Create registers a new language. Marking it default clears the flag on
// every other language inside the same transaction.
func (s *LanguageService) Create(input LanguageInput) (*db.Language, error) {
	code := locale.Normalize(input.Code)
	if code == "" || strings.TrimSpace(input.Name) == "" {
		return nil, ErrLanguageInvalid
	}

	var existing db.Language
	if err := s.db.Where("code = ?", code).First(&existing).Error; err == nil {
		return nil, ErrLanguageCodeUsed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	language := db.Language{
		Code:       code,
		Name:       strings.TrimSpace(input.Name),
		NativeName: strings.TrimSpace(input.NativeName),
		IsActive:   input.IsActive,
		IsDefault:  input.IsDefault,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if language.IsDefault {
			if err := tx.Model(&db.Language{}).Where("is_default = ?", true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&language).Error
	})
	if err != nil {
		return nil, err
	}
	return &language, nil
}

// Update edits a language record, keeping the single-default convention.
func (s *LanguageService) Update(id uint, input LanguageInput) (*db.Language, error) {
	var language db.Language
	if err := s.db.First(&language, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLanguageNotFound
		}
		return nil, err
	}

	if strings.TrimSpace(input.Name) != "" {
		language.Name = strings.TrimSpace(input.Name)
	}
	language.NativeName = strings.TrimSpace(input.NativeName)
	language.IsActive = input.IsActive

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if input.IsDefault && !language.IsDefault {
			if err := tx.Model(&db.Language{}).Where("is_default = ?", true).
				Update("is_default", false).Error; err != nil {
				return err
			}
			language.IsDefault = true
		}
		return tx.Save(&language).Error
	})
	if err != nil {
		return nil, err
	}
	return &language, nil
}

// Delete removes a language. The default language cannot be removed.
func (s *LanguageService) Delete(id uint) error {
	var language db.Language
	if err := s.db.First(&language, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLanguageNotFound
		}
		return err
	}
	if language.IsDefault {
		return errors.New("default language cannot be deleted")
	}
	return s.db.Delete(&language).Error
}
