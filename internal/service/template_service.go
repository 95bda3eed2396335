package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wisnuvb/calmsey/internal/archive"
	"github.com/wisnuvb/calmsey/internal/db"
	"gorm.io/gorm"
)

var (
	ErrTemplateNotFound    = errors.New("template not found")
	ErrTemplateNameMissing = errors.New("template name is required")
	ErrImportRejected      = errors.New("template archive failed validation")
)

// TemplateSection is the JSON shape of one section inside a template's
// Sections column.
type TemplateSection struct {
	ID      string            `json:"id"`
	Kind    string            `json:"kind"`
	Content json.RawMessage   `json:"content,omitempty"`
	Styles  map[string]string `json:"styles,omitempty"`
}

// TemplateService wraps template CRUD, cloning and archive packaging.
type TemplateService struct {
	db       *gorm.DB
	packager *archive.Packager
}

// NewTemplateService creates a TemplateService instance.
func NewTemplateService(gdb *gorm.DB, packager *archive.Packager) *TemplateService {
	return &TemplateService{db: gdb, packager: packager}
}

// List returns templates filtered for the admin library view.
func (s *TemplateService) List(publicOnly, featuredOnly bool, authorID uint) ([]db.Template, error) {
	query := s.db.Model(&db.Template{})
	if publicOnly {
		query = query.Where("is_public = ?", true)
	}
	if featuredOnly {
		query = query.Where("is_featured = ?", true)
	}
	if authorID != 0 {
		query = query.Where("author_id = ?", authorID)
	}

	var templates []db.Template
	if err := query.Order("updated_at DESC").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// Get fetches one template by id.
func (s *TemplateService) Get(id uint) (*db.Template, error) {
	var template db.Template
	if err := s.db.First(&template, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &template, nil
}

// TemplateInput carries admin edits to a template.
type TemplateInput struct {
	Name          string
	Description   string
	AuthorID      uint
	IsPublic      bool
	IsFeatured    bool
	Version       string
	SchemaVersion string
	Sections      string
	GlobalStyles  string
}

// Create registers a new template.
func (s *TemplateService) Create(input TemplateInput) (*db.Template, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTemplateNameMissing
	}
	if err := validateSectionsJSON(input.Sections); err != nil {
		return nil, err
	}

	template := db.Template{
		Name:          strings.TrimSpace(input.Name),
		Description:   strings.TrimSpace(input.Description),
		AuthorID:      input.AuthorID,
		IsPublic:      input.IsPublic,
		IsFeatured:    input.IsFeatured,
		Version:       strings.TrimSpace(input.Version),
		SchemaVersion: strings.TrimSpace(input.SchemaVersion),
		Sections:      input.Sections,
		GlobalStyles:  input.GlobalStyles,
	}
	if err := s.db.Create(&template).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

// Update edits a template record.
func (s *TemplateService) Update(id uint, input TemplateInput) (*db.Template, error) {
	template, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		template.Name = name
	}
	template.Description = strings.TrimSpace(input.Description)
	template.IsPublic = input.IsPublic
	template.IsFeatured = input.IsFeatured
	if input.Version != "" {
		template.Version = strings.TrimSpace(input.Version)
	}
	if input.SchemaVersion != "" {
		template.SchemaVersion = strings.TrimSpace(input.SchemaVersion)
	}
	if input.Sections != "" {
		if err := validateSectionsJSON(input.Sections); err != nil {
			return nil, err
		}
		template.Sections = input.Sections
	}
	if input.GlobalStyles != "" {
		template.GlobalStyles = input.GlobalStyles
	}

	if err := s.db.Save(template).Error; err != nil {
		return nil, err
	}
	return template, nil
}

// Delete removes a template.
func (s *TemplateService) Delete(id uint) error {
	template, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.db.Delete(template).Error
}

// Clone copies a template's section and style payload into a fresh record
// under the supplied name, and bumps the source's usage counter.
func (s *TemplateService) Clone(id uint, name string, authorID uint) (*db.Template, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrTemplateNameMissing
	}

	source, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	clone := db.Template{
		Name:          strings.TrimSpace(name),
		Description:   source.Description,
		AuthorID:      authorID,
		IsPublic:      false,
		IsFeatured:    false,
		Version:       source.Version,
		SchemaVersion: source.SchemaVersion,
		Sections:      source.Sections,
		GlobalStyles:  source.GlobalStyles,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&clone).Error; err != nil {
			return err
		}
		return tx.Model(&db.Template{}).Where("id = ?", source.ID).
			Update("usage_count", gorm.Expr("usage_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &clone, nil
}

// Export packages a template into an archive and increments its download
// counter as an observable side effect.
func (s *TemplateService) Export(id uint, authorName string, assets []archive.Asset) ([]byte, error) {
	template, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	manifest := archive.Manifest{
		Name:        template.Name,
		Description: template.Description,
		Author:      authorName,
		Version:     orDefault(template.Version, "1.0.0"),
	}
	payload := archive.TemplatePayload{
		Name:          template.Name,
		SchemaVersion: template.SchemaVersion,
		Sections:      json.RawMessage(orDefault(template.Sections, "[]")),
		GlobalStyles:  json.RawMessage(orDefault(template.GlobalStyles, "{}")),
	}

	data, err := s.packager.Export(manifest, payload, assets)
	if err != nil {
		return nil, fmt.Errorf("export template %d: %w", id, err)
	}

	if err := s.db.Model(&db.Template{}).Where("id = ?", template.ID).
		Update("download_count", gorm.Expr("download_count + 1")).Error; err != nil {
		return nil, err
	}
	return data, nil
}

// ImportOutcome is a successful import plus anything worth surfacing.
type ImportOutcome struct {
	Template *db.Template
	Assets   []archive.Asset
	Warnings []string
}

// Import validates an uploaded archive and, if it passes, stores the
// template. A failed validation is returned alongside ErrImportRejected
// so the handler can enumerate every problem to the client.
func (s *TemplateService) Import(r io.ReaderAt, size int64, authorID uint) (*ImportOutcome, *archive.Validation, error) {
	result, err := s.packager.Import(r, size)
	if err != nil {
		return nil, nil, err
	}
	if !result.Validation.OK() {
		return nil, &result.Validation, ErrImportRejected
	}

	template := db.Template{
		Name:          result.Manifest.Name,
		Description:   result.Manifest.Description,
		AuthorID:      authorID,
		Version:       result.Manifest.Version,
		SchemaVersion: result.Template.SchemaVersion,
		Sections:      string(result.Template.Sections),
		GlobalStyles:  string(result.Template.GlobalStyles),
	}
	if err := s.db.Create(&template).Error; err != nil {
		return nil, nil, err
	}

	return &ImportOutcome{
		Template: &template,
		Assets:   result.Assets,
		Warnings: result.Validation.Warnings,
	}, nil, nil
}

// Preview extracts only the manifest and screenshots for the confirmation
// step, without committing anything.
func (s *TemplateService) Preview(r io.ReaderAt, size int64) (*archive.PreviewResult, error) {
	return s.packager.Preview(r, size)
}

// DecodeSections parses a template's Sections column.
func DecodeSections(raw string) ([]TemplateSection, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var sections []TemplateSection
	if err := json.Unmarshal([]byte(raw), &sections); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	return sections, nil
}

func validateSectionsJSON(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var sections []TemplateSection
	if err := json.Unmarshal([]byte(raw), &sections); err != nil {
		return fmt.Errorf("sections payload is not a valid section list: %w", err)
	}
	return nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
