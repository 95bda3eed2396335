package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wisnuvb/calmsey/internal/brandkit"
	"github.com/wisnuvb/calmsey/internal/db"
	"gorm.io/gorm"
)

var (
	ErrBrandkitNotFound    = errors.New("brandkit not found")
	ErrBrandkitNameMissing = errors.New("brandkit name is required")
)

// BrandkitService wraps brandkit CRUD and the application engine.
type BrandkitService struct {
	db *gorm.DB
}

// NewBrandkitService creates a BrandkitService instance.
func NewBrandkitService(gdb *gorm.DB) *BrandkitService {
	return &BrandkitService{db: gdb}
}

// List returns brandkits, optionally only public ones.
func (s *BrandkitService) List(publicOnly bool) ([]db.Brandkit, error) {
	query := s.db.Model(&db.Brandkit{})
	if publicOnly {
		query = query.Where("is_public = ?", true)
	}

	var kits []db.Brandkit
	if err := query.Order("is_default DESC, name ASC").Find(&kits).Error; err != nil {
		return nil, err
	}
	return kits, nil
}

// Get fetches one brandkit by id.
func (s *BrandkitService) Get(id uint) (*db.Brandkit, error) {
	var kit db.Brandkit
	if err := s.db.First(&kit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBrandkitNotFound
		}
		return nil, err
	}
	return &kit, nil
}

// BrandkitInput carries admin edits to a brandkit.
type BrandkitInput struct {
	Name          string
	Description   string
	AuthorID      uint
	IsPublic      bool
	IsDefault     bool
	SchemaVersion string
	Colors        string
	Typography    string
	Spacing       string
	Assets        string
}

// Create registers a brandkit. Marking it default clears the flag on the
// others in one transaction.
func (s *BrandkitService) Create(input BrandkitInput) (*db.Brandkit, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrBrandkitNameMissing
	}
	for field, raw := range map[string]string{
		"colors":     input.Colors,
		"typography": input.Typography,
		"spacing":    input.Spacing,
		"assets":     input.Assets,
	} {
		if err := validateTokenGroup(field, raw); err != nil {
			return nil, err
		}
	}

	kit := db.Brandkit{
		Name:          strings.TrimSpace(input.Name),
		Description:   strings.TrimSpace(input.Description),
		AuthorID:      input.AuthorID,
		IsPublic:      input.IsPublic,
		IsDefault:     input.IsDefault,
		SchemaVersion: strings.TrimSpace(input.SchemaVersion),
		Colors:        input.Colors,
		Typography:    input.Typography,
		Spacing:       input.Spacing,
		Assets:        input.Assets,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if kit.IsDefault {
			if err := tx.Model(&db.Brandkit{}).Where("is_default = ?", true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&kit).Error
	})
	if err != nil {
		return nil, err
	}
	return &kit, nil
}

// Update edits a brandkit.
func (s *BrandkitService) Update(id uint, input BrandkitInput) (*db.Brandkit, error) {
	kit, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		kit.Name = name
	}
	kit.Description = strings.TrimSpace(input.Description)
	kit.IsPublic = input.IsPublic
	if input.SchemaVersion != "" {
		kit.SchemaVersion = strings.TrimSpace(input.SchemaVersion)
	}
	for field, raw := range map[string]*string{
		"colors":     &input.Colors,
		"typography": &input.Typography,
		"spacing":    &input.Spacing,
		"assets":     &input.Assets,
	} {
		if *raw == "" {
			continue
		}
		if err := validateTokenGroup(field, *raw); err != nil {
			return nil, err
		}
	}
	if input.Colors != "" {
		kit.Colors = input.Colors
	}
	if input.Typography != "" {
		kit.Typography = input.Typography
	}
	if input.Spacing != "" {
		kit.Spacing = input.Spacing
	}
	if input.Assets != "" {
		kit.Assets = input.Assets
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if input.IsDefault && !kit.IsDefault {
			if err := tx.Model(&db.Brandkit{}).Where("is_default = ?", true).
				Update("is_default", false).Error; err != nil {
				return err
			}
			kit.IsDefault = true
		}
		return tx.Save(kit).Error
	})
	if err != nil {
		return nil, err
	}
	return kit, nil
}

// Delete removes a brandkit.
func (s *BrandkitService) Delete(id uint) error {
	kit, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.db.Delete(kit).Error
}

// Tokens decodes a brandkit row into the engine's token set.
func (s *BrandkitService) Tokens(kit *db.Brandkit) (brandkit.Tokens, error) {
	tokens := brandkit.Tokens{SchemaVersion: kit.SchemaVersion}

	for raw, target := range map[string]*map[string]string{
		kit.Colors:     &tokens.Colors,
		kit.Typography: &tokens.Typography,
		kit.Spacing:    &tokens.Spacing,
		kit.Assets:     &tokens.Assets,
	} {
		if strings.TrimSpace(raw) == "" {
			*target = map[string]string{}
			continue
		}
		if err := json.Unmarshal([]byte(raw), target); err != nil {
			return brandkit.Tokens{}, fmt.Errorf("decode brandkit tokens: %w", err)
		}
	}
	return tokens, nil
}

// ApplyResult reports one brandkit application.
type ApplyResult struct {
	Compat  brandkit.CompatResult `json:"compat"`
	Applied bool                  `json:"applied"`
	DryRun  bool                  `json:"dryRun"`
	Diff    []brandkit.Change     `json:"diff"`
}

// ApplyToTemplate rewrites a template's section styles with the kit's
// tokens. In dry-run mode the diff is computed and nothing is persisted.
func (s *BrandkitService) ApplyToTemplate(kitID, templateID uint, opts brandkit.Options) (*ApplyResult, error) {
	kit, err := s.Get(kitID)
	if err != nil {
		return nil, err
	}
	tokens, err := s.Tokens(kit)
	if err != nil {
		return nil, err
	}

	var template db.Template
	if err := s.db.First(&template, templateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	if compat := brandkit.CheckCompatibility(kit.SchemaVersion, template.SchemaVersion); !compat.Compatible {
		return &ApplyResult{Compat: compat, DryRun: opts.DryRun}, nil
	}

	sections, err := DecodeSections(template.Sections)
	if err != nil {
		return nil, err
	}

	tree := make([]brandkit.Section, len(sections))
	for i, section := range sections {
		tree[i] = brandkit.Section{Ref: section.ID, Kind: section.Kind, Styles: section.Styles}
	}

	applied, diff := brandkit.Apply(tree, tokens, opts)
	result := &ApplyResult{
		Compat: brandkit.CompatResult{Compatible: true},
		DryRun: opts.DryRun,
		Diff:   diff,
	}
	if opts.DryRun {
		return result, nil
	}

	for i := range sections {
		sections[i].Styles = applied[i].Styles
	}
	encoded, err := json.Marshal(sections)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&db.Template{}).Where("id = ?", template.ID).
			Update("sections", string(encoded)).Error
	})
	if err != nil {
		return nil, err
	}
	result.Applied = true
	return result, nil
}

// ApplyToPage rewrites a page's section rows with the kit's tokens. All
// row updates happen inside a single transaction.
func (s *BrandkitService) ApplyToPage(kitID, pageID uint, opts brandkit.Options) (*ApplyResult, error) {
	kit, err := s.Get(kitID)
	if err != nil {
		return nil, err
	}
	tokens, err := s.Tokens(kit)
	if err != nil {
		return nil, err
	}

	var page db.Page
	if err := s.db.Preload("Sections").First(&page, pageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}

	// Page sections carry no schema version of their own; the page's
	// template tag is a name, so only the kit's own schema is checked for
	// well-formedness.
	if compat := brandkit.CheckCompatibility(kit.SchemaVersion, kit.SchemaVersion); !compat.Compatible {
		return &ApplyResult{Compat: compat, DryRun: opts.DryRun}, nil
	}

	tree := make([]brandkit.Section, len(page.Sections))
	styleMaps := make([]map[string]string, len(page.Sections))
	for i, section := range page.Sections {
		styles := map[string]string{}
		if strings.TrimSpace(section.Styles) != "" {
			if err := json.Unmarshal([]byte(section.Styles), &styles); err != nil {
				return nil, fmt.Errorf("decode styles of section %d: %w", section.ID, err)
			}
		}
		styleMaps[i] = styles
		tree[i] = brandkit.Section{
			Ref:    strconv.FormatUint(uint64(section.ID), 10),
			Kind:   section.Kind,
			Styles: styles,
		}
	}

	applied, diff := brandkit.Apply(tree, tokens, opts)
	result := &ApplyResult{
		Compat: brandkit.CompatResult{Compatible: true},
		DryRun: opts.DryRun,
		Diff:   diff,
	}
	if opts.DryRun {
		return result, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i, section := range page.Sections {
			encoded, err := json.Marshal(applied[i].Styles)
			if err != nil {
				return err
			}
			if string(encoded) == section.Styles {
				continue
			}
			if err := tx.Model(&db.PageSection{}).Where("id = ?", section.ID).
				Update("styles", string(encoded)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Applied = true
	return result, nil
}

func validateTokenGroup(field, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var group map[string]string
	if err := json.Unmarshal([]byte(raw), &group); err != nil {
		return fmt.Errorf("%s payload is not a flat string map: %w", field, err)
	}
	return nil
}
