package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wisnuvb/calmsey/internal/db"
	"gorm.io/gorm"
)

var (
	ErrMenuKeyMissing    = errors.New("menu key is required")
	ErrMenuTargetInvalid = errors.New("menu item target is invalid")
)

// MenuService assembles navigation trees and rebuilds menus atomically.
type MenuService struct {
	db *gorm.DB
}

// NewMenuService creates a MenuService instance.
func NewMenuService(gdb *gorm.DB) *MenuService {
	return &MenuService{db: gdb}
}

// MenuEntry is one resolved navigation node.
type MenuEntry struct {
	ID       uint        `json:"id"`
	Label    string      `json:"label"`
	URL      string      `json:"url"`
	Children []MenuEntry `json:"children,omitempty"`
}

// Tree returns the ordered navigation tree for a menu key with labels in
// the requested language and target URLs resolved.
func (s *MenuService) Tree(key, language string) ([]MenuEntry, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrMenuKeyMissing
	}

	var items []db.MenuItem
	err := s.db.Where("menu_key = ?", key).
		Preload("Labels").
		Order("sort_order ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	entries := make(map[uint]*MenuEntry, len(items))
	var roots []*MenuEntry
	for i := range items {
		item := &items[i]
		url, err := s.resolveTarget(item)
		if err != nil {
			return nil, err
		}
		entry := &MenuEntry{
			ID:    item.ID,
			Label: labelFor(item.Labels, language),
			URL:   url,
		}
		entries[item.ID] = entry
		if item.ParentID == nil {
			roots = append(roots, entry)
		}
	}

	// 一级嵌套：父节点缺失的子项按根节点处理。
	for i := range items {
		item := &items[i]
		if item.ParentID == nil {
			continue
		}
		parent, ok := entries[*item.ParentID]
		if !ok {
			roots = append(roots, entries[item.ID])
			continue
		}
		parent.Children = append(parent.Children, *entries[item.ID])
	}

	result := make([]MenuEntry, len(roots))
	for i, root := range roots {
		result[i] = *root
	}
	return result, nil
}

// MenuItemInput describes one submitted navigation item. Children may nest
// exactly one level deep.
type MenuItemInput struct {
	TargetKind string            `json:"targetKind"`
	TargetID   *uint             `json:"targetId"`
	URL        string            `json:"url"`
	Labels     map[string]string `json:"labels"`
	Children   []MenuItemInput   `json:"children"`
}

// Rebuild destructively replaces every entry under the menu key with the
// submitted list. Delete and recreate run in one transaction so a mid-way
// failure leaves the previous menu fully intact.
func (s *MenuService) Rebuild(key string, inputs []MenuItemInput) error {
	if strings.TrimSpace(key) == "" {
		return ErrMenuKeyMissing
	}
	for _, input := range inputs {
		if err := validateMenuInput(input, true); err != nil {
			return err
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var old []db.MenuItem
		if err := tx.Where("menu_key = ?", key).Find(&old).Error; err != nil {
			return err
		}
		for _, item := range old {
			if err := tx.Where("menu_item_id = ?", item.ID).Delete(&db.MenuItemLabel{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("menu_key = ?", key).Delete(&db.MenuItem{}).Error; err != nil {
			return err
		}

		for order, input := range inputs {
			parent, err := createMenuItem(tx, key, nil, order, input)
			if err != nil {
				return err
			}
			for childOrder, child := range input.Children {
				if _, err := createMenuItem(tx, key, &parent.ID, childOrder, child); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func createMenuItem(tx *gorm.DB, key string, parentID *uint, order int, input MenuItemInput) (*db.MenuItem, error) {
	item := db.MenuItem{
		MenuKey:    key,
		ParentID:   parentID,
		Order:      order,
		TargetKind: strings.ToUpper(strings.TrimSpace(input.TargetKind)),
		TargetID:   input.TargetID,
		URL:        strings.TrimSpace(input.URL),
	}
	if item.TargetKind == "" {
		item.TargetKind = db.MenuTargetURL
	}
	if err := tx.Create(&item).Error; err != nil {
		return nil, err
	}

	for language, label := range input.Labels {
		record := db.MenuItemLabel{
			MenuItemID: item.ID,
			Language:   strings.TrimSpace(language),
			Label:      strings.TrimSpace(label),
		}
		if err := tx.Create(&record).Error; err != nil {
			return nil, err
		}
	}
	return &item, nil
}

func validateMenuInput(input MenuItemInput, allowChildren bool) error {
	kind := strings.ToUpper(strings.TrimSpace(input.TargetKind))
	switch kind {
	case "", db.MenuTargetURL:
		if strings.TrimSpace(input.URL) == "" {
			return fmt.Errorf("%w: a URL item needs a url", ErrMenuTargetInvalid)
		}
	case db.MenuTargetPage, db.MenuTargetCategory:
		if input.TargetID == nil {
			return fmt.Errorf("%w: a %s item needs a targetId", ErrMenuTargetInvalid, kind)
		}
	default:
		return fmt.Errorf("%w: unknown target kind %q", ErrMenuTargetInvalid, input.TargetKind)
	}

	if !allowChildren && len(input.Children) > 0 {
		return fmt.Errorf("%w: nesting deeper than one level is not supported", ErrMenuTargetInvalid)
	}
	for _, child := range input.Children {
		if err := validateMenuInput(child, false); err != nil {
			return err
		}
	}
	return nil
}

func (s *MenuService) resolveTarget(item *db.MenuItem) (string, error) {
	switch item.TargetKind {
	case db.MenuTargetPage:
		if item.TargetID == nil {
			return "", nil
		}
		var page db.Page
		if err := s.db.First(&page, *item.TargetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", nil
			}
			return "", err
		}
		return "/" + page.Slug, nil
	case db.MenuTargetCategory:
		if item.TargetID == nil {
			return "", nil
		}
		var category db.Category
		if err := s.db.First(&category, *item.TargetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", nil
			}
			return "", err
		}
		return "/news/category/" + category.Slug, nil
	default:
		return item.URL, nil
	}
}

func labelFor(labels []db.MenuItemLabel, language string) string {
	for _, label := range labels {
		if label.Language == language {
			return label.Label
		}
	}
	if len(labels) > 0 {
		return labels[0].Label
	}
	return ""
}
