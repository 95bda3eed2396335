package service

import (
	"errors"
	"strings"

	"github.com/wisnuvb/calmsey/internal/db"
	"gorm.io/gorm"
)

var ErrSettingNotFound = errors.New("setting not found")

// SettingService 管理站点级键值配置。
type SettingService struct {
	db *gorm.DB
}

// NewSettingService creates a SettingService instance.
func NewSettingService(gdb *gorm.DB) *SettingService {
	return &SettingService{db: gdb}
}

// All returns every setting as a key/value map.
func (s *SettingService) All() (map[string]string, error) {
	var settings []db.SiteSetting
	if err := s.db.Order("key ASC").Find(&settings).Error; err != nil {
		return nil, err
	}

	result := make(map[string]string, len(settings))
	for _, setting := range settings {
		result[setting.Key] = setting.Value
	}
	return result, nil
}

// Get returns one setting's value.
func (s *SettingService) Get(key string) (string, error) {
	var setting db.SiteSetting
	err := s.db.Where("key = ?", strings.TrimSpace(key)).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrSettingNotFound
		}
		return "", err
	}
	return setting.Value, nil
}

// Set upserts one setting.
func (s *SettingService) Set(key, value string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return errors.New("setting key is required")
	}

	var setting db.SiteSetting
	err := s.db.Where("key = ?", trimmed).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = db.SiteSetting{Key: trimmed}
	} else if err != nil {
		return err
	}

	setting.Value = value
	return s.db.Save(&setting).Error
}

// SetMany upserts a batch of settings in one transaction.
func (s *SettingService) SetMany(values map[string]string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			trimmed := strings.TrimSpace(key)
			if trimmed == "" {
				return errors.New("setting key is required")
			}

			var setting db.SiteSetting
			err := tx.Where("key = ?", trimmed).First(&setting).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				setting = db.SiteSetting{Key: trimmed}
			} else if err != nil {
				return err
			}

			setting.Value = value
			if err := tx.Save(&setting).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes one setting.
func (s *SettingService) Delete(key string) error {
	var setting db.SiteSetting
	err := s.db.Where("key = ?", strings.TrimSpace(key)).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSettingNotFound
		}
		return err
	}
	return s.db.Delete(&setting).Error
}
