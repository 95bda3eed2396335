// Package content flattens a page's translation rows into the key/value
// overlay applied on top of hard-coded component defaults at render time.
package content

import (
	"errors"
	"log/slog"

	"github.com/wisnuvb/calmsey/internal/db"
	"github.com/wisnuvb/calmsey/internal/pagetype"
	"gorm.io/gorm"
)

// Source names the path a resolution came from, so callers and tests can
// tell "no data" apart from "store unreachable".
type Source string

const (
	// SourceStore means the mapping was loaded from stored content rows.
	SourceStore Source = "store"
	// SourceEmpty means no page or translation exists for the request.
	SourceEmpty Source = "empty"
	// SourceUnavailable means the datastore failed; rendering degrades to
	// per-field defaults instead of erroring.
	SourceUnavailable Source = "unavailable"
)

// Resolution is a flattened content mapping plus its provenance.
type Resolution struct {
	Values map[string]string
	Source Source
}

// Loader resolves page content with request-scoped memoization: repeated
// lookups within one render pass hit the memo instead of the database.
// A Loader is built per request and must not be shared across goroutines.
type Loader struct {
	db     *gorm.DB
	logger *slog.Logger
	memo   map[string]Resolution
}

// NewLoader returns a Loader bound to one render pass.
func NewLoader(gdb *gorm.DB, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{db: gdb, logger: logger, memo: map[string]Resolution{}}
}

// Resolve returns the key/value overlay for a page type and language.
// It never returns an error: absence and store failure both collapse to an
// empty mapping, distinguished only by Source.
func (l *Loader) Resolve(pt pagetype.PageType, language string) Resolution {
	key := pt.String() + "|" + language
	if cached, ok := l.memo[key]; ok {
		return cached
	}

	resolution := l.load(pt, language)
	l.memo[key] = resolution
	return resolution
}

func (l *Loader) load(pt pagetype.PageType, language string) Resolution {
	empty := Resolution{Values: map[string]string{}, Source: SourceEmpty}

	if !pt.Valid() {
		return empty
	}

	var page db.Page
	if err := l.db.Where("page_type = ?", pt.String()).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return empty
		}
		return l.unavailable(pt, language, err)
	}

	var translation db.PageTranslation
	err := l.db.Where("page_id = ? AND language = ?", page.ID, language).
		Preload("Entries").
		First(&translation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return empty
		}
		return l.unavailable(pt, language, err)
	}

	values := make(map[string]string, len(translation.Entries))
	for _, entry := range translation.Entries {
		values[entry.Key] = entry.Value
	}
	return Resolution{Values: values, Source: SourceStore}
}

func (l *Loader) unavailable(pt pagetype.PageType, language string, err error) Resolution {
	l.logger.Error("page content resolution degraded to defaults",
		"pageType", pt.String(),
		"language", language,
		"error", err,
	)
	return Resolution{Values: map[string]string{}, Source: SourceUnavailable}
}
