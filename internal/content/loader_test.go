package content

import (
	"io"
	"log/slog"
	"testing"

	"github.com/wisnuvb/calmsey/internal/db"
	"github.com/wisnuvb/calmsey/internal/pagetype"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupLoaderTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedHomeContent(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	page := db.Page{Slug: "home", PageType: pagetype.Home.String()}
	if err := gdb.Create(&page).Error; err != nil {
		t.Fatalf("failed to seed page: %v", err)
	}
	translation := db.PageTranslation{PageID: page.ID, Language: "en", Title: "Home"}
	if err := gdb.Create(&translation).Error; err != nil {
		t.Fatalf("failed to seed translation: %v", err)
	}
	entries := []db.PageContentEntry{
		{TranslationID: translation.ID, Key: "hero.title", Value: "Welcome"},
		{TranslationID: translation.ID, Key: "hero.subtitle", Value: "To the site"},
	}
	if err := gdb.Create(&entries).Error; err != nil {
		t.Fatalf("failed to seed entries: %v", err)
	}
}

func TestResolveFlattensStoredEntries(t *testing.T) {
	gdb := setupLoaderTestDB(t)
	seedHomeContent(t, gdb)

	loader := NewLoader(gdb, quietLogger())
	res := loader.Resolve(pagetype.Home, "en")

	if res.Source != SourceStore {
		t.Fatalf("expected SourceStore, got %s", res.Source)
	}
	if res.Values["hero.title"] != "Welcome" {
		t.Fatalf("unexpected values: %+v", res.Values)
	}
}

func TestResolveMissingTranslationReturnsEmpty(t *testing.T) {
	gdb := setupLoaderTestDB(t)
	seedHomeContent(t, gdb)

	loader := NewLoader(gdb, quietLogger())

	for _, pt := range pagetype.All() {
		res := loader.Resolve(pt, "fr")
		if res.Source == SourceUnavailable {
			t.Fatalf("%s: store should be reachable", pt)
		}
		if pt == pagetype.Home {
			continue
		}
		if len(res.Values) != 0 || res.Source != SourceEmpty {
			t.Fatalf("%s: expected empty resolution, got %+v", pt, res)
		}
	}
}

func TestResolveInvalidPageTypeReturnsEmpty(t *testing.T) {
	gdb := setupLoaderTestDB(t)

	loader := NewLoader(gdb, quietLogger())
	res := loader.Resolve(pagetype.PageType("BOGUS"), "en")
	if res.Source != SourceEmpty || len(res.Values) != 0 {
		t.Fatalf("expected empty resolution, got %+v", res)
	}
}

func TestResolveMemoizesWithinRenderPass(t *testing.T) {
	gdb := setupLoaderTestDB(t)
	seedHomeContent(t, gdb)

	loader := NewLoader(gdb, quietLogger())
	first := loader.Resolve(pagetype.Home, "en")

	// Change the stored value after the first resolution; the memoized
	// result must be returned unchanged within the same pass.
	if err := gdb.Model(&db.PageContentEntry{}).
		Where("key = ?", "hero.title").
		Update("value", "Changed").Error; err != nil {
		t.Fatalf("failed to update entry: %v", err)
	}

	second := loader.Resolve(pagetype.Home, "en")
	if second.Values["hero.title"] != first.Values["hero.title"] {
		t.Fatal("expected memoized resolution on repeated call")
	}

	fresh := NewLoader(gdb, quietLogger()).Resolve(pagetype.Home, "en")
	if fresh.Values["hero.title"] != "Changed" {
		t.Fatal("a new loader must observe the updated value")
	}
}

func TestResolveUnreachableStoreDegradesSilently(t *testing.T) {
	gdb := setupLoaderTestDB(t)
	seedHomeContent(t, gdb)

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.Close()

	loader := NewLoader(gdb, quietLogger())
	res := loader.Resolve(pagetype.Home, "en")

	if res.Source != SourceUnavailable {
		t.Fatalf("expected SourceUnavailable, got %s", res.Source)
	}
	if len(res.Values) != 0 {
		t.Fatalf("expected empty mapping, got %+v", res.Values)
	}
}
