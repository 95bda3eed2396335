package service

import (
	"errors"
	"testing"

	"github.com/wisnuvb/calmsey/internal/db"
	"gorm.io/gorm"
)

func uintPtr(v uint) *uint { return &v }

func TestRebuildAndTreeRoundtrip(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewMenuService(gdb)

	page := db.Page{Slug: "about-us", PageType: "ABOUT_US"}
	if err := gdb.Create(&page).Error; err != nil {
		t.Fatalf("failed to seed page: %v", err)
	}

	inputs := []MenuItemInput{
		{
			TargetKind: db.MenuTargetPage,
			TargetID:   &page.ID,
			Labels:     map[string]string{"en": "About", "id": "Tentang"},
		},
		{
			TargetKind: db.MenuTargetURL,
			URL:        "https://example.com/report.pdf",
			Labels:     map[string]string{"en": "Annual Report"},
			Children: []MenuItemInput{
				{TargetKind: db.MenuTargetURL, URL: "/2025", Labels: map[string]string{"en": "2025"}},
			},
		},
	}
	if err := svc.Rebuild("header", inputs); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}

	tree, err := svc.Tree("header", "id")
	if err != nil {
		t.Fatalf("tree failed: %v", err)
	}
	if len(tree) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(tree))
	}
	if tree[0].Label != "Tentang" || tree[0].URL != "/about-us" {
		t.Fatalf("unexpected first entry: %+v", tree[0])
	}
	// Missing language falls back to the first stored label.
	if tree[1].Label != "Annual Report" {
		t.Fatalf("expected label fallback, got %+v", tree[1])
	}
	if len(tree[1].Children) != 1 || tree[1].Children[0].URL != "/2025" {
		t.Fatalf("unexpected children: %+v", tree[1].Children)
	}
}

func TestRebuildReplacesPreviousMenu(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewMenuService(gdb)

	first := []MenuItemInput{
		{URL: "/old", Labels: map[string]string{"en": "Old"}},
	}
	if err := svc.Rebuild("header", first); err != nil {
		t.Fatalf("first rebuild failed: %v", err)
	}

	second := []MenuItemInput{
		{URL: "/new", Labels: map[string]string{"en": "New"}},
	}
	if err := svc.Rebuild("header", second); err != nil {
		t.Fatalf("second rebuild failed: %v", err)
	}

	tree, err := svc.Tree("header", "en")
	if err != nil {
		t.Fatalf("tree failed: %v", err)
	}
	if len(tree) != 1 || tree[0].URL != "/new" {
		t.Fatalf("old entries must be gone, got %+v", tree)
	}

	var labels int64
	if err := gdb.Model(&db.MenuItemLabel{}).Count(&labels).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if labels != 1 {
		t.Fatalf("stale labels left behind: %d", labels)
	}
}

func TestRebuildRejectsInvalidInputLeavingMenuIntact(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewMenuService(gdb)

	if err := svc.Rebuild("header", []MenuItemInput{
		{URL: "/kept", Labels: map[string]string{"en": "Kept"}},
	}); err != nil {
		t.Fatalf("seed rebuild failed: %v", err)
	}

	bad := []MenuItemInput{
		{URL: "/first", Labels: map[string]string{"en": "First"}},
		{TargetKind: db.MenuTargetPage, Labels: map[string]string{"en": "Broken"}},
	}
	err := svc.Rebuild("header", bad)
	if !errors.Is(err, ErrMenuTargetInvalid) {
		t.Fatalf("expected ErrMenuTargetInvalid, got %v", err)
	}

	tree, err := svc.Tree("header", "en")
	if err != nil {
		t.Fatalf("tree failed: %v", err)
	}
	if len(tree) != 1 || tree[0].URL != "/kept" {
		t.Fatalf("failed rebuild must leave the previous menu intact, got %+v", tree)
	}
}

func TestRebuildWriteFailureLeavesPreviousMenuIntact(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewMenuService(gdb)

	if err := svc.Rebuild("header", []MenuItemInput{
		{URL: "/", Labels: map[string]string{"en": "Home"}},
		{URL: "/news", Labels: map[string]string{"en": "News"}},
	}); err != nil {
		t.Fatalf("seed rebuild failed: %v", err)
	}

	// 在第三个条目写入时注入失败，事务必须整体回滚。
	var creates int
	writeErr := errors.New("simulated write failure")
	if err := gdb.Callback().Create().Before("gorm:create").Register("menu_write_failure", func(tx *gorm.DB) {
		if tx.Statement.Table != "menu_items" {
			return
		}
		creates++
		if creates == 3 {
			tx.AddError(writeErr)
		}
	}); err != nil {
		t.Fatalf("failed to register callback: %v", err)
	}
	t.Cleanup(func() {
		gdb.Callback().Create().Remove("menu_write_failure")
	})

	err := svc.Rebuild("header", []MenuItemInput{
		{URL: "/a", Labels: map[string]string{"en": "A"}},
		{URL: "/b", Labels: map[string]string{"en": "B"}},
		{URL: "/c", Labels: map[string]string{"en": "C"}},
	})
	if err == nil {
		t.Fatal("rebuild must surface the write failure")
	}

	gdb.Callback().Create().Remove("menu_write_failure")

	tree, err := svc.Tree("header", "en")
	if err != nil {
		t.Fatalf("tree failed: %v", err)
	}
	if len(tree) != 2 || tree[0].URL != "/" || tree[1].URL != "/news" {
		t.Fatalf("previous menu must survive the failed rebuild, got %+v", tree)
	}

	var labels []db.MenuItemLabel
	if err := gdb.Find(&labels).Error; err != nil {
		t.Fatalf("label lookup failed: %v", err)
	}
	if len(labels) != 2 {
		t.Fatalf("labels from the failed rebuild must not remain, got %d", len(labels))
	}
}

func TestRebuildRejectsDeepNesting(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewMenuService(gdb)

	deep := []MenuItemInput{
		{
			URL:    "/a",
			Labels: map[string]string{"en": "A"},
			Children: []MenuItemInput{
				{
					URL:    "/b",
					Labels: map[string]string{"en": "B"},
					Children: []MenuItemInput{
						{URL: "/c", Labels: map[string]string{"en": "C"}},
					},
				},
			},
		},
	}
	if err := svc.Rebuild("header", deep); !errors.Is(err, ErrMenuTargetInvalid) {
		t.Fatalf("expected ErrMenuTargetInvalid for deep nesting, got %v", err)
	}
}

func TestTreeResolvesDanglingTargetToEmptyURL(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewMenuService(gdb)

	if err := svc.Rebuild("header", []MenuItemInput{
		{TargetKind: db.MenuTargetPage, TargetID: uintPtr(999), Labels: map[string]string{"en": "Ghost"}},
	}); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}

	tree, err := svc.Tree("header", "en")
	if err != nil {
		t.Fatalf("tree failed: %v", err)
	}
	if tree[0].URL != "" {
		t.Fatalf("dangling target must resolve to empty URL, got %q", tree[0].URL)
	}
}
