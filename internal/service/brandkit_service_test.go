package service

import (
	"strconv"
	"strings"
	"testing"

	"github.com/wisnuvb/calmsey/internal/brandkit"
	"github.com/wisnuvb/calmsey/internal/db"
)

func seedBrandkit(t *testing.T, svc *BrandkitService, schemaVersion string) *db.Brandkit {
	t.Helper()
	kit, err := svc.Create(BrandkitInput{
		Name:          "Corporate",
		SchemaVersion: schemaVersion,
		Colors:        `{"primary":"#102030","background":"#ffffff"}`,
		Typography:    `{"heading":"Inter"}`,
	})
	if err != nil {
		t.Fatalf("failed to seed brandkit: %v", err)
	}
	return kit
}

func TestApplyToTemplateDryRunDoesNotPersist(t *testing.T) {
	gdb := setupServiceTestDB(t)
	kits := NewBrandkitService(gdb)
	kit := seedBrandkit(t, kits, "2.0.0")

	template := db.Template{
		Name:          "Landing",
		SchemaVersion: "2.1.0",
		Sections:      `[{"id":"hero","kind":"HERO","styles":{"primaryColor":"#000000"}}]`,
	}
	if err := gdb.Create(&template).Error; err != nil {
		t.Fatalf("failed to seed template: %v", err)
	}

	result, err := kits.ApplyToTemplate(kit.ID, template.ID, brandkit.Options{DryRun: true})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if !result.Compat.Compatible || result.Applied || len(result.Diff) == 0 {
		t.Fatalf("unexpected dry-run result: %+v", result)
	}

	var reloaded db.Template
	if err := gdb.First(&reloaded, template.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Sections != template.Sections {
		t.Fatal("dry run must not rewrite the stored sections")
	}
}

func TestApplyToTemplatePersistsAndConverges(t *testing.T) {
	gdb := setupServiceTestDB(t)
	kits := NewBrandkitService(gdb)
	kit := seedBrandkit(t, kits, "2.0.0")

	template := db.Template{
		Name:          "Landing",
		SchemaVersion: "2.0.0",
		Sections:      `[{"id":"hero","kind":"HERO","styles":{"primaryColor":"#000000"}}]`,
	}
	if err := gdb.Create(&template).Error; err != nil {
		t.Fatalf("failed to seed template: %v", err)
	}

	first, err := kits.ApplyToTemplate(kit.ID, template.ID, brandkit.Options{})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if !first.Applied || len(first.Diff) == 0 {
		t.Fatalf("expected persisted changes, got %+v", first)
	}

	var reloaded db.Template
	if err := gdb.First(&reloaded, template.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !strings.Contains(reloaded.Sections, `"primaryColor":"#102030"`) {
		t.Fatalf("token not applied: %s", reloaded.Sections)
	}

	// Applying the same kit again must be a no-op.
	second, err := kits.ApplyToTemplate(kit.ID, template.ID, brandkit.Options{})
	if err != nil {
		t.Fatalf("second apply failed: %v", err)
	}
	if len(second.Diff) != 0 {
		t.Fatalf("repeated application must converge, got diff %+v", second.Diff)
	}
}

func TestApplyToTemplateReportsIncompatibleSchema(t *testing.T) {
	gdb := setupServiceTestDB(t)
	kits := NewBrandkitService(gdb)
	kit := seedBrandkit(t, kits, "1.0.0")

	template := db.Template{Name: "Landing", SchemaVersion: "2.0.0", Sections: `[]`}
	if err := gdb.Create(&template).Error; err != nil {
		t.Fatalf("failed to seed template: %v", err)
	}

	result, err := kits.ApplyToTemplate(kit.ID, template.ID, brandkit.Options{})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if result.Compat.Compatible || result.Applied {
		t.Fatalf("major version mismatch must block the apply: %+v", result)
	}
	if result.Compat.Reason == "" {
		t.Fatal("incompatibility must carry a reason")
	}
}

func TestApplyToPageScopesToSelectedSections(t *testing.T) {
	gdb := setupServiceTestDB(t)
	kits := NewBrandkitService(gdb)
	pages := NewPageService(gdb)
	kit := seedBrandkit(t, kits, "")

	page, err := pages.Create(PageInput{PageType: "HOME"})
	if err != nil {
		t.Fatalf("failed to seed page: %v", err)
	}
	sections, err := pages.ReplaceSections(page.ID, []SectionInput{
		{Kind: "HERO", Styles: `{"primaryColor":"#000000"}`},
		{Kind: "TEXT", Styles: `{"primaryColor":"#000000"}`},
	})
	if err != nil {
		t.Fatalf("failed to seed sections: %v", err)
	}

	firstRef := sectionRef(sections[0].ID)
	result, err := kits.ApplyToPage(kit.ID, page.ID, brandkit.Options{SectionRefs: []string{firstRef}})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if !result.Applied {
		t.Fatalf("expected persisted apply, got %+v", result)
	}
	for _, change := range result.Diff {
		if change.SectionRef != firstRef {
			t.Fatalf("change leaked outside the selected section: %+v", change)
		}
	}

	var untouched db.PageSection
	if err := gdb.First(&untouched, sections[1].ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if strings.Contains(untouched.Styles, "#102030") {
		t.Fatal("unselected section must keep its styles")
	}
}

func sectionRef(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
