package service

import (
	"bytes"
	"errors"
	"testing"

	"github.com/wisnuvb/calmsey/internal/archive"
	"github.com/wisnuvb/calmsey/internal/db"
)

func newTestTemplateService(t *testing.T) *TemplateService {
	t.Helper()
	gdb := setupServiceTestDB(t)
	return NewTemplateService(gdb, archive.NewPackager("1.0.0"))
}

func seedTemplate(t *testing.T, svc *TemplateService) *db.Template {
	t.Helper()
	template, err := svc.Create(TemplateInput{
		Name:          "Landing",
		Description:   "Marketing landing page",
		AuthorID:      1,
		Version:       "1.2.0",
		SchemaVersion: "2.0.0",
		Sections:      `[{"id":"hero","kind":"HERO","styles":{"backgroundColor":"#fff"}}]`,
		GlobalStyles:  `{"fontFamily":"Inter"}`,
	})
	if err != nil {
		t.Fatalf("failed to seed template: %v", err)
	}
	return template
}

func TestCloneCreatesFreshIdentityAndBumpsUsage(t *testing.T) {
	svc := newTestTemplateService(t)
	source := seedTemplate(t, svc)

	clone, err := svc.Clone(source.ID, "Landing Copy", 2)
	if err != nil {
		t.Fatalf("clone failed: %v", err)
	}

	if clone.ID == source.ID {
		t.Fatal("clone must have a fresh id")
	}
	if clone.Sections != source.Sections || clone.GlobalStyles != source.GlobalStyles {
		t.Fatal("clone must carry the source payload")
	}
	if clone.IsPublic || clone.IsFeatured {
		t.Fatal("clone must start private and unfeatured")
	}

	reloaded, err := svc.Get(source.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.UsageCount != source.UsageCount+1 {
		t.Fatalf("expected usage count %d, got %d", source.UsageCount+1, reloaded.UsageCount)
	}
}

func TestExportImportRoundtrip(t *testing.T) {
	svc := newTestTemplateService(t)
	source := seedTemplate(t, svc)

	data, err := svc.Export(source.ID, "Site Admin", nil)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	reloaded, err := svc.Get(source.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.DownloadCount != source.DownloadCount+1 {
		t.Fatalf("export must bump download count, got %d", reloaded.DownloadCount)
	}

	outcome, validation, err := svc.Import(bytes.NewReader(data), int64(len(data)), 3)
	if err != nil {
		t.Fatalf("import failed: %v (validation %+v)", err, validation)
	}
	if outcome.Template.Name != source.Name {
		t.Fatalf("unexpected imported name %q", outcome.Template.Name)
	}
	if outcome.Template.Sections != source.Sections {
		t.Fatalf("imported sections diverge:\n%s\n%s", outcome.Template.Sections, source.Sections)
	}
}

func TestImportRejectsInvalidArchive(t *testing.T) {
	svc := newTestTemplateService(t)

	packager := archive.NewPackager("1.0.0")
	data, err := packager.Export(
		archive.Manifest{Name: "Evil", Author: "Anon", Version: "1.0.0"},
		archive.TemplatePayload{
			Name:     "Evil",
			Sections: []byte(`[{"id":"s1","kind":"HTML","content":"<script>alert(1)</script>"}]`),
		},
		nil,
	)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	_, validation, err := svc.Import(bytes.NewReader(data), int64(len(data)), 1)
	if !errors.Is(err, ErrImportRejected) {
		t.Fatalf("expected ErrImportRejected, got %v", err)
	}
	if validation == nil || len(validation.SecurityIssues) == 0 {
		t.Fatalf("expected security issues, got %+v", validation)
	}

	var count int64
	if err := svc.db.Model(&db.Template{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatal("rejected import must not persist a template")
	}
}

func TestUpdateRejectsMalformedSections(t *testing.T) {
	svc := newTestTemplateService(t)
	source := seedTemplate(t, svc)

	if _, err := svc.Update(source.ID, TemplateInput{Sections: `{"not":"a list"}`}); err == nil {
		t.Fatal("malformed sections payload must be rejected")
	}
}
