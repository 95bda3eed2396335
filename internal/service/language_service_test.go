package service

import (
	"errors"
	"testing"
)

func TestListActiveOrdersDefaultFirst(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewLanguageService(gdb, "en")

	for _, input := range []LanguageInput{
		{Code: "fr", Name: "French", IsActive: true},
		{Code: "id", Name: "Indonesian", IsActive: true, IsDefault: true},
		{Code: "de", Name: "German", IsActive: true},
		{Code: "zh", Name: "Chinese", IsActive: false},
	} {
		if _, err := svc.Create(input); err != nil {
			t.Fatalf("create %s failed: %v", input.Code, err)
		}
	}

	languages, err := svc.ListActive()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	got := make([]string, len(languages))
	for i, l := range languages {
		got[i] = l.Code
	}
	want := []string{"id", "de", "fr"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestCreateKeepsSingleDefault(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewLanguageService(gdb, "en")

	first, err := svc.Create(LanguageInput{Code: "en", Name: "English", IsActive: true, IsDefault: true})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(LanguageInput{Code: "id", Name: "Indonesian", IsActive: true, IsDefault: true}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	all, err := svc.ListAll()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	defaults := 0
	for _, l := range all {
		if l.IsDefault {
			defaults++
			if l.ID == first.ID {
				t.Fatal("previous default must be cleared")
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default, got %d", defaults)
	}
	if svc.Default() != "id" {
		t.Fatalf("expected id as default, got %s", svc.Default())
	}
}

func TestDeleteRefusesDefaultLanguage(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewLanguageService(gdb, "en")

	language, err := svc.Create(LanguageInput{Code: "en", Name: "English", IsActive: true, IsDefault: true})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(language.ID); err == nil {
		t.Fatal("default language must not be deletable")
	}
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewLanguageService(gdb, "en")

	if _, err := svc.Create(LanguageInput{Code: "en", Name: "English", IsActive: true}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	_, err := svc.Create(LanguageInput{Code: "en-US", Name: "English (US)", IsActive: true})
	if !errors.Is(err, ErrLanguageCodeUsed) {
		t.Fatalf("expected ErrLanguageCodeUsed for normalized duplicate, got %v", err)
	}
}

func TestResolveFallsBackToDefault(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewLanguageService(gdb, "en")

	if _, err := svc.Create(LanguageInput{Code: "id", Name: "Indonesian", IsActive: true, IsDefault: true}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(LanguageInput{Code: "en", Name: "English", IsActive: true}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if got := svc.Resolve("en-GB"); got != "en" {
		t.Fatalf("expected regional tag to match base code, got %s", got)
	}
	if got := svc.Resolve("sw"); got != "id" {
		t.Fatalf("expected unknown tag to fall back to default, got %s", got)
	}
	if got := svc.ResolveAcceptLanguage("fr-FR,fr;q=0.9,en;q=0.5"); got != "en" {
		t.Fatalf("expected header resolution to pick en, got %s", got)
	}
}
