package locale

import "testing"

func TestNormalizeStripsRegion(t *testing.T) {
	cases := map[string]string{
		"en-US":  "en",
		"EN_us":  "en",
		" fr ":   "fr",
		"id":     "id",
		"":       "",
		"  \t":   "",
		"zh-CN ": "zh",
	}
	for raw, want := range cases {
		if got := Normalize(raw); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestMatchAgainstActiveList(t *testing.T) {
	active := []string{"en", "id", "fr"}

	if got := Match("ID", active); got != "id" {
		t.Fatalf("expected id, got %q", got)
	}
	if got := Match("fr-CA", active); got != "fr" {
		t.Fatalf("expected fr, got %q", got)
	}
	if got := Match("de", active); got != "" {
		t.Fatalf("expected no match, got %q", got)
	}
}

func TestFromAcceptLanguage(t *testing.T) {
	active := []string{"en", "id"}

	if got := FromAcceptLanguage("fr-CH, id;q=0.9, en;q=0.8", active); got != "id" {
		t.Fatalf("expected id, got %q", got)
	}
	if got := FromAcceptLanguage("de, ja", active); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
	if got := FromAcceptLanguage("", active); got != "" {
		t.Fatalf("expected empty for empty header, got %q", got)
	}
}
