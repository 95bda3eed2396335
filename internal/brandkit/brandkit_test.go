package brandkit

import (
	"reflect"
	"testing"
)

func sampleKit() Tokens {
	return Tokens{
		SchemaVersion: "1.2.0",
		Colors: map[string]string{
			"primary":    "#0a4d68",
			"background": "#ffffff",
		},
		Typography: map[string]string{
			"heading": "Playfair Display",
			"body":    "Source Sans Pro",
		},
		Spacing: map[string]string{
			"section": "4rem",
		},
	}
}

func sampleSections() []Section {
	return []Section{
		{Ref: "hero", Kind: "HERO", Styles: map[string]string{
			"primaryColor": "#ff0000",
			"headingFont":  "Arial",
			"customRadius": "8px",
		}},
		{Ref: "body", Kind: "RICH_TEXT", Styles: map[string]string{}},
	}
}

func TestApplyOverwritesMappedFields(t *testing.T) {
	out, diff := Apply(sampleSections(), sampleKit(), Options{})

	if out[0].Styles["primaryColor"] != "#0a4d68" {
		t.Fatalf("primaryColor not rewritten: %q", out[0].Styles["primaryColor"])
	}
	if out[0].Styles["headingFont"] != "Playfair Display" {
		t.Fatalf("headingFont not rewritten: %q", out[0].Styles["headingFont"])
	}
	if out[0].Styles["customRadius"] != "8px" {
		t.Fatal("unmapped style fields must be preserved")
	}
	if out[1].Styles["sectionPadding"] != "4rem" {
		t.Fatal("spacing token not applied to second section")
	}
	if len(diff) == 0 {
		t.Fatal("expected a non-empty diff")
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	in := sampleSections()
	Apply(in, sampleKit(), Options{})

	if in[0].Styles["primaryColor"] != "#ff0000" {
		t.Fatal("input sections were mutated")
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	kit := sampleKit()
	once, _ := Apply(sampleSections(), kit, Options{})
	twice, diff := Apply(once, kit, Options{})

	if !reflect.DeepEqual(once, twice) {
		t.Fatal("applying the same kit twice changed the tree")
	}
	if len(diff) != 0 {
		t.Fatalf("second application reported %d changes, want 0", len(diff))
	}
}

func TestApplySelectiveSections(t *testing.T) {
	out, diff := Apply(sampleSections(), sampleKit(), Options{SectionRefs: []string{"body"}})

	if out[0].Styles["primaryColor"] != "#ff0000" {
		t.Fatal("unselected section must stay untouched")
	}
	for _, change := range diff {
		if change.SectionRef != "body" {
			t.Fatalf("diff touches unselected section %q", change.SectionRef)
		}
	}
}

func TestDiffRecordsOldAndNewValues(t *testing.T) {
	_, diff := Apply(sampleSections(), sampleKit(), Options{SectionRefs: []string{"hero"}})

	var found bool
	for _, change := range diff {
		if change.Field == "primaryColor" {
			found = true
			if change.Old != "#ff0000" || change.New != "#0a4d68" {
				t.Fatalf("unexpected change values: %+v", change)
			}
		}
	}
	if !found {
		t.Fatal("diff missing primaryColor change")
	}
}

func TestCheckCompatibility(t *testing.T) {
	if res := CheckCompatibility("1.2.0", "1.0.0"); !res.Compatible {
		t.Fatalf("same major should be compatible: %+v", res)
	}
	if res := CheckCompatibility("2.0.0", "1.0.0"); res.Compatible {
		t.Fatal("different majors should be incompatible")
	}
	if res := CheckCompatibility("", "1.0.0"); !res.Compatible {
		t.Fatal("empty kit version should be unconstrained")
	}
	if res := CheckCompatibility("abc", "1.0.0"); res.Compatible {
		t.Fatal("garbage version should be rejected")
	} else if res.Reason == "" {
		t.Fatal("incompatible result must carry a reason")
	}
}
