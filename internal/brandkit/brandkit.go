package brandkit

import (
	"sort"
	"strconv"
	"strings"
)

// Tokens is a brandkit's design-token set, flattened by group.
type Tokens struct {
	SchemaVersion string            `json:"schemaVersion"`
	Colors        map[string]string `json:"colors"`
	Typography    map[string]string `json:"typography"`
	Spacing       map[string]string `json:"spacing"`
	Assets        map[string]string `json:"assets"`
}

// Section is the engine's view of one styled block of a page or template.
// Ref carries the owner's identity for the section (row id or JSON id).
type Section struct {
	Ref    string            `json:"ref"`
	Kind   string            `json:"kind"`
	Styles map[string]string `json:"styles"`
}

// Change records a single style field the engine would rewrite.
type Change struct {
	SectionRef string `json:"sectionRef"`
	Field      string `json:"field"`
	Old        string `json:"old"`
	New        string `json:"new"`
}

// Options controls application granularity.
type Options struct {
	// SectionRefs limits application to the listed sections. Empty means
	// the whole document.
	SectionRefs []string
	// DryRun is advisory for callers; the engine itself never persists.
	DryRun bool
}

type tokenGroup int

const (
	groupColor tokenGroup = iota
	groupTypography
	groupSpacing
	groupAsset
)

type binding struct {
	field string
	group tokenGroup
	token string
}

// fieldBindings 是样式字段到品牌令牌的确定性映射表。
// 同一套 kit 重复应用必须收敛到同一结果。
var fieldBindings = []binding{
	{"primaryColor", groupColor, "primary"},
	{"secondaryColor", groupColor, "secondary"},
	{"accentColor", groupColor, "accent"},
	{"backgroundColor", groupColor, "background"},
	{"textColor", groupColor, "text"},
	{"linkColor", groupColor, "link"},
	{"headingFont", groupTypography, "heading"},
	{"bodyFont", groupTypography, "body"},
	{"headingSize", groupTypography, "headingSize"},
	{"bodySize", groupTypography, "bodySize"},
	{"sectionPadding", groupSpacing, "section"},
	{"blockGap", groupSpacing, "block"},
	{"logoURL", groupAsset, "logo"},
}

func (t Tokens) lookup(b binding) (string, bool) {
	var group map[string]string
	switch b.group {
	case groupColor:
		group = t.Colors
	case groupTypography:
		group = t.Typography
	case groupSpacing:
		group = t.Spacing
	case groupAsset:
		group = t.Assets
	}
	value, ok := group[b.token]
	return value, ok && value != ""
}

// Apply produces a modified copy of sections with style fields overwritten
// by the brandkit's tokens. The input is never mutated. The returned diff
// lists every field whose value actually changed.
func Apply(sections []Section, kit Tokens, opts Options) ([]Section, []Change) {
	selected := make(map[string]bool, len(opts.SectionRefs))
	for _, ref := range opts.SectionRefs {
		selected[ref] = true
	}

	out := make([]Section, len(sections))
	var diff []Change

	for i, section := range sections {
		copied := Section{Ref: section.Ref, Kind: section.Kind, Styles: map[string]string{}}
		for k, v := range section.Styles {
			copied.Styles[k] = v
		}

		if len(selected) == 0 || selected[section.Ref] {
			for _, b := range fieldBindings {
				value, ok := kit.lookup(b)
				if !ok {
					continue
				}
				old := copied.Styles[b.field]
				if old == value {
					continue
				}
				copied.Styles[b.field] = value
				diff = append(diff, Change{
					SectionRef: section.Ref,
					Field:      b.field,
					Old:        old,
					New:        value,
				})
			}
		}

		out[i] = copied
	}

	sort.SliceStable(diff, func(i, j int) bool {
		if diff[i].SectionRef != diff[j].SectionRef {
			return diff[i].SectionRef < diff[j].SectionRef
		}
		return diff[i].Field < diff[j].Field
	})

	return out, diff
}

// CompatResult reports whether a brandkit's token schema can be applied to
// a section tree, as data rather than as an error.
type CompatResult struct {
	Compatible bool   `json:"compatible"`
	Reason     string `json:"reason,omitempty"`
}

// CheckCompatibility compares a kit's schema version with the target tree's
// expected schema version. Versions match when their major numbers agree;
// an empty version on either side is treated as unconstrained.
func CheckCompatibility(kitVersion, targetVersion string) CompatResult {
	if strings.TrimSpace(kitVersion) == "" || strings.TrimSpace(targetVersion) == "" {
		return CompatResult{Compatible: true}
	}

	kitMajor, okKit := majorOf(kitVersion)
	targetMajor, okTarget := majorOf(targetVersion)
	if !okKit {
		return CompatResult{Reason: "brandkit schema version is not a valid version string"}
	}
	if !okTarget {
		return CompatResult{Reason: "target schema version is not a valid version string"}
	}

	if kitMajor != targetMajor {
		return CompatResult{
			Reason: "brandkit schema v" + strconv.Itoa(kitMajor) +
				" is not compatible with target schema v" + strconv.Itoa(targetMajor),
		}
	}
	return CompatResult{Compatible: true}
}

func majorOf(version string) (int, bool) {
	head := strings.TrimPrefix(strings.TrimSpace(version), "v")
	if idx := strings.Index(head, "."); idx >= 0 {
		head = head[:idx]
	}
	major, err := strconv.Atoi(head)
	if err != nil {
		return 0, false
	}
	return major, true
}
