package pagetype

import (
	"fmt"
	"strings"
)

// PageType identifies which static route a page record applies to.
type PageType string

const (
	Home       PageType = "HOME"
	AboutUs    PageType = "ABOUT_US"
	Governance PageType = "GOVERNANCE"
	Funds      PageType = "FUNDS"
	News       PageType = "NEWS"
	Contact    PageType = "CONTACT"
	Legal      PageType = "LEGAL"
)

// All lists every known page type in route order.
func All() []PageType {
	return []PageType{Home, AboutUs, Governance, Funds, News, Contact, Legal}
}

// Parse converts a raw tag into a PageType, case-insensitively.
func Parse(raw string) (PageType, error) {
	tag := PageType(strings.ToUpper(strings.TrimSpace(raw)))
	switch tag {
	case Home, AboutUs, Governance, Funds, News, Contact, Legal:
		return tag, nil
	}
	return "", fmt.Errorf("unknown page type %q", raw)
}

// Valid reports whether t is one of the known page types.
func (t PageType) Valid() bool {
	_, err := Parse(string(t))
	return err == nil
}

// DefaultSlug returns the canonical public slug for the page type.
func (t PageType) DefaultSlug() string {
	switch t {
	case Home:
		return ""
	case AboutUs:
		return "about-us"
	case Governance:
		return "governance"
	case Funds:
		return "funds"
	case News:
		return "news"
	case Contact:
		return "contact"
	case Legal:
		return "legal"
	}
	return strings.ToLower(strings.ReplaceAll(string(t), "_", "-"))
}

func (t PageType) String() string {
	return string(t)
}
