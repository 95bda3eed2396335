package locale

import "strings"

// DefaultLanguage 是配置缺失时的兜底语言。
const DefaultLanguage = "en"

// Normalize lowercases a raw language tag and strips any region suffix,
// so "en-US" and "EN_us" both become "en".
func Normalize(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}
	for _, sep := range []string{"-", "_"} {
		if idx := strings.Index(trimmed, sep); idx > 0 {
			trimmed = trimmed[:idx]
		}
	}
	return trimmed
}

// Match resolves a raw tag against a list of active language codes and
// returns the matching code, or "" when nothing matches.
func Match(raw string, active []string) string {
	normalized := Normalize(raw)
	if normalized == "" {
		return ""
	}
	for _, code := range active {
		if Normalize(code) == normalized {
			return code
		}
	}
	return ""
}

// FromAcceptLanguage picks the first entry of an Accept-Language header
// that matches one of the active codes.
func FromAcceptLanguage(header string, active []string) string {
	for _, part := range strings.Split(header, ",") {
		tag := part
		if idx := strings.Index(tag, ";"); idx >= 0 {
			tag = tag[:idx]
		}
		if matched := Match(tag, active); matched != "" {
			return matched
		}
	}
	return ""
}
