package pipeline

import "strings"

// DefaultTheme is used when no signal at all points at a theme.
const DefaultTheme = "white"

// RenderTheme is the hard default applied at render time when the state
// carries a missing or out-of-set theme.
const RenderTheme = "black"

// Themes lists every stylesheet the bundled reveal.js distribution ships,
// in canonical order. Substring matching walks this order, so an ambiguous
// suggestion resolves deterministically.
var Themes = []string{
	"black", "white", "league", "sky", "beige", "simple",
	"serif", "blood", "night", "moon", "solarized",
}

// IsValidTheme reports whether name is one of the shipped themes.
func IsValidTheme(name string) bool {
	for _, t := range Themes {
		if name == t {
			return true
		}
	}
	return false
}

// keyword families for content-based theme guessing, checked in order.
var themeKeywords = []struct {
	theme    string
	keywords []string
}{
	{"simple", []string{"business", "corporate", "professional"}},
	{"black", []string{"tech", "code", "development", "programming"}},
	{"sky", []string{"creative", "design", "art"}},
	{"serif", []string{"history", "culture", "heritage"}},
}

// ResolveTheme maps a free-form model suggestion onto a member of Themes.
// The suggestion is normalized and tried as an exact name, then as a
// substring match in canonical order. When the suggestion yields nothing,
// keyword families in content pick a theme, and DefaultTheme is the final
// answer. The result is always a valid theme.
func ResolveTheme(suggestion, content string) string {
	normalized := normalizeThemeName(suggestion)

	if IsValidTheme(normalized) {
		return normalized
	}
	for _, t := range Themes {
		if strings.Contains(normalized, t) {
			return t
		}
	}

	lowered := strings.ToLower(content)
	for _, family := range themeKeywords {
		for _, kw := range family.keywords {
			if strings.Contains(lowered, kw) {
				return family.theme
			}
		}
	}
	return DefaultTheme
}

func normalizeThemeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Trim(s, "\"'`.,!: \t\r\n")
}
