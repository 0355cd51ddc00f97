package linkedin

import (
	"strings"
	"unicode"
)

// chromeLines are page furniture, matched case-insensitively against whole
// lines.
var chromeLines = map[string]struct{}{
	"sign in":              {},
	"join now":             {},
	"skip to main content": {},
	"show all":             {},
	"see more":             {},
	"…see more":            {},
	"show more":            {},
	"show less":            {},
	"follow":               {},
	"connect":              {},
	"message":              {},
	"more":                 {},
	"report this profile":  {},
	"home":                 {},
	"my network":           {},
	"jobs":                 {},
	"messaging":            {},
	"notifications":        {},
	"me":                   {},
	"for business":         {},
	"try premium for free": {},
	"linkedin":             {},
}

// chromePrefixes drop cookie banners and legal footers.
var chromePrefixes = []string{
	"by clicking continue",
	"linkedin corporation ©",
	"© ",
	"we use cookies",
	"user agreement",
	"privacy policy",
	"cookie policy",
}

// Normalize collapses whitespace, drops page furniture and repeated lines.
func Normalize(text string) string {
	var out []string
	seen := make(map[string]struct{})
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.FieldsFunc(line, unicode.IsSpace), " ")
		if len([]rune(line)) < 2 {
			continue
		}
		lower := strings.ToLower(line)
		if _, skip := chromeLines[lower]; skip {
			continue
		}
		if hasChromePrefix(lower) {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func hasChromePrefix(lower string) bool {
	for _, p := range chromePrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}
