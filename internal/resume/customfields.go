package resume

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/khrees2412/jobscout/pkg/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MinCustomFieldLength is the shortest body kept as a custom field.
const MinCustomFieldLength = 24

var (
	titleCaseLabel = regexp.MustCompile(`^([A-Z][A-Za-z0-9&/'-]*(?:\s+(?:[A-Z][A-Za-z0-9&/'-]*|and|of|&|in|for)){0,4})\s*:\s*(.*)$`)
	labelCaser     = cases.Title(language.English)

	contactLabels = map[string]struct{}{
		"email": {}, "e-mail": {}, "phone": {}, "mobile": {}, "tel": {},
		"linkedin": {}, "github": {}, "website": {}, "portfolio": {},
		"location": {}, "address": {}, "name": {},
	}
)

// DetectCustomFields finds sections whose headings are outside the known
// vocabulary: short ALL-CAPS lines or "Title Case:" labels with an optional
// inline value. A field ends at a blank line once it has content, or at the
// next heading. Bodies shorter than MinCustomFieldLength are dropped and
// labels are de-duplicated case-insensitively.
func DetectCustomFields(text string) []models.CustomField {
	fields := []models.CustomField{}
	seen := make(map[string]struct{})

	var label string
	var body []string
	inKnown := false
	prevBlank := true
	firstLine := true

	flush := func() {
		if label == "" {
			return
		}
		value := strings.TrimSpace(strings.Join(body, " "))
		key := strings.ToLower(label)
		if _, dup := seen[key]; !dup && len(value) >= MinCustomFieldLength {
			seen[key] = struct{}{}
			fields = append(fields, models.CustomField{Label: label, Value: value})
		}
		label, body = "", nil
	}

	for _, raw := range splitLines(text) {
		line := strings.TrimSpace(raw)

		if line == "" {
			if label != "" && len(body) > 0 {
				flush()
			}
			prevBlank = true
			continue
		}

		if _, ok := MatchHeading(line, KnownHeadings); ok {
			flush()
			inKnown = true
			prevBlank = false
			firstLine = false
			continue
		}

		// the first line of a resume is the candidate's name
		if firstLine {
			firstLine = false
			prevBlank = false
			continue
		}

		if l, inline, ok := customHeading(line, inKnown, prevBlank); ok {
			flush()
			inKnown = false
			label = l
			if inline != "" {
				body = append(body, inline)
			}
			prevBlank = false
			continue
		}

		if label != "" {
			body = append(body, line)
		}
		prevBlank = false
	}
	flush()

	return fields
}

// customHeading reports whether line opens an unknown section. Inside a known
// section a heading only counts when it follows a blank line, so "Tools:
// Docker" rows in a skills list and "ACME CORP" employer lines under
// experience are not mistaken for sections.
func customHeading(line string, inKnown, prevBlank bool) (label, inline string, ok bool) {
	if inKnown && !prevBlank {
		return "", "", false
	}
	if isAllCapsHeading(line) {
		return labelCaser.String(strings.ToLower(line)), "", true
	}
	m := titleCaseLabel.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	name := strings.TrimSpace(m[1])
	if _, known := KnownHeadings[strings.ToLower(name)]; known {
		return "", "", false
	}
	if _, contact := contactLabels[strings.ToLower(name)]; contact {
		return "", "", false
	}
	return name, strings.TrimSpace(m[2]), true
}

func isAllCapsHeading(line string) bool {
	line = strings.TrimSuffix(line, ":")
	if len(line) < 3 || len(line) > 40 || len(strings.Fields(line)) > 4 {
		return false
	}
	if strings.ContainsAny(line, "@0123456789") {
		return false
	}
	letters := 0
	for _, r := range line {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	if letters < 3 {
		return false
	}
	_, known := KnownHeadings[strings.ToLower(line)]
	return !known
}
