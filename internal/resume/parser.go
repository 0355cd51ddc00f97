package resume

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/khrees2412/jobscout/pkg/models"
)

// Extraction limits.
const (
	ContactWindow   = 25
	MaxSkills       = 40
	MaxSkillLength  = 40
	MaxExperience   = 8
	MaxBullets      = 8
	MaxEducation    = 5
	MaxProjects     = 8
	MaxSummaryLines = 3
)

const monthPrefix = `(?:\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+)?`

var (
	emailRe     = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe     = regexp.MustCompile(`(?:\+?1[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)
	urlRe       = regexp.MustCompile(`https?://[^\s|,;()<>"]+`)
	linkedInRe  = regexp.MustCompile(`(?i)(?:https?://)?(?:[a-z]{2,3}\.)?linkedin\.com/[^\s|,;()<>"]+`)
	cityStateRe = regexp.MustCompile(`\b([A-Z][A-Za-z.'-]+(?:\s[A-Z][A-Za-z.'-]+){0,3}),\s*([A-Z]{2})\b`)
	dateRangeRe = regexp.MustCompile(`(?i)` + monthPrefix + `(\d{4})(?:[-/](\d{1,2}))?\s*(?:-|–|—|to)\s*` + monthPrefix + `(\d{4}(?:[-/]\d{1,2})?|present|current|now)`)
	yearRe      = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	gpaRe       = regexp.MustCompile(`(?i)GPA:?\s*(\d\.\d{1,2})`)
	skillSepRe  = regexp.MustCompile(`[\n,|;•·▪◦●]`)
	skillLabel  = regexp.MustCompile(`^[A-Za-z][A-Za-z /&+-]{0,30}:\s*`)
)

// Parse extracts structured data from resume text. It never fails; anything
// it cannot recognize comes back empty.
func Parse(raw string) models.ParsedResume {
	blocks := Segment(raw, KnownHeadings)

	return models.ParsedResume{
		Contact:    ExtractContact(raw),
		Summary:    ExtractSummary(blocks),
		Experience: ExtractExperience(blocks),
		Education:  ExtractEducation(blocks),
		Skills:     ExtractSkills(blocks),
		Projects:   ExtractProjects(blocks),
	}
}

// InferCustomFields returns labeled sections outside the known vocabulary.
func InferCustomFields(raw string) []models.CustomField {
	return DetectCustomFields(raw)
}

// headerLines returns the first ContactWindow non-empty lines, and how many of
// them precede the first known heading.
func headerLines(text string) (window []string, header int) {
	header = -1
	for _, raw := range splitLines(text) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if _, ok := MatchHeading(line, KnownHeadings); ok && header < 0 {
			header = len(window)
		}
		window = append(window, line)
		if len(window) == ContactWindow {
			break
		}
	}
	if header < 0 {
		header = len(window)
	}
	return window, header
}

// ExtractContact pulls name, email, phone, links and location from the top of
// the resume.
func ExtractContact(text string) models.ContactInfo {
	window, header := headerLines(text)

	var c models.ContactInfo
	for _, line := range window {
		if c.Email == "" {
			c.Email = emailRe.FindString(line)
		}
		if c.Phone == "" {
			if m := phoneRe.FindString(stripEmailsAndURLs(line)); m != "" {
				c.Phone = strings.TrimSpace(m)
			}
		}
	}
	c.LinkedIn, c.Portfolio = ExtractLinks(text)
	c.Location = ExtractLocation(text)
	c.Name = extractName(window[:header])
	return c
}

func extractName(lines []string) string {
	for _, line := range lines {
		segments := splitSegments(line)
		if len(segments) == 0 {
			continue
		}
		candidate := strings.TrimSpace(segments[0])
		if candidate == "" || len(candidate) > 60 {
			continue
		}
		if emailRe.MatchString(candidate) || looksLikeURL(candidate) || digitHeavy(candidate) {
			continue
		}
		return candidate
	}
	return ""
}

// ExtractLinks returns the first LinkedIn URL and the first other http(s) URL
// within the contact window.
func ExtractLinks(text string) (linkedin, portfolio string) {
	window, _ := headerLines(text)
	for _, line := range window {
		if linkedin == "" {
			if m := linkedInRe.FindString(line); m != "" {
				linkedin = normalizeURL(m)
			}
		}
		if portfolio == "" {
			for _, m := range urlRe.FindAllString(line, -1) {
				if !strings.Contains(strings.ToLower(m), "linkedin.com") {
					portfolio = strings.TrimRight(m, ".")
					break
				}
			}
		}
	}
	return linkedin, portfolio
}

// ExtractLocation returns the first "City, ST" in the header region.
func ExtractLocation(text string) string {
	window, header := headerLines(text)
	for _, line := range window[:header] {
		if m := cityStateRe.FindString(stripEmailsAndURLs(line)); m != "" {
			return m
		}
	}
	return ""
}

// ExtractSummary returns up to three lines of the summary section, or of the
// untitled text at the top when the resume has no summary heading.
func ExtractSummary(blocks []Block) string {
	if b, ok := Find(blocks, SectionSummary); ok {
		return joinFirst(b.Lines(), MaxSummaryLines)
	}
	for _, b := range blocks {
		if !b.Implicit {
			continue
		}
		lines := b.Lines()
		var prose []string
		for i, line := range lines {
			if i == 0 || contactLike(line) {
				continue
			}
			prose = append(prose, line)
		}
		return joinFirst(prose, MaxSummaryLines)
	}
	return ""
}

// ExtractSkills splits the skills section into distinct, classified skills.
func ExtractSkills(blocks []Block) []models.Skill {
	skills := []models.Skill{}
	b, ok := Find(blocks, SectionSkills)
	if !ok {
		return skills
	}

	seen := make(map[string]struct{})
	for _, line := range b.Lines() {
		line = skillLabel.ReplaceAllString(stripBullet(line), "")
		for _, part := range skillSepRe.Split(line, -1) {
			name := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(part), "."))
			n := utf8.RuneCountInString(name)
			if n < 1 || n > MaxSkillLength {
				continue
			}
			key := strings.ToLower(name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			skills = append(skills, models.Skill{Name: name, Category: ClassifySkill(name)})
			if len(skills) == MaxSkills {
				return skills
			}
		}
	}
	return skills
}

// ClassifySkill assigns Technical, Tool or Language by table membership of the
// whole name or any of its words, checked in that order. Anything else is Soft.
func ClassifySkill(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return unicode.IsSpace(r) || r == '/' || r == '(' || r == ')'
	})

	tables := []struct {
		category string
		table    map[string]struct{}
	}{
		{CategoryTechnical, TechnicalSkills},
		{CategoryTool, ToolSkills},
		{CategoryLanguage, HumanLanguages},
	}
	for _, t := range tables {
		if _, ok := t.table[lower]; ok {
			return t.category
		}
		for _, w := range words {
			if _, ok := t.table[w]; ok {
				return t.category
			}
		}
	}
	return CategorySoft
}

// ExtractExperience reads work history entries separated by blank lines.
// Line one is the title, line two the company unless it only holds dates or a
// bullet.
func ExtractExperience(blocks []Block) []models.Experience {
	out := []models.Experience{}
	b, ok := Find(blocks, SectionExperience)
	if !ok {
		return out
	}

	for _, entry := range b.Entries() {
		exp := models.Experience{
			Title:   stripDates(stripBullet(entry[0])),
			Bullets: collectBullets(entry[1:]),
		}
		if len(entry) > 1 && !isBullet(entry[1]) {
			exp.Company = stripDates(entry[1])
		}
		exp.StartDate, exp.EndDate = findDateRange(entry)
		if exp.Title == "" && exp.Company == "" {
			continue
		}
		out = append(out, exp)
		if len(out) == MaxExperience {
			break
		}
	}
	return out
}

// ExtractEducation reads education entries separated by blank lines.
func ExtractEducation(blocks []Block) []models.Education {
	out := []models.Education{}
	b, ok := Find(blocks, SectionEducation)
	if !ok {
		return out
	}

	for _, entry := range b.Entries() {
		edu := models.Education{School: stripDates(stripBullet(entry[0]))}
		if len(entry) > 1 {
			edu.Degree = stripDates(gpaRe.ReplaceAllString(stripBullet(entry[1]), ""))
		}

		joined := strings.Join(entry, "\n")
		years := yearRe.FindAllString(joined, -1)
		switch {
		case len(years) >= 2:
			edu.StartYear, edu.EndYear = years[0], years[1]
		case len(years) == 1:
			edu.EndYear = years[0]
		}
		if m := gpaRe.FindStringSubmatch(joined); m != nil {
			edu.GPA = m[1]
		}
		if edu.School == "" {
			continue
		}

		out = append(out, edu)
		if len(out) == MaxEducation {
			break
		}
	}
	return out
}

// ExtractProjects reads project entries separated by blank lines.
func ExtractProjects(blocks []Block) []models.Project {
	out := []models.Project{}
	b, ok := Find(blocks, SectionProjects)
	if !ok {
		return out
	}

	for _, entry := range b.Entries() {
		p := models.Project{
			Name:    trimSeparators(urlRe.ReplaceAllString(stripBullet(entry[0]), "")),
			Link:    urlRe.FindString(strings.Join(entry, "\n")),
			Bullets: collectBullets(entry[1:]),
		}
		p.Link = strings.TrimRight(p.Link, ".")
		if p.Name == "" {
			continue
		}
		out = append(out, p)
		if len(out) == MaxProjects {
			break
		}
	}
	return out
}

func findDateRange(lines []string) (start, end string) {
	for _, line := range lines {
		m := dateRangeRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		start = m[1]
		if m[2] != "" {
			start += "-" + m[2]
		}
		end = strings.ReplaceAll(m[3], "/", "-")
		switch strings.ToLower(end) {
		case "present", "current", "now":
			end = "Present"
		}
		return start, end
	}
	return "", ""
}

func collectBullets(lines []string) []string {
	bullets := []string{}
	for _, line := range lines {
		if !isBullet(line) {
			continue
		}
		if text := stripBullet(line); text != "" {
			bullets = append(bullets, text)
		}
		if len(bullets) == MaxBullets {
			break
		}
	}
	return bullets
}

func isBullet(line string) bool {
	for _, g := range BulletGlyphs {
		if strings.HasPrefix(line, g) {
			return true
		}
	}
	return false
}

func stripBullet(line string) string {
	for _, g := range BulletGlyphs {
		if strings.HasPrefix(line, g) {
			return strings.TrimSpace(strings.TrimPrefix(line, g))
		}
	}
	return strings.TrimSpace(line)
}

func stripDates(line string) string {
	line = dateRangeRe.ReplaceAllString(line, "")
	line = yearRe.ReplaceAllString(line, "")
	return trimSeparators(line)
}

func trimSeparators(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune("-–—|,()·•:", r)
	})
}

func splitSegments(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == '|' || r == '•' || r == '·'
	})
}

func stripEmailsAndURLs(line string) string {
	line = emailRe.ReplaceAllString(line, " ")
	line = linkedInRe.ReplaceAllString(line, " ")
	return urlRe.ReplaceAllString(line, " ")
}

func looksLikeURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "http") || strings.HasPrefix(lower, "www.") || linkedInRe.MatchString(s) ||
		strings.Contains(lower, ".com/") || strings.Contains(lower, ".io/")
}

func digitHeavy(s string) bool {
	digits := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= 4 || digits*3 > utf8.RuneCountInString(s)
}

func contactLike(line string) bool {
	if emailRe.MatchString(line) || looksLikeURL(line) || phoneRe.MatchString(line) {
		return true
	}
	// a bare "City, ST" line
	if m := cityStateRe.FindString(line); m != "" && len(trimSeparators(strings.Replace(line, m, "", 1))) == 0 {
		return true
	}
	return false
}

func joinFirst(lines []string, n int) string {
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, " ")
}

func normalizeURL(u string) string {
	u = strings.TrimRight(u, "./")
	if !strings.HasPrefix(strings.ToLower(u), "http") {
		u = "https://" + u
	}
	return u
}
