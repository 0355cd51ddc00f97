// Package resume turns free-form resume text into structured profile data.
package resume

import (
	"strings"
)

// Section names a known resume section.
type Section string

const (
	SectionSummary        Section = "summary"
	SectionExperience     Section = "experience"
	SectionEducation      Section = "education"
	SectionSkills         Section = "skills"
	SectionProjects       Section = "projects"
	SectionCertifications Section = "certifications"
	SectionLanguages      Section = "languages"
	SectionAwards         Section = "awards"
	SectionVolunteer      Section = "volunteer"
	SectionPublications   Section = "publications"
	SectionPatents        Section = "patents"
	SectionInterests      Section = "interests"
)

// KnownHeadings maps lower-cased heading lines to the section they open.
var KnownHeadings = map[string]Section{
	"summary":                 SectionSummary,
	"professional summary":    SectionSummary,
	"profile":                 SectionSummary,
	"professional profile":    SectionSummary,
	"about":                   SectionSummary,
	"about me":                SectionSummary,
	"objective":               SectionSummary,
	"experience":              SectionExperience,
	"work experience":         SectionExperience,
	"professional experience": SectionExperience,
	"employment":              SectionExperience,
	"employment history":      SectionExperience,
	"work history":            SectionExperience,
	"education":               SectionEducation,
	"academic background":     SectionEducation,
	"skills":                  SectionSkills,
	"technical skills":        SectionSkills,
	"core skills":             SectionSkills,
	"core competencies":       SectionSkills,
	"projects":                SectionProjects,
	"personal projects":       SectionProjects,
	"selected projects":       SectionProjects,
	"certifications":          SectionCertifications,
	"certificates":            SectionCertifications,
	"languages":               SectionLanguages,
	"awards":                  SectionAwards,
	"honors & awards":         SectionAwards,
	"volunteer":               SectionVolunteer,
	"volunteering":            SectionVolunteer,
	"volunteer experience":    SectionVolunteer,
	"publications":            SectionPublications,
	"patents":                 SectionPatents,
	"interests":               SectionInterests,
	"hobbies":                 SectionInterests,
}

// Block is the body of one section. Body lines are trimmed; an empty line
// marks the boundary between two entries.
type Block struct {
	Heading  Section
	Implicit bool
	Body     []string
}

// Entries splits the block body on entry boundaries.
func (b Block) Entries() [][]string {
	var entries [][]string
	var cur []string
	for _, line := range b.Body {
		if line == "" {
			if len(cur) > 0 {
				entries = append(entries, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		entries = append(entries, cur)
	}
	return entries
}

// Lines returns the non-empty body lines.
func (b Block) Lines() []string {
	out := make([]string, 0, len(b.Body))
	for _, line := range b.Body {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Empty reports whether the block has no content.
func (b Block) Empty() bool {
	return len(b.Body) == 0
}

// MatchHeading returns the section a line opens, if any.
func MatchHeading(line string, headings map[string]Section) (Section, bool) {
	key := headingKey(line)
	if key == "" {
		return "", false
	}
	s, ok := headings[key]
	return s, ok
}

func headingKey(line string) string {
	key := strings.TrimSpace(line)
	key = strings.TrimSuffix(key, ":")
	return strings.ToLower(strings.TrimSpace(key))
}

// Segment splits text into blocks at lines that match headings. Text before
// the first heading lands in an implicit summary block. A heading with no
// body still yields an (empty) block.
func Segment(text string, headings map[string]Section) []Block {
	if headings == nil {
		headings = KnownHeadings
	}

	var blocks []Block
	cur := Block{Heading: SectionSummary, Implicit: true}

	flush := func() {
		for len(cur.Body) > 0 && cur.Body[len(cur.Body)-1] == "" {
			cur.Body = cur.Body[:len(cur.Body)-1]
		}
		if cur.Implicit && cur.Empty() {
			return
		}
		blocks = append(blocks, cur)
	}

	for _, raw := range splitLines(text) {
		line := strings.TrimSpace(raw)
		if section, ok := MatchHeading(line, headings); ok {
			flush()
			cur = Block{Heading: section}
			continue
		}
		if line == "" {
			// blank runs only separate entries once the block has content
			if len(cur.Body) > 0 && cur.Body[len(cur.Body)-1] != "" {
				cur.Body = append(cur.Body, "")
			}
			continue
		}
		cur.Body = append(cur.Body, line)
	}
	flush()

	return blocks
}

// Find returns the first non-empty block for section.
func Find(blocks []Block, section Section) (Block, bool) {
	for _, b := range blocks {
		if b.Heading == section && !b.Empty() && !b.Implicit {
			return b, true
		}
	}
	return Block{}, false
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
