package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegment(t *testing.T) {
	text := "Jane Doe\njane@example.com\n\nExperience:\n\n\nSenior Engineer\nAcme\n\n\n\nEngineer\nInitech\n\nSKILLS\nGo, SQL\n\nProjects\nEducation\nState University"

	blocks := Segment(text, KnownHeadings)
	require.Len(t, blocks, 5)

	assert.Equal(t, SectionSummary, blocks[0].Heading)
	assert.True(t, blocks[0].Implicit)
	assert.Equal(t, []string{"Jane Doe", "jane@example.com"}, blocks[0].Body)

	assert.Equal(t, SectionExperience, blocks[1].Heading)
	assert.Equal(t, []string{"Senior Engineer", "Acme", "", "Engineer", "Initech"}, blocks[1].Body)
	assert.Len(t, blocks[1].Entries(), 2)

	assert.Equal(t, SectionSkills, blocks[2].Heading)
	assert.Equal(t, []string{"Go, SQL"}, blocks[2].Body)

	assert.Equal(t, SectionProjects, blocks[3].Heading)
	assert.True(t, blocks[3].Empty())

	assert.Equal(t, SectionEducation, blocks[4].Heading)
}

func TestSegmentNoHeadings(t *testing.T) {
	blocks := Segment("just a paragraph\nof text", nil)
	require.Len(t, blocks, 1)
	assert.True(t, blocks[0].Implicit)

	assert.Empty(t, Segment("", KnownHeadings))
	assert.Empty(t, Segment("\n\n  \n", KnownHeadings))
}

func TestMatchHeading(t *testing.T) {
	tests := []struct {
		line    string
		section Section
		ok      bool
	}{
		{"Experience", SectionExperience, true},
		{"  WORK EXPERIENCE:  ", SectionExperience, true},
		{"About", SectionSummary, true},
		{"Skills :", SectionSkills, true},
		{"Experienced engineer", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			section, ok := MatchHeading(tt.line, KnownHeadings)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.section, section)
		})
	}
}

func TestFindSkipsEmptyAndImplicit(t *testing.T) {
	blocks := Segment("intro text\nSummary\nSkills\nGo\nSummary\nReal summary", KnownHeadings)

	b, ok := Find(blocks, SectionSummary)
	require.True(t, ok)
	assert.Equal(t, []string{"Real summary"}, b.Body)

	_, ok = Find(blocks, SectionProjects)
	assert.False(t, ok)
}

func TestDetectCustomFields(t *testing.T) {
	text := `JANE DOE
jane@example.com
LinkedIn: https://linkedin.com/in/jane-doe-engineer

Security Clearance: Active TS/SCI clearance since 2019

Skills
Languages: Go, Python
Tools: Docker, Kubernetes, Terraform, Helm

SPEAKING
GopherCon 2023 talk on streaming pipelines
and a meetup series on observability

Patents
US 10,000,000 distributed queueing

Hobbies And Sports: chess

SPEAKING
duplicate label should be ignored even if long enough`

	fields := DetectCustomFields(text)
	require.Len(t, fields, 2)

	assert.Equal(t, "Security Clearance", fields[0].Label)
	assert.Equal(t, "Active TS/SCI clearance since 2019", fields[0].Value)

	assert.Equal(t, "Speaking", fields[1].Label)
	assert.Equal(t, "GopherCon 2023 talk on streaming pipelines and a meetup series on observability", fields[1].Value)
}

func TestDetectCustomFieldsIgnoresCapsInsideKnownSection(t *testing.T) {
	text := `Jane Doe
jane@example.com

Experience
Senior Engineer
ACME CORP
2019 - Present - Built distributed payment systems at scale

SPEAKING
GopherCon 2023 talk on payment reconciliation`

	fields := InferCustomFields(text)
	require.Len(t, fields, 1)
	assert.Equal(t, "Speaking", fields[0].Label)
}

func TestDetectCustomFieldsEmpty(t *testing.T) {
	assert.Empty(t, DetectCustomFields(""))
	assert.Empty(t, DetectCustomFields("Experience\nEngineer\nAcme"))
}
