package applicator

import (
	"strings"

	"github.com/khrees2412/jobscout/pkg/models"
)

// MergeParsedResume folds a parsed resume into the profile. With replace the
// parsed sections overwrite the profile's; otherwise only empty contact
// fields are filled and entries not already present are appended.
func MergeParsedResume(p *models.Profile, parsed models.ParsedResume, replace bool) {
	c := parsed.Contact
	if replace {
		setIf(&p.Name, c.Name)
		setIf(&p.Email, c.Email)
		setIf(&p.Phone, c.Phone)
		setIf(&p.Location, c.Location)
		setIf(&p.LinkedInURL, c.LinkedIn)
		setIf(&p.PortfolioURL, c.Portfolio)
		p.Summary = parsed.Summary
		p.Skills = append([]models.Skill{}, parsed.Skills...)
		p.Experience = append([]models.Experience{}, parsed.Experience...)
		p.Education = append([]models.Education{}, parsed.Education...)
		p.Projects = append([]models.Project{}, parsed.Projects...)
		p.UpdatedAt = now()
		return
	}

	fillIf(&p.Name, c.Name)
	fillIf(&p.Email, c.Email)
	fillIf(&p.Phone, c.Phone)
	fillIf(&p.Location, c.Location)
	fillIf(&p.LinkedInURL, c.LinkedIn)
	fillIf(&p.PortfolioURL, c.Portfolio)
	fillIf(&p.Summary, parsed.Summary)

	p.Skills = mergeSkills(p.Skills, parsed.Skills)

	for _, e := range parsed.Experience {
		if !hasExperience(p.Experience, e) {
			p.Experience = append(p.Experience, e)
		}
	}
	for _, e := range parsed.Education {
		if !hasEducation(p.Education, e) {
			p.Education = append(p.Education, e)
		}
	}
	for _, pr := range parsed.Projects {
		if !hasProject(p.Projects, pr) {
			p.Projects = append(p.Projects, pr)
		}
	}
	p.UpdatedAt = now()
}

// MergeCustomFields appends fields whose label is not yet on the profile.
func MergeCustomFields(p *models.Profile, fields []models.CustomField) int {
	added := 0
	for _, f := range fields {
		dup := false
		for _, have := range p.CustomFields {
			if strings.EqualFold(have.Label, f.Label) {
				dup = true
				break
			}
		}
		if !dup {
			p.CustomFields = append(p.CustomFields, f)
			added++
		}
	}
	return added
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func fillIf(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func mergeSkills(have, add []models.Skill) []models.Skill {
	seen := make(map[string]struct{}, len(have))
	for _, s := range have {
		seen[strings.ToLower(s.Name)] = struct{}{}
	}
	for _, s := range add {
		s.Name = strings.TrimSpace(s.Name)
		key := strings.ToLower(s.Name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		have = append(have, s)
	}
	return have
}

func hasExperience(list []models.Experience, e models.Experience) bool {
	for _, x := range list {
		if strings.EqualFold(x.Title, e.Title) && strings.EqualFold(x.Company, e.Company) {
			return true
		}
	}
	return false
}

func hasEducation(list []models.Education, e models.Education) bool {
	for _, x := range list {
		if strings.EqualFold(x.School, e.School) && strings.EqualFold(x.Degree, e.Degree) {
			return true
		}
	}
	return false
}

func hasProject(list []models.Project, pr models.Project) bool {
	for _, x := range list {
		if strings.EqualFold(x.Name, pr.Name) {
			return true
		}
	}
	return false
}
