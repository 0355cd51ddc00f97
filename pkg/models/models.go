package models

import "time"

// Profile represents the candidate profile used for applications and ranking
type Profile struct {
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone"`
	Location       string        `json:"location"`
	LinkedInURL    string        `json:"linkedin_url"`
	PortfolioURL   string        `json:"portfolio_url"`
	Summary        string        `json:"summary"`
	TargetRole     string        `json:"target_role"`
	FocusSkills    []string      `json:"focus_skills"`
	JobPreferences string        `json:"job_preferences"`
	Relocation     string        `json:"relocation"` // any, yes, no
	Locations      []string      `json:"locations"`
	ExcludedTerms  []string      `json:"excluded_terms"`
	Skills         []Skill       `json:"skills"`
	Experience     []Experience  `json:"experience"`
	Education      []Education   `json:"education"`
	Projects       []Project     `json:"projects"`
	CustomFields   []CustomField `json:"custom_fields"`
	LinkedInText   string        `json:"linkedin_text"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Skill represents a single skill with its inferred category
type Skill struct {
	Name     string `json:"name"`
	Category string `json:"category"` // Technical, Tool, Language, Soft
}

// Experience represents one work history entry
type Experience struct {
	Title     string   `json:"title"`
	Company   string   `json:"company"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"` // "Present" for current positions
	Bullets   []string `json:"bullets"`
}

// Education represents one education entry
type Education struct {
	School    string `json:"school"`
	Degree    string `json:"degree"`
	StartYear string `json:"start_year"`
	EndYear   string `json:"end_year"`
	GPA       string `json:"gpa"`
}

// Project represents a personal or professional project
type Project struct {
	Name    string   `json:"name"`
	Link    string   `json:"link"`
	Bullets []string `json:"bullets"`
}

// CustomField is a labeled resume section outside the known vocabulary
type CustomField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ContactInfo holds the contact block extracted from a resume header
type ContactInfo struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	LinkedIn  string `json:"linkedin"`
	Portfolio string `json:"portfolio"`
}

// ParsedResume is the structured output of the resume parser
type ParsedResume struct {
	Contact    ContactInfo  `json:"contact"`
	Summary    string       `json:"summary"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Skills     []Skill      `json:"skills"`
	Projects   []Project    `json:"projects"`
}

// Resume represents a stored resume document
type Resume struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	FilePath    string    `json:"file_path"`
	ContentText string    `json:"content_text"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
}

// Job represents a job promoted into the pipeline
type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Source      string    `json:"source"` // remotive, remoteok, arbeitnow, adzuna, manual
	PostedDate  string    `json:"posted_date"`
	Remote      bool      `json:"remote"`
	MatchScore  int       `json:"match_score"`
	AddedAt     time.Time `json:"added_at"`
}

// Application represents a job application
type Application struct {
	ID           string     `json:"id"`
	JobID        string     `json:"job_id"`
	ResumeID     string     `json:"resume_id"`
	Status       string     `json:"status"` // pending, applied, interview, rejected, offer, accepted
	AppliedAt    time.Time  `json:"applied_at"`
	Notes        string     `json:"notes"`
	FollowUpDate *time.Time `json:"follow_up_date"`
}

// Contact represents a networking contact
type Contact struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Company string    `json:"company"`
	Role    string    `json:"role"`
	Notes   string    `json:"notes"`
	AddedAt time.Time `json:"added_at"`
}

// Snapshot is the whole persisted pipeline document
type Snapshot struct {
	Profile      Profile       `json:"profile"`
	Resumes      []Resume      `json:"resumes"`
	Jobs         []Job         `json:"jobs"`
	Applications []Application `json:"applications"`
	Contacts     []Contact     `json:"contacts"`
}

// DefaultResume returns the default resume, or the newest one when none is flagged
func (s *Snapshot) DefaultResume() *Resume {
	var newest *Resume
	for i := range s.Resumes {
		r := &s.Resumes[i]
		if r.IsDefault {
			return r
		}
		if newest == nil || r.CreatedAt.After(newest.CreatedAt) {
			newest = r
		}
	}
	return newest
}

// FindJob returns the job with the given ID
func (s *Snapshot) FindJob(id string) *Job {
	for i := range s.Jobs {
		if s.Jobs[i].ID == id {
			return &s.Jobs[i]
		}
	}
	return nil
}

// FindJobByURL returns the job with the given URL
func (s *Snapshot) FindJobByURL(url string) *Job {
	if url == "" {
		return nil
	}
	for i := range s.Jobs {
		if s.Jobs[i].URL == url {
			return &s.Jobs[i]
		}
	}
	return nil
}

// FindApplication returns the application with the given ID
func (s *Snapshot) FindApplication(id string) *Application {
	for i := range s.Applications {
		if s.Applications[i].ID == id {
			return &s.Applications[i]
		}
	}
	return nil
}

// RecentJobTitles returns up to n titles of the most recently added jobs
func (s *Snapshot) RecentJobTitles(n int) []string {
	titles := make([]string, 0, n)
	for i := len(s.Jobs) - 1; i >= 0 && len(titles) < n; i-- {
		if s.Jobs[i].Title != "" {
			titles = append(titles, s.Jobs[i].Title)
		}
	}
	return titles
}
