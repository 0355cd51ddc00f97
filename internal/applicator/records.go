package applicator

import (
	"context"
	"fmt"
	"strings"

	"github.com/khrees2412/jobscout/internal/app"
	"github.com/khrees2412/jobscout/internal/database"
	"github.com/khrees2412/jobscout/pkg/models"
)

// AddResume stores a resume. The first resume, or one flagged IsDefault,
// becomes the default.
func AddResume(ctx context.Context, repo database.Repository, r models.Resume) (*models.Resume, error) {
	if strings.TrimSpace(r.ContentText) == "" {
		return nil, fmt.Errorf("%w: resume has no text", app.ErrInvalidArgument)
	}
	err := repo.Update(ctx, func(s *models.Snapshot) error {
		r.ID = newID()
		r.CreatedAt = now()
		if len(s.Resumes) == 0 {
			r.IsDefault = true
		}
		if r.IsDefault {
			for i := range s.Resumes {
				s.Resumes[i].IsDefault = false
			}
		}
		s.Resumes = append(s.Resumes, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// SetDefaultResume flags one resume as the default.
func SetDefaultResume(ctx context.Context, repo database.Repository, id string) error {
	return repo.Update(ctx, func(s *models.Snapshot) error {
		found := false
		for i := range s.Resumes {
			if s.Resumes[i].ID == id {
				found = true
			}
		}
		if !found {
			return fmt.Errorf("resume %s: %w", id, app.ErrNotFound)
		}
		for i := range s.Resumes {
			s.Resumes[i].IsDefault = s.Resumes[i].ID == id
		}
		return nil
	})
}

// AddContact stores a networking contact.
func AddContact(ctx context.Context, repo database.Repository, c models.Contact) (*models.Contact, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, fmt.Errorf("%w: contact name is required", app.ErrInvalidArgument)
	}
	err := repo.Update(ctx, func(s *models.Snapshot) error {
		c.ID = newID()
		c.AddedAt = now()
		s.Contacts = append(s.Contacts, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// AddSkills adds skills to the profile, skipping names already present.
// It returns how many were added.
func AddSkills(ctx context.Context, repo database.Repository, skills ...models.Skill) (int, error) {
	added := 0
	err := repo.Update(ctx, func(s *models.Snapshot) error {
		added = 0
		before := len(s.Profile.Skills)
		s.Profile.Skills = mergeSkills(s.Profile.Skills, skills)
		added = len(s.Profile.Skills) - before
		if added > 0 {
			s.Profile.UpdatedAt = now()
		}
		return nil
	})
	return added, err
}

// RemoveSkill drops a skill by name, case-insensitively.
func RemoveSkill(ctx context.Context, repo database.Repository, name string) error {
	return repo.Update(ctx, func(s *models.Snapshot) error {
		for i, sk := range s.Profile.Skills {
			if strings.EqualFold(sk.Name, strings.TrimSpace(name)) {
				s.Profile.Skills = append(s.Profile.Skills[:i], s.Profile.Skills[i+1:]...)
				s.Profile.UpdatedAt = now()
				return nil
			}
		}
		return fmt.Errorf("skill %q: %w", name, app.ErrNotFound)
	})
}

// UpdateProfile applies mutate to the stored profile.
func UpdateProfile(ctx context.Context, repo database.Repository, mutate func(*models.Profile) error) error {
	return repo.Update(ctx, func(s *models.Snapshot) error {
		if err := mutate(&s.Profile); err != nil {
			return err
		}
		s.Profile.UpdatedAt = now()
		return nil
	})
}
