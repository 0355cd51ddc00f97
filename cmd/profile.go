package cmd

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/khrees2412/jobscout/internal/applicator"
	"github.com/khrees2412/jobscout/internal/linkedin"
	"github.com/khrees2412/jobscout/internal/logger"
	"github.com/khrees2412/jobscout/pkg/models"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile",
	Long:  "Create and update the profile used to rank postings",
}

var initProfileCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize your profile with an interactive wizard",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		snap, err := a.Store.Read(cmd.Context())
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		if snap.Profile.Name != "" && !force {
			cmd.Println(titleStyle.Render("Profile Already Exists"))
			cmd.Println("Use 'jobscout profile show' to view or 'jobscout profile set' to update, or rerun with --force.")
			return nil
		}

		cmd.Println(titleStyle.Render("Welcome to jobscout! Let's set up your profile."))

		p := snap.Profile
		steps := []struct {
			label    string
			dst      *string
			validate promptui.ValidateFunc
		}{
			{"Full Name", &p.Name, required},
			{"Email", &p.Email, validEmail},
			{"Phone (optional)", &p.Phone, nil},
			{"Location (City, ST)", &p.Location, nil},
			{"Target role", &p.TargetRole, nil},
			{"LinkedIn URL (optional)", &p.LinkedInURL, validLinkedIn},
			{"Portfolio URL (optional)", &p.PortfolioURL, nil},
		}
		for _, s := range steps {
			prompt := promptui.Prompt{Label: s.label, Default: *s.dst, Validate: s.validate}
			value, err := prompt.Run()
			if err != nil {
				return err
			}
			*s.dst = strings.TrimSpace(value)
		}

		relocation := promptui.Select{
			Label: "Open to relocation?",
			Items: []string{models.RelocationAny, models.RelocationYes, models.RelocationNo},
		}
		if _, p.Relocation, err = relocation.Run(); err != nil {
			return err
		}

		err = applicator.UpdateProfile(cmd.Context(), a.Store, func(dst *models.Profile) error {
			*dst = p
			return nil
		})
		if err != nil {
			return err
		}

		cmd.Println(titleStyle.Render("✓ Profile created successfully!"))
		cmd.Println("Next steps:")
		cmd.Println("  1. Add your resume: jobscout resume add /path/to/resume.txt")
		cmd.Println("  2. Run a search: jobscout search \"backend engineer\"")
		return nil
	},
}

var showProfileCmd = &cobra.Command{
	Use:   "show",
	Short: "Display your profile information",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		snap, err := a.Store.Read(cmd.Context())
		if err != nil {
			return err
		}
		p := snap.Profile
		if p.Name == "" && p.Email == "" && len(p.Skills) == 0 {
			cmd.Println("No profile found. Run 'jobscout profile init' to create one.")
			return nil
		}

		cmd.Println(titleStyle.Render("Your Profile"))
		printField(cmd, "Name:", p.Name)
		printField(cmd, "Email:", p.Email)
		printField(cmd, "Phone:", p.Phone)
		printField(cmd, "Location:", p.Location)
		printField(cmd, "Target Role:", p.TargetRole)
		printField(cmd, "Relocation:", p.Relocation)
		printField(cmd, "Locations:", strings.Join(p.Locations, ", "))
		printField(cmd, "Excluded:", strings.Join(p.ExcludedTerms, ", "))
		printField(cmd, "Focus Skills:", strings.Join(p.FocusSkills, ", "))
		printField(cmd, "LinkedIn:", p.LinkedInURL)
		printField(cmd, "Portfolio:", p.PortfolioURL)
		if p.LinkedInText != "" {
			printField(cmd, "LinkedIn Text:", logger.Truncate(p.LinkedInText, 80))
		}
		if p.Summary != "" {
			cmd.Println(labelStyle.Render("\nSummary:"))
			cmd.Println(valueStyle.Render(p.Summary))
		}

		if len(p.Skills) > 0 {
			names := make([]string, len(p.Skills))
			for i, s := range p.Skills {
				names[i] = s.Name
			}
			cmd.Println(labelStyle.Render("\nSkills:"))
			cmd.Printf("  %s\n", strings.Join(names, ", "))
		}

		if len(p.Experience) > 0 {
			cmd.Println(labelStyle.Render("\nExperience:"))
			for _, exp := range p.Experience {
				cmd.Printf("  • %s at %s %s\n", exp.Title, exp.Company, mutedStyle.Render(dateRange(exp.StartDate, exp.EndDate)))
			}
		}

		if len(p.Education) > 0 {
			cmd.Println(labelStyle.Render("\nEducation:"))
			for _, ed := range p.Education {
				cmd.Printf("  • %s, %s %s\n", ed.Degree, ed.School, mutedStyle.Render(dateRange(ed.StartYear, ed.EndYear)))
			}
		}

		if len(p.CustomFields) > 0 {
			cmd.Println(labelStyle.Render("\nOther:"))
			for _, f := range p.CustomFields {
				cmd.Printf("  • %s: %s\n", f.Label, logger.Truncate(f.Value, 80))
			}
		}
		return nil
	},
}

var setProfileCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields",
	Example: `  jobscout profile set --name "Jane Doe"
  jobscout profile set --location "Austin, TX" --relocation no
  jobscout profile set --locations "Austin,Denver" --exclude "clearance,onsite"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		updated := 0
		err = applicator.UpdateProfile(cmd.Context(), a.Store, func(p *models.Profile) error {
			for flag, dst := range map[string]*string{
				"name":        &p.Name,
				"email":       &p.Email,
				"phone":       &p.Phone,
				"location":    &p.Location,
				"linkedin":    &p.LinkedInURL,
				"portfolio":   &p.PortfolioURL,
				"summary":     &p.Summary,
				"target-role": &p.TargetRole,
				"preferences": &p.JobPreferences,
			} {
				if flags.Changed(flag) {
					*dst, _ = flags.GetString(flag)
					updated++
				}
			}
			if flags.Changed("relocation") {
				r, _ := flags.GetString("relocation")
				r = strings.ToLower(strings.TrimSpace(r))
				if r != models.RelocationAny && r != models.RelocationYes && r != models.RelocationNo {
					return fmt.Errorf("relocation must be any, yes or no")
				}
				p.Relocation = r
				updated++
			}
			for flag, dst := range map[string]*[]string{
				"locations":    &p.Locations,
				"exclude":      &p.ExcludedTerms,
				"focus-skills": &p.FocusSkills,
			} {
				if flags.Changed(flag) {
					*dst, _ = flags.GetStringSlice(flag)
					updated++
				}
			}
			if updated == 0 {
				return errNothingToUpdate
			}
			return nil
		})
		if errors.Is(err, errNothingToUpdate) {
			cmd.Println("No fields to update. Use flags like --name, --location, etc.")
			return nil
		}
		if err != nil {
			return err
		}

		cmd.Printf("✓ Profile updated (%d field(s))\n", updated)
		return nil
	},
}

var linkedInProfileCmd = &cobra.Command{
	Use:   "linkedin [profile-url]",
	Short: "Capture your public LinkedIn profile text into the profile",
	Long: `Opens the profile in headless Chrome and stores its visible text. The text
feeds the candidate signal used for ranking. Defaults to linkedin.profile_url
or the LinkedIn URL on your profile.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		snap, err := a.Store.Read(cmd.Context())
		if err != nil {
			return err
		}

		raw := a.Config.LinkedIn.ProfileURL
		if raw == "" {
			raw = snap.Profile.LinkedInURL
		}
		if len(args) == 1 {
			raw = args[0]
		}
		profileURL, err := linkedin.ValidateProfileURL(raw)
		if err != nil {
			return err
		}

		cmd.Printf("Capturing %s...\n", profileURL)
		capturer := linkedin.New(a.Config.LinkedIn.Timeout, a.Logger.Named("linkedin"))
		text, err := capturer.Capture(cmd.Context(), profileURL)
		if err != nil {
			return err
		}

		err = applicator.UpdateProfile(cmd.Context(), a.Store, func(p *models.Profile) error {
			p.LinkedInURL = profileURL
			p.LinkedInText = text
			return nil
		})
		if err != nil {
			return err
		}
		a.Logger.Debug("linkedin captured", zap.Int("chars", len(text)))
		cmd.Printf("✓ Stored %d characters of LinkedIn text\n", len(text))
		return nil
	},
}

var errNothingToUpdate = errors.New("nothing to update")

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func validEmail(s string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(s)); err != nil {
		return errors.New("invalid email")
	}
	return nil
}

func validLinkedIn(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := linkedin.ValidateProfileURL(s)
	return err
}

func printField(cmd *cobra.Command, label, value string) {
	if value == "" {
		return
	}
	cmd.Printf("%s %s\n", labelStyle.Render(label), valueStyle.Render(value))
}

func dateRange(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return "(" + end + ")"
	case end == "":
		return "(" + start + ")"
	}
	return "(" + start + " - " + end + ")"
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(initProfileCmd)
	profileCmd.AddCommand(showProfileCmd)
	profileCmd.AddCommand(setProfileCmd)
	profileCmd.AddCommand(linkedInProfileCmd)

	initProfileCmd.Flags().Bool("force", false, "Rerun the wizard over an existing profile")

	// Flags for set command
	setProfileCmd.Flags().String("name", "", "Update name")
	setProfileCmd.Flags().String("email", "", "Update email")
	setProfileCmd.Flags().String("phone", "", "Update phone")
	setProfileCmd.Flags().String("location", "", "Update location (City, ST)")
	setProfileCmd.Flags().String("linkedin", "", "Update LinkedIn URL")
	setProfileCmd.Flags().String("portfolio", "", "Update portfolio URL")
	setProfileCmd.Flags().String("summary", "", "Update summary")
	setProfileCmd.Flags().String("target-role", "", "Update target role")
	setProfileCmd.Flags().String("preferences", "", "Update free-text job preferences")
	setProfileCmd.Flags().String("relocation", "", "Open to relocation: any, yes or no")
	setProfileCmd.Flags().StringSlice("locations", nil, "Preferred locations")
	setProfileCmd.Flags().StringSlice("exclude", nil, "Terms that disqualify a posting")
	setProfileCmd.Flags().StringSlice("focus-skills", nil, "Skills to weight higher")
}
