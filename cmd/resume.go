package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/khrees2412/jobscout/internal/app"
	"github.com/khrees2412/jobscout/internal/applicator"
	"github.com/khrees2412/jobscout/internal/resume"
	"github.com/khrees2412/jobscout/pkg/models"
	"github.com/spf13/cobra"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Manage resumes",
	Long:  "Add, list and parse the plain-text resumes used for ranking",
}

var addResumeCmd = &cobra.Command{
	Use:   "add <file-path>",
	Short: "Add a resume",
	Args:  cobra.ExactArgs(1),
	Example: `  jobscout resume add ~/Documents/resume.txt
  jobscout resume add ./backend.txt --name "Backend Resume" --default`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		setDefault, _ := cmd.Flags().GetBool("default")
		merge, _ := cmd.Flags().GetBool("merge")

		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		text, err := readResumeFile(path)
		if err != nil {
			return err
		}

		// Use filename as name if not provided
		if name == "" {
			name = filepath.Base(path)
		}

		r, err := applicator.AddResume(cmd.Context(), a.Store, models.Resume{
			Name:        name,
			FilePath:    path,
			ContentText: text,
			IsDefault:   setDefault,
		})
		if err != nil {
			return err
		}
		cmd.Printf("✓ Resume added: %s (ID: %s)\n", r.Name, r.ID)
		if r.IsDefault {
			cmd.Println("  Set as default resume")
		}

		if !merge {
			return nil
		}
		parsed := resume.Parse(text)
		fields := resume.InferCustomFields(text)
		added := 0
		err = applicator.UpdateProfile(cmd.Context(), a.Store, func(p *models.Profile) error {
			applicator.MergeParsedResume(p, parsed, false)
			added = applicator.MergeCustomFields(p, fields)
			return nil
		})
		if err != nil {
			return err
		}
		cmd.Printf("✓ Profile updated: %d skills, %d roles, %d custom fields\n",
			len(parsed.Skills), len(parsed.Experience), added)
		return nil
	},
}

var listResumesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all resumes",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		snap, err := a.Store.Read(cmd.Context())
		if err != nil {
			return err
		}

		if len(snap.Resumes) == 0 {
			cmd.Println("No resumes found. Add a resume with 'jobscout resume add <file>'")
			return nil
		}

		cmd.Println(titleStyle.Render("Your Resumes"))
		for i, r := range snap.Resumes {
			defaultMarker := ""
			if r.IsDefault {
				defaultMarker = " [DEFAULT]"
			}
			cmd.Printf("\n%d. %s%s\n", i+1, r.Name, defaultMarker)
			cmd.Printf("   %s %s\n", labelStyle.Render("ID:"), r.ID)
			cmd.Printf("   %s %s\n", labelStyle.Render("File:"), r.FilePath)
			cmd.Printf("   %s %s\n", labelStyle.Render("Added:"), r.CreatedAt.Format("Jan 2, 2006"))
		}
		return nil
	},
}

var defaultResumeCmd = &cobra.Command{
	Use:   "default <resume-id>",
	Short: "Set the default resume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if err := applicator.SetDefaultResume(cmd.Context(), a.Store, args[0]); err != nil {
			return err
		}
		cmd.Printf("✓ Default resume set to %s\n", args[0])
		return nil
	},
}

var parseResumeCmd = &cobra.Command{
	Use:   "parse [file-path]",
	Short: "Parse a resume and print the structured result",
	Long:  "Parses the given file, or the default resume when no file is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		text, err := resumeText(cmd, a, args)
		if err != nil {
			return err
		}
		parsed := resume.Parse(text)

		if output, _ := cmd.Flags().GetString("output"); output == "json" {
			return printJSON(cmd, parsed)
		}

		c := parsed.Contact
		cmd.Println(titleStyle.Render("Parsed Resume"))
		printField(cmd, "Name:", c.Name)
		printField(cmd, "Email:", c.Email)
		printField(cmd, "Phone:", c.Phone)
		printField(cmd, "Location:", c.Location)
		printField(cmd, "LinkedIn:", c.LinkedIn)
		printField(cmd, "Portfolio:", c.Portfolio)
		if parsed.Summary != "" {
			cmd.Println(labelStyle.Render("\nSummary:"))
			cmd.Println(parsed.Summary)
		}
		if len(parsed.Skills) > 0 {
			cmd.Println(labelStyle.Render("\nSkills:"))
			for _, s := range parsed.Skills {
				cmd.Printf("  • %s %s\n", s.Name, mutedStyle.Render(s.Category))
			}
		}
		if len(parsed.Experience) > 0 {
			cmd.Println(labelStyle.Render("\nExperience:"))
			for _, e := range parsed.Experience {
				cmd.Printf("  • %s at %s %s\n", e.Title, e.Company, mutedStyle.Render(dateRange(e.StartDate, e.EndDate)))
				for _, b := range e.Bullets {
					cmd.Printf("      - %s\n", b)
				}
			}
		}
		if len(parsed.Education) > 0 {
			cmd.Println(labelStyle.Render("\nEducation:"))
			for _, e := range parsed.Education {
				cmd.Printf("  • %s, %s %s\n", e.Degree, e.School, mutedStyle.Render(dateRange(e.StartYear, e.EndYear)))
			}
		}
		if len(parsed.Projects) > 0 {
			cmd.Println(labelStyle.Render("\nProjects:"))
			for _, pr := range parsed.Projects {
				cmd.Printf("  • %s %s\n", pr.Name, mutedStyle.Render(pr.Link))
			}
		}
		return nil
	},
}

var fieldsResumeCmd = &cobra.Command{
	Use:   "fields [file-path]",
	Short: "List sections outside the standard resume headings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		text, err := resumeText(cmd, a, args)
		if err != nil {
			return err
		}
		fields := resume.InferCustomFields(text)

		if len(fields) == 0 {
			cmd.Println("No custom fields found.")
			return nil
		}
		cmd.Println(titleStyle.Render("Custom Fields"))
		for _, f := range fields {
			cmd.Printf("%s %s\n", labelStyle.Render(f.Label+":"), f.Value)
		}

		if merge, _ := cmd.Flags().GetBool("merge"); merge {
			added := 0
			err := applicator.UpdateProfile(cmd.Context(), a.Store, func(p *models.Profile) error {
				added = applicator.MergeCustomFields(p, fields)
				return nil
			})
			if err != nil {
				return err
			}
			cmd.Printf("\n✓ Added %d field(s) to your profile\n", added)
		}
		return nil
	},
}

// resumeText reads args[0] or falls back to the default resume.
func resumeText(cmd *cobra.Command, a *app.App, args []string) (string, error) {
	if len(args) == 1 {
		return readResumeFile(args[0])
	}
	snap, err := a.Store.Read(cmd.Context())
	if err != nil {
		return "", err
	}
	r := snap.DefaultResume()
	if r == nil {
		return "", app.ErrNoResume
	}
	return r.ContentText, nil
}

func readResumeFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read resume: %w", err)
	}
	return resume.SanitizeText(raw)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(resumeCmd)
	resumeCmd.AddCommand(addResumeCmd)
	resumeCmd.AddCommand(listResumesCmd)
	resumeCmd.AddCommand(defaultResumeCmd)
	resumeCmd.AddCommand(parseResumeCmd)
	resumeCmd.AddCommand(fieldsResumeCmd)

	// Flags for add command
	addResumeCmd.Flags().String("name", "", "Name for the resume")
	addResumeCmd.Flags().Bool("default", false, "Set as default resume")
	addResumeCmd.Flags().Bool("merge", true, "Merge the parsed resume into your profile")

	parseResumeCmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	fieldsResumeCmd.Flags().Bool("merge", false, "Add new fields to your profile")
}
