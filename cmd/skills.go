package cmd

import (
	"sort"
	"strings"

	"github.com/khrees2412/jobscout/internal/applicator"
	"github.com/khrees2412/jobscout/internal/resume"
	"github.com/khrees2412/jobscout/pkg/models"
	"github.com/spf13/cobra"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage your skills",
	Long:  "Add, list, and remove skills from your profile",
}

var addSkillCmd = &cobra.Command{
	Use:   "add <skill-name>...",
	Short: "Add skills",
	Args:  cobra.MinimumNArgs(1),
	Example: `  jobscout skill add Go
  jobscout skill add Kubernetes Terraform "Technical writing"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		category, _ := cmd.Flags().GetString("category")

		skills := make([]models.Skill, 0, len(args))
		for _, name := range args {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			c := category
			if c == "" {
				c = resume.ClassifySkill(name)
			}
			skills = append(skills, models.Skill{Name: name, Category: c})
		}

		added, err := applicator.AddSkills(cmd.Context(), a.Store, skills...)
		if err != nil {
			return err
		}
		cmd.Printf("✓ Added %d skill(s)", added)
		if skipped := len(skills) - added; skipped > 0 {
			cmd.Printf(", %d already on your profile", skipped)
		}
		cmd.Println()
		return nil
	},
}

var listSkillsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all skills",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		snap, err := a.Store.Read(cmd.Context())
		if err != nil {
			return err
		}

		skills := snap.Profile.Skills
		if len(skills) == 0 {
			cmd.Println("No skills yet. Add them with 'jobscout skill add <name>' or 'jobscout resume add <file>'")
			return nil
		}

		// Group by category
		groups := make(map[string][]string)
		for _, s := range skills {
			c := s.Category
			if c == "" {
				c = "Other"
			}
			groups[c] = append(groups[c], s.Name)
		}
		categories := make([]string, 0, len(groups))
		for c := range groups {
			categories = append(categories, c)
		}
		sort.Strings(categories)

		cmd.Println(titleStyle.Render("Your Skills"))
		for _, c := range categories {
			cmd.Printf("%s %s\n", labelStyle.Render(c+":"), strings.Join(groups[c], ", "))
		}
		cmd.Printf("\n%s %d\n", labelStyle.Render("Total:"), len(skills))
		return nil
	},
}

var removeSkillCmd = &cobra.Command{
	Use:     "rm <skill-name>",
	Aliases: []string{"remove"},
	Short:   "Remove a skill",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if err := applicator.RemoveSkill(cmd.Context(), a.Store, args[0]); err != nil {
			return err
		}
		cmd.Printf("✓ Removed skill: %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(skillCmd)
	skillCmd.AddCommand(addSkillCmd)
	skillCmd.AddCommand(listSkillsCmd)
	skillCmd.AddCommand(removeSkillCmd)

	addSkillCmd.Flags().String("category", "", "Category (Technical, Tool, Language, Soft); inferred when empty")
}
