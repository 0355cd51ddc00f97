package cmd

import (
	"errors"
	"fmt"

	"github.com/khrees2412/jobscout/internal/app"
	"github.com/khrees2412/jobscout/internal/applicator"
	"github.com/khrees2412/jobscout/internal/sources"
	"github.com/khrees2412/jobscout/pkg/models"
	"github.com/spf13/cobra"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Manage tracked jobs",
	Long:  "Add, list, view, and remove the jobs in your pipeline",
}

var addJobCmd = &cobra.Command{
	Use:   "add",
	Short: "Track a job posting",
	Example: `  jobscout job add --url https://boards.greenhouse.io/acme/jobs/123
  jobscout job add --title "Software Engineer" --company "Acme Inc" --location "Remote"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		url, _ := cmd.Flags().GetString("url")
		title, _ := cmd.Flags().GetString("title")
		company, _ := cmd.Flags().GetString("company")
		location, _ := cmd.Flags().GetString("location")
		description, _ := cmd.Flags().GetString("description")
		remote, _ := cmd.Flags().GetBool("remote")

		job := models.Job{
			Title:       title,
			Company:     company,
			Location:    location,
			Description: description,
			URL:         url,
			Remote:      remote,
		}

		if url != "" && (title == "" || company == "") {
			// Try to parse job from URL
			cmd.Printf("Fetching job details from %s...\n", url)
			p, err := sources.FetchJobPage(ctx, a.HTTPClient, url)
			if err != nil {
				cmd.Printf("Warning: could not parse job URL: %v\n", err)
				cmd.Println("You can manually provide job details using --title, --company, etc.")
				if title == "" || company == "" {
					return fmt.Errorf("%w: job title and company required when URL parsing fails", app.ErrInvalidArgument)
				}
			} else {
				fillJob(&job, p)
			}
		}

		added, err := applicator.AddJob(ctx, a.Store, job)
		if errors.Is(err, app.ErrDuplicateURL) {
			cmd.Println("This job has already been added.")
			return nil
		}
		if err != nil {
			return err
		}
		cmd.Printf("✓ Job added: %s at %s (ID: %s)\n", added.Title, added.Company, added.ID)
		return nil
	},
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tracked jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		snap, err := a.Store.Read(cmd.Context())
		if err != nil {
			return err
		}

		if len(snap.Jobs) == 0 {
			cmd.Println("No jobs found. Track jobs with 'jobscout search <query> --promote 1' or 'jobscout job add --url URL'")
			return nil
		}

		status := make(map[string]string, len(snap.Applications))
		for _, ap := range snap.Applications {
			status[ap.JobID] = ap.Status
		}

		cmd.Println(titleStyle.Render("Tracked Jobs"))
		for i, job := range snap.Jobs {
			cmd.Printf("\n%s %s\n", labelStyle.Render(fmt.Sprintf("%d.", i+1)), job.Title)
			cmd.Printf("   %s %s\n", labelStyle.Render("Company:"), job.Company)
			if job.Location != "" {
				cmd.Printf("   %s %s\n", labelStyle.Render("Location:"), job.Location)
			}
			cmd.Printf("   %s %s\n", labelStyle.Render("ID:"), job.ID)
			if s := status[job.ID]; s != "" {
				cmd.Printf("   %s %s\n", labelStyle.Render("Status:"), getStatusLabel(s))
			}
			if job.MatchScore > 0 {
				cmd.Printf("   %s %d\n", labelStyle.Render("Score:"), job.MatchScore)
			}
			if job.URL != "" {
				cmd.Printf("   %s %s\n", labelStyle.Render("URL:"), job.URL)
			}
			cmd.Printf("   %s %s\n", labelStyle.Render("Added:"), job.AddedAt.Format("Jan 2, 2006"))
		}
		return nil
	},
}

var showJobCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show details of a tracked job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		snap, err := a.Store.Read(cmd.Context())
		if err != nil {
			return err
		}
		job := snap.FindJob(args[0])
		if job == nil {
			return fmt.Errorf("job %s: %w", args[0], app.ErrNotFound)
		}

		cmd.Println(titleStyle.Render(job.Title))
		printField(cmd, "Company:", job.Company)
		printField(cmd, "Location:", job.Location)
		printField(cmd, "URL:", job.URL)
		printField(cmd, "Source:", job.Source)
		printField(cmd, "Posted:", job.PostedDate)
		cmd.Printf("%s %s\n", labelStyle.Render("Added:"), job.AddedAt.Format("Jan 2, 2006 15:04"))

		if job.Description != "" {
			cmd.Println(labelStyle.Render("\nDescription:"))
			cmd.Println(job.Description)
		}

		for _, ap := range snap.Applications {
			if ap.JobID != job.ID {
				continue
			}
			cmd.Printf("\n%s %s\n", labelStyle.Render("Application Status:"), getStatusLabel(ap.Status))
			cmd.Printf("%s %s\n", labelStyle.Render("Since:"), ap.AppliedAt.Format("Jan 2, 2006"))
			printField(cmd, "Notes:", ap.Notes)
			if ap.FollowUpDate != nil {
				cmd.Printf("%s %s\n", labelStyle.Render("Follow up:"), ap.FollowUpDate.Format("Jan 2, 2006"))
			}
		}
		return nil
	},
}

var removeJobCmd = &cobra.Command{
	Use:     "rm <job-id>",
	Aliases: []string{"remove"},
	Short:   "Remove a job and its application",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if err := applicator.RemoveJob(cmd.Context(), a.Store, args[0]); err != nil {
			return err
		}
		cmd.Printf("✓ Removed job: %s\n", args[0])
		return nil
	},
}

// fillJob copies the page fields the user did not pass as flags.
func fillJob(job *models.Job, p models.Posting) {
	if job.Title == "" {
		job.Title = p.Title
	}
	if job.Company == "" {
		job.Company = p.Company
	}
	if job.Description == "" {
		job.Description = p.Description
	}
	job.Source = p.Source
	job.Remote = job.Remote || p.Remote
}

func init() {
	rootCmd.AddCommand(jobCmd)
	jobCmd.AddCommand(addJobCmd)
	jobCmd.AddCommand(listJobsCmd)
	jobCmd.AddCommand(showJobCmd)
	jobCmd.AddCommand(removeJobCmd)

	// Flags for add command
	addJobCmd.Flags().String("url", "", "Job posting URL")
	addJobCmd.Flags().String("title", "", "Job title")
	addJobCmd.Flags().String("company", "", "Company name")
	addJobCmd.Flags().String("location", "", "Job location")
	addJobCmd.Flags().String("description", "", "Job description")
	addJobCmd.Flags().Bool("remote", false, "Remote position")
}
