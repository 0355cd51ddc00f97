package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/khrees2412/jobscout/internal/app"
	"github.com/khrees2412/jobscout/internal/applicator"
	"github.com/khrees2412/jobscout/pkg/models"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "View application status",
	Long:  "View and manage your job application statuses",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		filterStatus, _ := cmd.Flags().GetString("filter")
		if filterStatus != "" && !applicator.ValidStatus(filterStatus) {
			return fmt.Errorf("%w: unknown status %q (want one of %s)",
				app.ErrInvalidArgument, filterStatus, strings.Join(applicator.Statuses, ", "))
		}

		snap, err := a.Store.Read(cmd.Context())
		if err != nil {
			return err
		}
		if len(snap.Applications) == 0 {
			cmd.Println("No applications yet. Track a posting with 'jobscout search <query> --promote 1'")
			return nil
		}

		// Group by status
		groups := make(map[string][]models.Application)
		total := 0
		for _, ap := range snap.Applications {
			if filterStatus == "" || ap.Status == filterStatus {
				groups[ap.Status] = append(groups[ap.Status], ap)
				total++
			}
		}
		if total == 0 {
			cmd.Printf("No applications with status '%s'\n", filterStatus)
			return nil
		}

		cmd.Println(titleStyle.Render("Your Applications"))
		for _, status := range applicator.Statuses {
			apps := groups[status]
			if len(apps) == 0 {
				continue
			}

			cmd.Printf("\n%s (%d)\n", labelStyle.Render(getStatusLabel(status)), len(apps))
			for _, ap := range apps {
				title, company := ap.JobID, ""
				if job := snap.FindJob(ap.JobID); job != nil {
					title, company = job.Title, job.Company
				}
				cmd.Printf("  • %s at %s\n", title, company)
				cmd.Printf("    %s %s | Since: %s\n",
					labelStyle.Render("ID:"),
					ap.ID,
					ap.AppliedAt.Format("Jan 2, 2006"))
				if ap.Notes != "" {
					cmd.Printf("    %s %s\n", labelStyle.Render("Notes:"), ap.Notes)
				}
				if ap.FollowUpDate != nil {
					cmd.Printf("    %s %s\n", labelStyle.Render("Follow up:"), ap.FollowUpDate.Format("Jan 2, 2006"))
				}
			}
		}

		cmd.Printf("\n%s %d\n", labelStyle.Render("Total Applications:"), total)
		return nil
	},
}

var updateStatusCmd = &cobra.Command{
	Use:   "update <application-or-job-id>",
	Short: "Update application status",
	Args:  cobra.ExactArgs(1),
	Example: `  jobscout status update 3f2c... --status interview
  jobscout status update 3f2c... --status rejected --notes "Not a good fit"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		newStatus, _ := cmd.Flags().GetString("status")
		notes, _ := cmd.Flags().GetString("notes")

		if newStatus == "" {
			return fmt.Errorf("%w: --status is required", app.ErrInvalidArgument)
		}

		updated, err := applicator.UpdateStatus(cmd.Context(), a.Store, args[0], newStatus, notes)
		if err != nil {
			return err
		}

		cmd.Printf("✓ Application status updated to: %s\n", getStatusLabel(updated.Status))
		if notes != "" {
			cmd.Printf("  Notes: %s\n", notes)
		}
		return nil
	},
}

var followUpStatusCmd = &cobra.Command{
	Use:     "followup <application-or-job-id>",
	Short:   "Set a follow-up date",
	Args:    cobra.ExactArgs(1),
	Example: `  jobscout status followup 3f2c... --date 2026-11-02`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		raw, _ := cmd.Flags().GetString("date")
		date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return fmt.Errorf("%w: --date must be YYYY-MM-DD", app.ErrInvalidArgument)
		}
		if err := applicator.SetFollowUp(cmd.Context(), a.Store, args[0], date); err != nil {
			return err
		}
		cmd.Printf("✓ Follow up on %s\n", date.Format("Mon Jan 2, 2006"))
		return nil
	},
}

func getStatusLabel(status string) string {
	labels := map[string]string{
		applicator.StatusPending:   "📝 Pending",
		applicator.StatusApplied:   "✅ Applied",
		applicator.StatusInterview: "💼 Interview",
		applicator.StatusOffer:     "🎉 Offer",
		applicator.StatusAccepted:  "🤝 Accepted",
		applicator.StatusRejected:  "❌ Rejected",
	}
	if label, ok := labels[status]; ok {
		return label
	}
	return status
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.AddCommand(updateStatusCmd)
	statusCmd.AddCommand(followUpStatusCmd)

	// Flags for status command
	statusCmd.Flags().String("filter", "", "Filter by status ("+strings.Join(applicator.Statuses, ", ")+")")

	// Flags for update command
	updateStatusCmd.Flags().String("status", "", "New status ("+strings.Join(applicator.Statuses, ", ")+")")
	updateStatusCmd.Flags().String("notes", "", "Notes about this status")

	followUpStatusCmd.Flags().String("date", "", "Follow-up date (YYYY-MM-DD)")
	_ = followUpStatusCmd.MarkFlagRequired("date")
}
