package cmd

import (
	"fmt"
	"sort"

	"github.com/khrees2412/jobscout/internal/applicator"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "View application statistics and insights",
	Long:  "Display analytics about your job applications, response rates, and trends",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		snap, err := a.Store.Read(cmd.Context())
		if err != nil {
			return err
		}

		if len(snap.Applications) == 0 {
			cmd.Println("No applications yet. Track a posting with 'jobscout search <query> --promote 1'")
			return nil
		}

		stats := applicator.CalculateStats(snap)
		if output, _ := cmd.Flags().GetString("output"); output == "json" {
			return printJSON(cmd, stats)
		}

		cmd.Println(titleStyle.Render("Application Statistics"))

		// Overall stats
		cmd.Printf("\n%s\n", labelStyle.Render("Overview"))
		cmd.Printf("  Total Applications: %d\n", stats.Total)
		cmd.Printf("  Pending: %d\n", stats.Pending)
		cmd.Printf("  Applied: %d\n", stats.Applied)
		cmd.Printf("  Interviews: %d\n", stats.Interviews)
		cmd.Printf("  Offers: %d\n", stats.Offers)
		cmd.Printf("  Accepted: %d\n", stats.Accepted)
		cmd.Printf("  Rejected: %d\n", stats.Rejected)
		cmd.Printf("  %s\n", mutedStyle.Render(
			fmt.Sprintf("jobs %d, resumes %d, contacts %d", stats.Jobs, stats.Resumes, stats.Contacts)))

		// Response rates
		if stats.Submitted > 0 {
			cmd.Printf("\n%s\n", labelStyle.Render("Response Rate"))
			cmd.Printf("  Response Rate: %.1f%%\n", stats.ResponseRate)
			cmd.Printf("  Interview Rate: %.1f%%\n", stats.InterviewRate)
			cmd.Printf("  Offer Rate: %.1f%%\n", stats.OfferRate)
		}

		// Time to response
		if stats.AvgTimeToResponse > 0 {
			cmd.Printf("\n%s\n", labelStyle.Render("Response Time"))
			cmd.Printf("  Average Time to Response: %.1f days\n", stats.AvgTimeToResponse)
		}

		// Status breakdown
		statuses := make([]string, 0, len(stats.StatusBreakdown))
		for s := range stats.StatusBreakdown {
			statuses = append(statuses, s)
		}
		sort.Strings(statuses)
		cmd.Printf("\n%s\n", labelStyle.Render("Status Breakdown"))
		for _, s := range statuses {
			count := stats.StatusBreakdown[s]
			percentage := float64(count) / float64(stats.Total) * 100
			cmd.Printf("  %s: %d (%.1f%%)\n", getStatusLabel(s), count, percentage)
		}

		// Recent activity
		if len(stats.RecentActivity) > 0 {
			cmd.Printf("\n%s\n", labelStyle.Render("Recent Activity"))
			for _, activity := range stats.RecentActivity {
				cmd.Printf("  %s: %s\n", activity.Date.Format("Jan 2"), activity.Description)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringP("output", "o", "text", "Output format: text or json")
}
