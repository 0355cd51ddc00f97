package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/khrees2412/jobscout/internal/app"
	"github.com/khrees2412/jobscout/internal/applicator"
	"github.com/khrees2412/jobscout/internal/logger"
	"github.com/khrees2412/jobscout/internal/search"
	"github.com/khrees2412/jobscout/internal/signal"
	"github.com/khrees2412/jobscout/internal/watch"
	"github.com/khrees2412/jobscout/pkg/models"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a ranked job search",
	Long: `Searches the enabled job boards, ranks the postings against your resume and
profile, and prints the best matches with links to other job sites.`,
	Example: `  jobscout search "backend engineer" --location "Austin, TX"
  jobscout search "platform engineer" --remote-only --level senior --explain
  jobscout search "go developer" --promote 1,3 --save-query go-remote`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		query := strings.Join(args, " ")
		location, _ := cmd.Flags().GetString("location")
		filters := filtersFromFlags(cmd.Flags(), a.Config.Filters)
		if strings.TrimSpace(query) == "" && len(filters.Keywords) == 0 {
			return fmt.Errorf("%w: a query or --keywords is required", app.ErrInvalidArgument)
		}

		candidate, err := loadCandidate(cmd, a)
		if err != nil {
			return err
		}

		cmd.Printf("Searching for jobs: '%s'", query)
		if location != "" {
			cmd.Printf(" in %s", location)
		}
		cmd.Println()

		out, err := a.Search.Search(cmd.Context(), search.Request{
			Query:     query,
			Location:  location,
			Filters:   filters,
			Candidate: candidate,
		})
		if err != nil {
			return err
		}

		if output, _ := cmd.Flags().GetString("output"); output == "json" {
			if err := printJSON(cmd, out.Postings); err != nil {
				return err
			}
		} else {
			explain, _ := cmd.Flags().GetBool("explain")
			printRanked(cmd, a, out, filters, explain)
		}

		if saveAs, _ := cmd.Flags().GetString("save-query"); saveAs != "" {
			q := &models.SavedQuery{Name: saveAs, Query: query, Location: location, Filters: filters}
			if err := a.Store.SaveSearchQuery(cmd.Context(), q); err != nil {
				cmd.PrintErrf("Warning: Could not save search query: %v\n", err)
			} else {
				cmd.Printf("✓ Saved search query as: %s\n", saveAs)
			}
		}

		promote, _ := cmd.Flags().GetIntSlice("promote")
		return promotePostings(cmd, a, out.Postings, promote)
	},
}

var savedSearchCmd = &cobra.Command{
	Use:   "saved",
	Short: "List, rerun or delete saved searches",
	Example: `  jobscout search saved
  jobscout search saved --run go-remote
  jobscout search saved --delete go-remote`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if name, _ := cmd.Flags().GetString("delete"); name != "" {
			deleted, err := a.Store.DeleteSavedQuery(ctx, name)
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("saved query %q: %w", name, app.ErrNotFound)
			}
			cmd.Printf("✓ Deleted saved query: %s\n", name)
			return nil
		}

		if name, _ := cmd.Flags().GetString("run"); name != "" {
			q, err := a.Store.GetSavedQuery(ctx, name)
			if err != nil {
				return err
			}
			if q == nil {
				return fmt.Errorf("saved query %q: %w", name, app.ErrNotFound)
			}
			candidate, err := loadCandidate(cmd, a)
			if err != nil {
				return err
			}
			out, err := a.Search.Search(ctx, search.Request{
				Query:     q.Query,
				Location:  q.Location,
				Filters:   q.Filters,
				Candidate: candidate,
			})
			if err != nil {
				return err
			}
			printRanked(cmd, a, out, q.Filters, false)
			return nil
		}

		queries, err := a.Store.GetSavedQueries(ctx)
		if err != nil {
			return err
		}
		if len(queries) == 0 {
			cmd.Println("No saved searches. Save one with 'jobscout search <query> --save-query NAME'")
			return nil
		}
		cmd.Println(titleStyle.Render("Saved Searches"))
		for _, q := range queries {
			cmd.Printf("%s %s", labelStyle.Render(q.Name+":"), q.Query)
			if q.Location != "" {
				cmd.Printf(" in %s", q.Location)
			}
			cmd.Printf(" %s\n", mutedStyle.Render("(saved "+q.CreatedAt+")"))
		}
		return nil
	},
}

var watchSearchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rerun saved searches on a schedule and print new postings",
	Long: `Reruns every saved search on the watch.schedule cron spec (or --schedule) and
prints postings that earlier runs in this session have not shown. Stops on Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		spec, _ := cmd.Flags().GetString("schedule")
		if spec == "" {
			spec = a.Config.Watch.Schedule
		}

		scheduler := watch.New(watch.Options{
			Spec:     spec,
			Queries:  a.Store,
			Searcher: a.Search,
			Candidate: func(ctx context.Context) (signal.Input, error) {
				snap, err := a.Store.Read(ctx)
				if err != nil {
					return signal.Input{}, err
				}
				return search.CandidateFromSnapshot(snap), nil
			},
			Notify: func(q models.SavedQuery, fresh []models.RankedPosting) {
				cmd.Println(titleStyle.Render(fmt.Sprintf("%s: %d new posting(s)", q.Name, len(fresh))))
				for i, p := range fresh {
					printPosting(cmd, i+1, p)
				}
			},
			Logger: a.Logger.Named("watch"),
		})

		if once, _ := cmd.Flags().GetBool("once"); once {
			return scheduler.RunOnce(cmd.Context())
		}
		if err := scheduler.Start(cmd.Context()); err != nil {
			return err
		}
		cmd.Printf("Watching saved searches (%s). Press Ctrl+C to stop.\n", spec)
		<-cmd.Context().Done()
		scheduler.Stop()
		return nil
	},
}

// filtersFromFlags overlays the flags the user set on the configured filters.
func filtersFromFlags(flags *pflag.FlagSet, f models.SearchFilters) models.SearchFilters {
	if flags.Changed("locations") {
		f.Locations, _ = flags.GetStringSlice("locations")
	}
	if flags.Changed("keywords") {
		f.Keywords, _ = flags.GetStringSlice("keywords")
	}
	if flags.Changed("remote-only") {
		f.RemoteOnly, _ = flags.GetBool("remote-only")
	}
	if flags.Changed("relocation") {
		f.Relocation, _ = flags.GetString("relocation")
	}
	if flags.Changed("level") {
		f.Level, _ = flags.GetString("level")
	}
	if flags.Changed("min-relevance") {
		f.MinRelevance, _ = flags.GetInt("min-relevance")
	}
	if flags.Changed("us-only") {
		f.USOnly, _ = flags.GetBool("us-only")
	}
	if flags.Changed("days") {
		f.PostedWithinDays, _ = flags.GetInt("days")
	}
	return f
}

// loadCandidate reads the stored resume, profile and job titles.
func loadCandidate(cmd *cobra.Command, a *app.App) (signal.Input, error) {
	snap, err := a.Store.Read(cmd.Context())
	if err != nil {
		return signal.Input{}, err
	}
	if snap.DefaultResume() == nil {
		a.Logger.Debug("no resume stored, ranking on query and profile only")
	}
	return search.CandidateFromSnapshot(snap), nil
}

func printRanked(cmd *cobra.Command, a *app.App, out *search.Outcome, filters models.SearchFilters, explain bool) {
	if len(out.Postings) == 0 {
		cmd.Println("No jobs found matching your criteria.")
		return
	}

	cmd.Println(titleStyle.Render(fmt.Sprintf("Top %d of %d postings", len(out.Postings), out.Fetched)))
	for i, p := range out.Postings {
		printPosting(cmd, i+1, p)
		if explain {
			b := a.Search.Ranker().Explain(p.Posting, out.Terms, out.Signal, filters)
			cmd.Printf("   %s keywords %d, region %d, remote %d, recency %d, ats %d, persona %d, skills %d, profile %d, linkedin %d, intent %d\n",
				labelStyle.Render("Score:"), b.Keywords, b.Region, b.Remote, b.Recency, b.ATS,
				b.Persona, b.Skills, b.Profile, b.LinkedIn, b.Intent)
		}
	}

	if explain {
		cmd.Println(labelStyle.Render("\nPipeline:"))
		for _, s := range out.Trace.Steps {
			cmd.Printf("  %-14s %4d -> %4d\n", s.Name, s.Initial, s.Left)
		}
		cmd.Printf("  pool %s, backfilled %d\n", out.Trace.Pool, out.Trace.Backfilled)
	}
}

func printPosting(cmd *cobra.Command, rank int, p models.RankedPosting) {
	cmd.Printf("\n%d. %s %s\n", rank, p.Title, mutedStyle.Render(fmt.Sprintf("[%d]", p.Score)))
	cmd.Printf("   %s %s\n", labelStyle.Render("Company:"), p.Company)
	if p.Location != "" {
		cmd.Printf("   %s %s\n", labelStyle.Render("Location:"), p.Location)
	}
	if p.PostedDate != "" {
		cmd.Printf("   %s %s\n", labelStyle.Render("Posted:"), p.PostedDate)
	}
	cmd.Printf("   %s %s %s\n", labelStyle.Render("Source:"), p.Source, mutedStyle.Render(p.ID))
	if p.URL != "" {
		cmd.Printf("   %s %s\n", labelStyle.Render("URL:"), p.URL)
	}
	cmd.Printf("   %s %s\n", labelStyle.Render("LinkedIn:"), mutedStyle.Render(p.Links.LinkedIn))
	if p.Description != "" {
		cmd.Printf("   %s\n", mutedStyle.Render(logger.Truncate(p.Description, 160)))
	}
}

// promotePostings stores the postings at the given 1-based ranks.
func promotePostings(cmd *cobra.Command, a *app.App, postings []models.RankedPosting, ranks []int) error {
	for _, rank := range ranks {
		if rank < 1 || rank > len(postings) {
			return fmt.Errorf("%w: no posting ranked %d", app.ErrInvalidArgument, rank)
		}
		p := postings[rank-1]
		job, _, err := applicator.Promote(cmd.Context(), a.Store, p.ScoredPosting, applicator.PromoteOptions{})
		if err != nil {
			if errors.Is(err, app.ErrDuplicateURL) {
				cmd.Printf("  %s is already tracked\n", p.Title)
				continue
			}
			return err
		}
		a.Logger.Debug("posting promoted", zap.String("job", job.ID), zap.String("posting", p.ID))
		cmd.Printf("✓ Tracking %s at %s (job %s)\n", job.Title, job.Company, job.ID)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.AddCommand(savedSearchCmd)
	searchCmd.AddCommand(watchSearchCmd)

	f := searchCmd.Flags()
	f.String("location", "", "Job location")
	f.StringSlice("locations", nil, "Preferred locations")
	f.StringSlice("keywords", nil, "Extra keywords")
	f.Bool("remote-only", false, "Only remote postings")
	f.String("relocation", "", "Open to relocation: any, yes or no")
	f.String("level", "", "Seniority level, e.g. junior, senior, staff")
	f.Int("min-relevance", 1, "Minimum keyword relevance")
	f.Bool("us-only", true, "Only US or US-remote postings")
	f.Int("days", 0, "Only postings from the last N days (0 for any)")
	f.Bool("explain", false, "Show the score breakdown and filter pipeline")
	f.IntSlice("promote", nil, "Track the postings at these ranks")
	f.String("save-query", "", "Save this search query with a name")
	f.StringP("output", "o", "text", "Output format: text or json")

	savedSearchCmd.Flags().String("run", "", "Run the saved search with this name")
	savedSearchCmd.Flags().String("delete", "", "Delete the saved search with this name")

	watchSearchCmd.Flags().String("schedule", "", "Cron spec, overrides watch.schedule")
	watchSearchCmd.Flags().Bool("once", false, "Run every saved search once and exit")
}
