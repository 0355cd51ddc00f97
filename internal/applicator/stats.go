package applicator

import (
	"fmt"
	"sort"
	"time"

	"github.com/khrees2412/jobscout/pkg/models"
)

// RecentDays bounds the recent activity list.
const RecentDays = 30

type Stats struct {
	Total             int            `json:"total"`
	Applied           int            `json:"applied"`
	Interviews        int            `json:"interviews"`
	Offers            int            `json:"offers"`
	Accepted          int            `json:"accepted"`
	Rejected          int            `json:"rejected"`
	Pending           int            `json:"pending"`
	Submitted         int            `json:"submitted"` // everything past pending
	ResponseRate      float64        `json:"response_rate"`
	InterviewRate     float64        `json:"interview_rate"`
	OfferRate         float64        `json:"offer_rate"`
	AvgTimeToResponse float64        `json:"avg_days_to_response"`
	StatusBreakdown   map[string]int `json:"status_breakdown"`
	RecentActivity    []Activity     `json:"recent_activity"`
	Jobs              int            `json:"jobs"`
	Resumes           int            `json:"resumes"`
	Contacts          int            `json:"contacts"`
}

type Activity struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

// CalculateStats summarizes the applications in snap. Rates are percentages
// of submitted applications, where anything past pending counts as
// submitted.
func CalculateStats(snap *models.Snapshot) Stats {
	stats := Stats{
		StatusBreakdown: make(map[string]int),
		RecentActivity:  []Activity{},
		Jobs:            len(snap.Jobs),
		Resumes:         len(snap.Resumes),
		Contacts:        len(snap.Contacts),
	}

	stats.Total = len(snap.Applications)
	var responseTimes []float64
	t := now()

	for _, a := range snap.Applications {
		stats.StatusBreakdown[a.Status]++

		switch a.Status {
		case StatusApplied:
			stats.Applied++
		case StatusInterview:
			stats.Interviews++
		case StatusOffer:
			stats.Offers++
		case StatusAccepted:
			stats.Accepted++
		case StatusRejected:
			stats.Rejected++
			if !a.AppliedAt.IsZero() {
				responseTimes = append(responseTimes, t.Sub(a.AppliedAt).Hours()/24)
			}
		case StatusPending:
			stats.Pending++
		}

		if !a.AppliedAt.IsZero() && t.Sub(a.AppliedAt) < RecentDays*24*time.Hour {
			title := a.JobID
			if j := snap.FindJob(a.JobID); j != nil {
				title = j.Title + " at " + j.Company
			}
			stats.RecentActivity = append(stats.RecentActivity, Activity{
				Date:        a.AppliedAt,
				Description: fmt.Sprintf("%s (%s)", title, a.Status),
			})
		}
	}
	sort.SliceStable(stats.RecentActivity, func(i, j int) bool {
		return stats.RecentActivity[i].Date.After(stats.RecentActivity[j].Date)
	})

	stats.Submitted = stats.Total - stats.Pending
	if stats.Submitted > 0 {
		responded := stats.Interviews + stats.Offers + stats.Accepted + stats.Rejected
		stats.ResponseRate = pct(responded, stats.Submitted)
		stats.InterviewRate = pct(stats.Interviews+stats.Offers+stats.Accepted, stats.Submitted)
		stats.OfferRate = pct(stats.Offers+stats.Accepted, stats.Submitted)
	}

	if len(responseTimes) > 0 {
		sum := 0.0
		for _, d := range responseTimes {
			sum += d
		}
		stats.AvgTimeToResponse = sum / float64(len(responseTimes))
	}

	return stats
}

func pct(n, d int) float64 {
	return float64(n) / float64(d) * 100
}
