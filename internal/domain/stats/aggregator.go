package stats

import (
	"sort"
	"time"

	"job-tracker/internal/domain/application"

	"github.com/google/uuid"
)

// RecentLimit caps RecentApplications.
const RecentLimit = 5

type StatusCount struct {
	Status application.Status
	Count  int
}

type RecentApplication struct {
	ID              uuid.UUID
	Company         string
	JobTitle        string
	ApplicationDate time.Time
	Status          application.Status
}

type Stats struct {
	Total              int
	ByStatus           []StatusCount
	RecentApplications []RecentApplication
}

// Aggregate summarizes one owner's applications. ByStatus lists only
// statuses that occur, in order of first appearance in apps. Recent holds
// up to RecentLimit entries, latest application date first; equal dates
// keep their input order.
func Aggregate(apps []application.Application) Stats {
	out := Stats{
		Total:              len(apps),
		ByStatus:           make([]StatusCount, 0),
		RecentApplications: make([]RecentApplication, 0, min(RecentLimit, len(apps))),
	}

	index := make(map[application.Status]int)
	for _, a := range apps {
		i, ok := index[a.Status]
		if !ok {
			i = len(out.ByStatus)
			index[a.Status] = i
			out.ByStatus = append(out.ByStatus, StatusCount{Status: a.Status})
		}
		out.ByStatus[i].Count++
	}

	sorted := make([]application.Application, len(apps))
	copy(sorted, apps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ApplicationDate.After(sorted[j].ApplicationDate)
	})
	for _, a := range sorted[:min(RecentLimit, len(sorted))] {
		out.RecentApplications = append(out.RecentApplications, RecentApplication{
			ID:              a.ID,
			Company:         a.Company,
			JobTitle:        a.JobTitle,
			ApplicationDate: a.ApplicationDate,
			Status:          a.Status,
		})
	}
	return out
}

// Count returns the number of applications in status, zero when absent.
func (s Stats) Count(status application.Status) int {
	for _, c := range s.ByStatus {
		if c.Status == status {
			return c.Count
		}
	}
	return 0
}

// ZeroFill expands counts to every known status in pipeline order.
// Unknown statuses present in counts are appended after the known ones.
func ZeroFill(counts []StatusCount) []StatusCount {
	byStatus := make(map[application.Status]int, len(counts))
	for _, c := range counts {
		byStatus[c.Status] += c.Count
	}

	out := make([]StatusCount, 0, len(application.Statuses))
	for _, s := range application.Statuses {
		out = append(out, StatusCount{Status: s, Count: byStatus[s]})
		delete(byStatus, s)
	}
	for _, c := range counts {
		if n, ok := byStatus[c.Status]; ok {
			out = append(out, StatusCount{Status: c.Status, Count: n})
			delete(byStatus, c.Status)
		}
	}
	return out
}

// Summary holds the dashboard card figures.
type Summary struct {
	Total            int
	ActiveInterviews int
	OffersReceived   int
	Recent           int
}

func (s Stats) Summary() Summary {
	return Summary{
		Total:            s.Total,
		ActiveInterviews: s.Count(application.StatusInterviewing),
		OffersReceived:   s.Count(application.StatusOffered),
		Recent:           len(s.RecentApplications),
	}
}
