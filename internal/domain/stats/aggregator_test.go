package stats

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"job-tracker/internal/domain/application"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func app(t *testing.T, company string, status application.Status, date string) application.Application {
	t.Helper()
	d, err := application.ParseDate(date)
	require.NoError(t, err)
	return application.Application{
		ID:              uuid.New(),
		Company:         company,
		JobTitle:        "Engineer",
		Status:          status,
		ApplicationDate: d,
	}
}

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(nil)

	assert.Equal(t, 0, s.Total)
	assert.Empty(t, s.ByStatus)
	assert.NotNil(t, s.ByStatus)
	assert.Empty(t, s.RecentApplications)
	assert.NotNil(t, s.RecentApplications)
}

func TestAggregate_CountsInFirstAppearanceOrder(t *testing.T) {
	apps := []application.Application{
		app(t, "A", application.StatusApplied, "2024-01-01"),
		app(t, "B", application.StatusInterviewing, "2024-01-02"),
		app(t, "C", application.StatusApplied, "2024-01-03"),
		app(t, "D", application.StatusOffered, "2024-01-04"),
	}

	s := Aggregate(apps)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, []StatusCount{
		{Status: application.StatusApplied, Count: 2},
		{Status: application.StatusInterviewing, Count: 1},
		{Status: application.StatusOffered, Count: 1},
	}, s.ByStatus)

	sum := 0
	for _, c := range s.ByStatus {
		sum += c.Count
	}
	assert.Equal(t, s.Total, sum)
}

func TestAggregate_ByStatusPartitionsTotal(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for round := 0; round < 50; round++ {
		n := rng.IntN(40)
		apps := make([]application.Application, 0, n)
		want := map[application.Status]int{}
		for i := 0; i < n; i++ {
			st := application.Statuses[rng.IntN(len(application.Statuses))]
			want[st]++
			apps = append(apps, app(t, fmt.Sprintf("co-%d", i), st, fmt.Sprintf("2024-02-%02d", 1+rng.IntN(28))))
		}

		s := Aggregate(apps)

		require.Equal(t, n, s.Total, "round %d", round)
		seen := map[application.Status]bool{}
		sum := 0
		for _, c := range s.ByStatus {
			assert.False(t, seen[c.Status], "round %d: %s listed twice", round, c.Status)
			seen[c.Status] = true
			assert.Positive(t, c.Count, "round %d", round)
			assert.Equal(t, want[c.Status], c.Count, "round %d: %s", round, c.Status)
			sum += c.Count
		}
		assert.Equal(t, s.Total, sum, "round %d", round)
		assert.Len(t, s.ByStatus, len(want), "round %d", round)
		assert.LessOrEqual(t, len(s.RecentApplications), RecentLimit, "round %d", round)
		for i := 1; i < len(s.RecentApplications); i++ {
			assert.False(t, s.RecentApplications[i].ApplicationDate.After(s.RecentApplications[i-1].ApplicationDate), "round %d", round)
		}
	}
}

func TestAggregate_RecentSortedAndCapped(t *testing.T) {
	apps := []application.Application{
		app(t, "jan-01", application.StatusApplied, "2024-01-01"),
		app(t, "mar-01", application.StatusApplied, "2024-03-01"),
		app(t, "feb-01", application.StatusSaved, "2024-02-01"),
		app(t, "jun-01", application.StatusOffered, "2024-06-01"),
		app(t, "apr-01", application.StatusApplied, "2024-04-01"),
		app(t, "may-01", application.StatusRejected, "2024-05-01"),
		app(t, "dec-01", application.StatusApplied, "2023-12-01"),
	}

	s := Aggregate(apps)

	require.Len(t, s.RecentApplications, RecentLimit)
	got := make([]string, 0, len(s.RecentApplications))
	for _, r := range s.RecentApplications {
		got = append(got, r.Company)
	}
	assert.Equal(t, []string{"jun-01", "may-01", "apr-01", "mar-01", "feb-01"}, got)
}

func TestAggregate_FewerThanLimit(t *testing.T) {
	apps := []application.Application{
		app(t, "A", application.StatusApplied, "2024-01-01"),
		app(t, "B", application.StatusApplied, "2024-01-05"),
	}

	s := Aggregate(apps)

	require.Len(t, s.RecentApplications, 2)
	assert.Equal(t, "B", s.RecentApplications[0].Company)
}

func TestAggregate_EqualDatesKeepInputOrder(t *testing.T) {
	apps := []application.Application{
		app(t, "first", application.StatusApplied, "2024-01-01"),
		app(t, "second", application.StatusApplied, "2024-01-01"),
		app(t, "third", application.StatusApplied, "2024-01-01"),
	}

	s := Aggregate(apps)

	require.Len(t, s.RecentApplications, 3)
	assert.Equal(t, "first", s.RecentApplications[0].Company)
	assert.Equal(t, "second", s.RecentApplications[1].Company)
	assert.Equal(t, "third", s.RecentApplications[2].Company)
}

func TestAggregate_DoesNotReorderInput(t *testing.T) {
	apps := []application.Application{
		app(t, "old", application.StatusApplied, "2024-01-01"),
		app(t, "new", application.StatusApplied, "2024-02-01"),
	}

	_ = Aggregate(apps)

	assert.Equal(t, "old", apps[0].Company)
}

func TestZeroFill(t *testing.T) {
	counts := []StatusCount{
		{Status: application.StatusOffered, Count: 2},
		{Status: "archived", Count: 1},
		{Status: application.StatusSaved, Count: 3},
	}

	out := ZeroFill(counts)

	require.Len(t, out, len(application.Statuses)+1)
	for i, s := range application.Statuses {
		assert.Equal(t, s, out[i].Status)
	}
	assert.Equal(t, 3, out[0].Count)
	assert.Equal(t, 0, out[1].Count)
	assert.Equal(t, 2, out[3].Count)
	assert.Equal(t, StatusCount{Status: "archived", Count: 1}, out[len(out)-1])
}

func TestSummary(t *testing.T) {
	apps := []application.Application{
		app(t, "A", application.StatusInterviewing, "2024-01-01"),
		app(t, "B", application.StatusInterviewing, "2024-01-02"),
		app(t, "C", application.StatusOffered, "2024-01-03"),
		app(t, "D", application.StatusRejected, "2024-01-04"),
	}

	sum := Aggregate(apps).Summary()

	assert.Equal(t, Summary{Total: 4, ActiveInterviews: 2, OffersReceived: 1, Recent: 4}, sum)
}
