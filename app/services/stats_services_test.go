package services

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"chungtay/app/models"
)

type fakeStatsSupports struct {
	totals    models.DonationTotal
	monthly   []models.MonthlyDonation
	top       []models.SupporterTotal
	lastSince time.Time
}

func (f *fakeStatsSupports) Totals(ctx context.Context) (models.DonationTotal, error) {
	return f.totals, nil
}

func (f *fakeStatsSupports) MonthlyTotals(ctx context.Context, since time.Time) ([]models.MonthlyDonation, error) {
	f.lastSince = since
	return f.monthly, nil
}

func (f *fakeStatsSupports) TopSupporters(ctx context.Context, since time.Time, limit int) ([]models.SupporterTotal, error) {
	f.lastSince = since
	if len(f.top) > limit {
		return f.top[:limit], nil
	}
	return f.top, nil
}

func newStatsFixture() (*StatsService, *fakeStatsSupports, *fakeCaseStore, *fakeUserStore) {
	supports := &fakeStatsSupports{}
	cases := &fakeCaseStore{}
	users := newFakeUserStore()
	return NewStatsService(supports, cases, users), supports, cases, users
}

// fakeCaseStore satisfies StatsCaseStore through its stored cases.
func (f *fakeCaseStore) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	counts := map[models.CaseStatus]int64{}
	for _, c := range f.cases {
		counts[c.Status]++
	}
	out := []models.StatusCount{}
	for status, n := range counts {
		out = append(out, models.StatusCount{Status: status, Count: n})
	}
	return out, nil
}

func TestDashboardHasEveryStatusKey(t *testing.T) {
	svc, _, cases, _ := newStatsFixture()
	// Only active cases exist; the other buckets must still appear as zero.
	cases.add(&models.Case{Status: models.CaseActive})
	cases.add(&models.Case{Status: models.CaseActive})

	d, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if len(d.CasesByStatus) != len(models.CaseStatuses) {
		t.Fatalf("buckets = %d, want %d", len(d.CasesByStatus), len(models.CaseStatuses))
	}
	for _, st := range models.CaseStatuses {
		if _, ok := d.CasesByStatus[st]; !ok {
			t.Errorf("missing bucket %q", st)
		}
	}
	if d.CasesByStatus[models.CaseActive] != 2 {
		t.Errorf("active = %d", d.CasesByStatus[models.CaseActive])
	}
	if d.CasesByStatus[models.CasePending] != 0 {
		t.Errorf("pending = %d, want 0", d.CasesByStatus[models.CasePending])
	}
}

func TestDashboardTotalsPropagate(t *testing.T) {
	svc, supports, _, users := newStatsFixture()
	users.add("one")
	users.add("two")
	supports.totals = models.DonationTotal{Amount: 1234500, Count: 42}
	supports.monthly = []models.MonthlyDonation{
		{Year: 2026, Month: 7, Total: 500000, Count: 20},
		{Year: 2026, Month: 8, Total: 734500, Count: 22},
	}

	d, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.TotalDonated != 1234500 {
		t.Errorf("total donated = %v", d.TotalDonated)
	}
	if d.TotalSupports != 42 {
		t.Errorf("total supports = %d", d.TotalSupports)
	}
	if d.TotalUsers != 2 {
		t.Errorf("total users = %d", d.TotalUsers)
	}
	if len(d.Monthly) != 2 || d.Monthly[0].Month != 7 {
		t.Errorf("monthly = %+v", d.Monthly)
	}
}

func TestDashboardMonthlyWindow(t *testing.T) {
	svc, supports, _, _ := newStatsFixture()
	svc.now = func() time.Time {
		return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	}

	if _, err := svc.Dashboard(context.Background()); err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	want := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	if !supports.lastSince.Equal(want) {
		t.Errorf("since = %v, want %v", supports.lastSince, want)
	}
}

func TestTopSupportersEnrichment(t *testing.T) {
	svc, supports, _, users := newStatsFixture()
	known := users.add("Lê Văn H")
	known.Avatar = "http://cdn/avatar.png"
	users.users[known.ID] = known
	gone := primitive.NewObjectID()

	supports.top = []models.SupporterTotal{
		{UserID: known.ID, Total: 900000, Count: 9},
		{UserID: gone, Total: 100000, Count: 1},
	}

	ranked, err := svc.TopSupporters(context.Background(), WindowAll)
	if err != nil {
		t.Fatalf("top supporters: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("ranked = %d", len(ranked))
	}

	if ranked[0].Name != "Lê Văn H" || ranked[0].Avatar == "" {
		t.Errorf("first entry = %+v", ranked[0])
	}
	if ranked[0].Total != 900000 || ranked[0].Count != 9 {
		t.Errorf("first aggregate = %+v", ranked[0])
	}
	if ranked[1].Name != rankingPlaceholder {
		t.Errorf("missing user name = %q, want placeholder", ranked[1].Name)
	}
}

func TestTopSupportersWindows(t *testing.T) {
	svc, supports, _, _ := newStatsFixture()
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	if _, err := svc.TopSupporters(context.Background(), WindowWeek); err != nil {
		t.Fatalf("week: %v", err)
	}
	if want := now.AddDate(0, 0, -7); !supports.lastSince.Equal(want) {
		t.Errorf("week since = %v, want %v", supports.lastSince, want)
	}

	if _, err := svc.TopSupporters(context.Background(), WindowMonth); err != nil {
		t.Fatalf("month: %v", err)
	}
	if want := now.AddDate(0, 0, -30); !supports.lastSince.Equal(want) {
		t.Errorf("month since = %v, want %v", supports.lastSince, want)
	}

	// All-time and unknown windows pass a zero since.
	for _, window := range []string{WindowAll, "bogus"} {
		if _, err := svc.TopSupporters(context.Background(), window); err != nil {
			t.Fatalf("%s: %v", window, err)
		}
		if !supports.lastSince.IsZero() {
			t.Errorf("%s since = %v, want zero", window, supports.lastSince)
		}
	}
}
