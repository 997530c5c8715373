package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"chungtay/app/models"
	"chungtay/pkg/cache"
)

// Ranking windows accepted by TopSupporters.
const (
	WindowAll   = "all"
	WindowWeek  = "week"
	WindowMonth = "month"
)

// TopSupporterLimit caps the ranking list.
const TopSupporterLimit = 20

// dashboardTTL bounds how stale the cached dashboard may be.
const dashboardTTL = 60 * time.Second

// StatsSupportStore is the slice of the support repository the stats service
// needs.
type StatsSupportStore interface {
	Totals(ctx context.Context) (models.DonationTotal, error)
	MonthlyTotals(ctx context.Context, since time.Time) ([]models.MonthlyDonation, error)
	TopSupporters(ctx context.Context, since time.Time, limit int) ([]models.SupporterTotal, error)
}

// StatsCaseStore is the slice of the case repository the stats service needs.
type StatsCaseStore interface {
	CountByStatus(ctx context.Context) ([]models.StatusCount, error)
}

// StatsUserStore counts users and resolves supporter identities.
type StatsUserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}

type StatsService struct {
	supports StatsSupportStore
	cases    StatsCaseStore
	users    StatsUserStore

	now func() time.Time
}

func NewStatsService(supports StatsSupportStore, cases StatsCaseStore, users StatsUserStore) *StatsService {
	return &StatsService{supports: supports, cases: cases, users: users, now: time.Now}
}

// Dashboard is the admin overview: platform totals, case counts per status,
// and the trailing 12-month donation series.
type Dashboard struct {
	TotalDonated  float64                     `json:"total_donated"`
	TotalSupports int64                       `json:"total_supports"`
	TotalUsers    int64                       `json:"total_users"`
	CasesByStatus map[models.CaseStatus]int64 `json:"cases_by_status"`
	Monthly       []models.MonthlyDonation    `json:"monthly"`
}

// Dashboard composes the admin overview from several aggregation pipelines.
// The result is cached for 60 seconds; administrators tolerate slightly stale
// numbers in exchange for not re-running the pipelines on every page load.
func (s *StatsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var cached Dashboard
	if cache.Get(ctx, "stats:dashboard", &cached) {
		return &cached, nil
	}

	totals, err := s.supports.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("donation totals: %w", err)
	}

	byStatus, err := s.cases.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("case counts: %w", err)
	}

	userCount, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("user count: %w", err)
	}

	monthly, err := s.supports.MonthlyTotals(ctx, s.monthlySince())
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}
	if monthly == nil {
		monthly = []models.MonthlyDonation{}
	}

	// Every status key is present even when no case has it; absent buckets
	// read as zero rather than missing.
	buckets := make(map[models.CaseStatus]int64, len(models.CaseStatuses))
	for _, st := range models.CaseStatuses {
		buckets[st] = 0
	}
	for _, row := range byStatus {
		buckets[row.Status] = row.Count
	}

	d := &Dashboard{
		TotalDonated:  totals.Amount,
		TotalSupports: totals.Count,
		TotalUsers:    userCount,
		CasesByStatus: buckets,
		Monthly:       monthly,
	}

	cache.Set(ctx, "stats:dashboard", d, dashboardTTL)
	return d, nil
}

// monthlySince returns the start of the calendar month eleven months back,
// so the monthly series covers the current month and the eleven before it.
func (s *StatsService) monthlySince() time.Time {
	now := s.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.AddDate(0, -11, 0)
}

// TopSupporters ranks non-anonymous donors by summed completed amount within
// the window ("all", "week", or "month"), up to 20 entries, each enriched
// with the supporter's current name and avatar. Anonymous supports never
// contribute to the ranking. An unknown window falls back to all-time.
func (s *StatsService) TopSupporters(ctx context.Context, window string) ([]models.TopSupporter, error) {
	var since time.Time
	switch window {
	case WindowWeek:
		since = s.now().AddDate(0, 0, -7)
	case WindowMonth:
		since = s.now().AddDate(0, 0, -30)
	default:
		window = WindowAll
	}

	key := "stats:top:" + window
	var cached []models.TopSupporter
	if cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	rows, err := s.supports.TopSupporters(ctx, since, TopSupporterLimit)
	if err != nil {
		return nil, fmt.Errorf("top supporters: %w", err)
	}

	ranked := make([]models.TopSupporter, 0, len(rows))
	for _, row := range rows {
		entry := models.TopSupporter{
			UserID: row.UserID,
			Name:   rankingPlaceholder,
			Total:  row.Total,
			Count:  row.Count,
		}
		// A supporter whose account has since been removed keeps their
		// aggregate under the placeholder identity.
		if user, err := s.users.FindByID(ctx, row.UserID); err == nil {
			entry.Name = user.Name
			entry.Avatar = user.Avatar
		}
		ranked = append(ranked, entry)
	}

	cache.Set(ctx, key, ranked, dashboardTTL)
	return ranked, nil
}
