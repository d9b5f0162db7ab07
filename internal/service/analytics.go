package service

import (
	"context"
	"fmt"
	"time"

	"halqa-daily/internal/model"
	"halqa-daily/internal/scoring"

	"gorm.io/gorm"
)

type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// aggregateMembers reduces each member's cards inside [from, to]
// (empty bounds are unbounded) into a scoring.Result. Results keep
// the members' enumeration order, which makes later stable sorts
// deterministic.
func aggregateMembers(ctx context.Context, db *gorm.DB, members []model.User, from, to string, info *halqaInfo) ([]scoring.Result, error) {
	ids := make([]int, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}

	byUser := map[int][]int{}
	if len(ids) > 0 {
		q := db.WithContext(ctx).Where("user_id IN ?", ids)
		if from != "" {
			q = q.Where("date >= ?", from)
		}
		if to != "" {
			q = q.Where("date <= ?", to)
		}
		var cards []model.DailyCard
		if err := q.Find(&cards).Error; err != nil {
			return nil, fmt.Errorf("query cards: %w", err)
		}
		for _, c := range cards {
			byUser[c.UserID] = append(byUser[c.UserID], c.Total())
		}
	}

	results := make([]scoring.Result, len(members))
	for i, m := range members {
		totals := byUser[m.ID]
		total, max := scoring.Reduce(totals)
		r := scoring.Result{
			UserID:     m.ID,
			FullName:   m.FullName,
			Gender:     m.Gender,
			TotalScore: total,
			MaxScore:   max,
			Percentage: scoring.Percentage(total, max),
			CardsCount: len(totals),
		}
		if info != nil {
			r.HalqaName = info.halqaName(m)
			r.SupervisorName = info.supervisorName(m)
		}
		results[i] = r
	}
	return results, nil
}

// Leaderboard ranks the given members by all-time total, score desc.
func (s *AnalyticsService) Leaderboard(ctx context.Context, members []model.User) ([]scoring.Result, error) {
	info, err := loadHalqaInfo(ctx, s.db)
	if err != nil {
		return nil, err
	}
	results, err := aggregateMembers(ctx, s.db, members, "", "", info)
	if err != nil {
		return nil, err
	}
	scoring.SortResults(results, scoring.SortByScore, scoring.OrderDesc)
	scoring.AssignRanks(results)
	return results, nil
}

type SubmittedCard struct {
	Member model.UserView `json:"member"`
	Card   model.CardView `json:"card"`
}

type DailySummary struct {
	Date              string           `json:"date"`
	Submitted         []SubmittedCard  `json:"submitted"`
	NotSubmitted      []model.UserView `json:"not_submitted"`
	SubmittedCount    int              `json:"submitted_count"`
	NotSubmittedCount int              `json:"not_submitted_count"`
	TotalMembers      int              `json:"total_members"`
}

// DailySummaryFor splits a member set into those who did and did not
// submit a card on the given date.
func (s *AnalyticsService) DailySummaryFor(ctx context.Context, members []model.User, date string) (*DailySummary, error) {
	info, err := loadHalqaInfo(ctx, s.db)
	if err != nil {
		return nil, err
	}

	ids := make([]int, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	cardsByUser := map[int]model.DailyCard{}
	if len(ids) > 0 {
		var cards []model.DailyCard
		err := s.db.WithContext(ctx).Where("user_id IN ? AND date = ?", ids, date).Find(&cards).Error
		if err != nil {
			return nil, fmt.Errorf("query cards: %w", err)
		}
		for _, c := range cards {
			cardsByUser[c.UserID] = c
		}
	}

	out := &DailySummary{
		Date:         date,
		Submitted:    []SubmittedCard{},
		NotSubmitted: []model.UserView{},
		TotalMembers: len(members),
	}
	for _, m := range members {
		if c, ok := cardsByUser[m.ID]; ok {
			out.Submitted = append(out.Submitted, SubmittedCard{
				Member: info.userView(m),
				Card:   model.NewCardView(c),
			})
		} else {
			out.NotSubmitted = append(out.NotSubmitted, info.userView(m))
		}
	}
	out.SubmittedCount = len(out.Submitted)
	out.NotSubmittedCount = len(out.NotSubmitted)
	return out, nil
}

type RangeEntry struct {
	Member         model.UserView `json:"member"`
	CardsSubmitted int            `json:"cards_submitted"`
	TotalDays      int            `json:"total_days,omitempty"`
	TotalScore     int            `json:"total_score"`
	Percentage     float64        `json:"percentage"`
}

// RangeSummaryFor aggregates each member over [from, to], sorted by
// total desc.
func (s *AnalyticsService) RangeSummaryFor(ctx context.Context, members []model.User, from, to string, totalDays int) ([]RangeEntry, error) {
	info, err := loadHalqaInfo(ctx, s.db)
	if err != nil {
		return nil, err
	}
	results, err := aggregateMembers(ctx, s.db, members, from, to, info)
	if err != nil {
		return nil, err
	}
	scoring.SortResults(results, scoring.SortByScore, scoring.OrderDesc)

	views := map[int]model.UserView{}
	for _, m := range members {
		views[m.ID] = info.userView(m)
	}

	entries := make([]RangeEntry, len(results))
	for i, r := range results {
		entries[i] = RangeEntry{
			Member:         views[r.UserID],
			CardsSubmitted: r.CardsCount,
			TotalDays:      totalDays,
			TotalScore:     r.TotalScore,
			Percentage:     r.Percentage,
		}
	}
	return entries, nil
}

// AnalyticsFilters is the admin dashboard filter set. Name filters
// narrow the scope before aggregation; the percentage band applies
// strictly after it.
type AnalyticsFilters struct {
	Gender     string
	HalqaID    *int
	Supervisor string
	Member     string
	MinPct     *float64
	MaxPct     *float64
	Period     scoring.Period
	SortBy     string
	SortOrder  string
}

type AnalyticsSummary struct {
	TotalActive   int64 `json:"total_active"`
	TotalPending  int64 `json:"total_pending"`
	TotalHalqas   int64 `json:"total_halqas"`
	FilteredCount int   `json:"filtered_count"`
}

type AnalyticsReport struct {
	Results []scoring.Result `json:"results"`
	Summary AnalyticsSummary `json:"summary"`
}

// Analytics is the admin-wide scoring view: every active member
// regardless of role, filtered, windowed, ranked. Summary counters
// are always system-wide, never scoped to the filters.
func (s *AnalyticsService) Analytics(ctx context.Context, f AnalyticsFilters) (*AnalyticsReport, error) {
	q := s.db.WithContext(ctx).Where("status = ?", model.StatusActive).Order("id")
	if f.Gender != "" {
		q = q.Where("gender = ?", f.Gender)
	}
	if f.HalqaID != nil {
		q = q.Where("halqa_id = ?", *f.HalqaID)
	}
	if f.Member != "" {
		q = q.Where("full_name LIKE ?", "%"+f.Member+"%")
	}
	if f.Supervisor != "" {
		var halqaIDs []int
		err := s.db.WithContext(ctx).Model(&model.Halqa{}).
			Joins("JOIN users ON users.id = halqas.supervisor_id").
			Where("users.full_name LIKE ?", "%"+f.Supervisor+"%").
			Pluck("halqas.id", &halqaIDs).Error
		if err != nil {
			return nil, fmt.Errorf("query supervisor halqas: %w", err)
		}
		if len(halqaIDs) > 0 {
			q = q.Where("halqa_id IN ?", halqaIDs)
		}
	}

	var users []model.User
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	from := ""
	if start, ok := scoring.PeriodStart(f.Period, time.Now()); ok {
		from = start.Format(scoring.DateLayout)
	}

	info, err := loadHalqaInfo(ctx, s.db)
	if err != nil {
		return nil, err
	}
	results, err := aggregateMembers(ctx, s.db, users, from, "", info)
	if err != nil {
		return nil, err
	}

	results = scoring.FilterByPercentage(results, f.MinPct, f.MaxPct)
	scoring.SortResults(results, f.SortBy, f.SortOrder)
	scoring.AssignRanks(results)

	report := &AnalyticsReport{Results: results}
	report.Summary.FilteredCount = len(results)
	if err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("status = ?", model.StatusActive).Count(&report.Summary.TotalActive).Error; err != nil {
		return nil, fmt.Errorf("count active: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("status = ?", model.StatusPending).Count(&report.Summary.TotalPending).Error; err != nil {
		return nil, fmt.Errorf("count pending: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&model.Halqa{}).Count(&report.Summary.TotalHalqas).Error; err != nil {
		return nil, fmt.Errorf("count halqas: %w", err)
	}
	return report, nil
}

// ExportRows builds the export dataset: active members under the
// given filters, aggregated over the period, sorted by total desc.
func (s *AnalyticsService) ExportRows(ctx context.Context, gender string, halqaID *int, period scoring.Period) ([]scoring.Result, error) {
	report, err := s.Analytics(ctx, AnalyticsFilters{
		Gender:    gender,
		HalqaID:   halqaID,
		Period:    period,
		SortBy:    scoring.SortByScore,
		SortOrder: scoring.OrderDesc,
	})
	if err != nil {
		return nil, err
	}
	return report.Results, nil
}
