package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"halqa-daily/internal/model"
	"halqa-daily/internal/scoring"

	"gorm.io/gorm"
)

type CardService struct {
	db        *gorm.DB
	allowEdit bool
}

func NewCardService(db *gorm.DB, allowEdit bool) *CardService {
	return &CardService{db: db, allowEdit: allowEdit}
}

// Save creates or updates the card for (userID, req.Date). With edits
// disabled a second write for the same pair is rejected as already
// submitted; the unique index backstops concurrent first writes.
func (s *CardService) Save(ctx context.Context, userID int, req model.CardRequest) (*model.DailyCard, error) {
	return s.save(ctx, userID, req, s.allowEdit)
}

// SaveForced always upserts, regardless of the edit setting.
// Supervisors correcting a member's card go through this path.
func (s *CardService) SaveForced(ctx context.Context, userID int, req model.CardRequest) (*model.DailyCard, error) {
	return s.save(ctx, userID, req, true)
}

func (s *CardService) save(ctx context.Context, userID int, req model.CardRequest, allowEdit bool) (*model.DailyCard, error) {
	if _, err := time.Parse(scoring.DateLayout, req.Date); err != nil {
		return nil, invalid("date", "malformed date, expected YYYY-MM-DD")
	}
	if req.Date > time.Now().Format(scoring.DateLayout) {
		return nil, invalid("date", "card date cannot be in the future")
	}

	var card model.DailyCard
	err := s.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, req.Date).First(&card).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		card = model.DailyCard{UserID: userID, Date: req.Date}
	case err != nil:
		return nil, fmt.Errorf("query card: %w", err)
	default:
		if !allowEdit {
			return nil, conflict("card already submitted for this date")
		}
	}

	applyScores(&card, req)

	if err := s.db.WithContext(ctx).Save(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("card already submitted for this date")
		}
		return nil, fmt.Errorf("save card: %w", err)
	}
	return &card, nil
}

func applyScores(card *model.DailyCard, req model.CardRequest) {
	card.Quran = req.Quran
	card.Duas = req.Duas
	card.Taraweeh = req.Taraweeh
	card.Tahajjud = req.Tahajjud
	card.Duha = req.Duha
	card.Rawatib = req.Rawatib
	card.MainLesson = req.MainLesson
	card.RequiredLesson = req.RequiredLesson
	card.EnrichmentLesson = req.EnrichmentLesson
	card.CharityWorship = req.CharityWorship
	card.ExtraWork = req.ExtraWork
	card.ExtraWorkDescription = req.ExtraWorkDescription
}

// Get returns the card for a date, or nil when none exists.
func (s *CardService) Get(ctx context.Context, userID int, date string) (*model.DailyCard, error) {
	if _, err := time.Parse(scoring.DateLayout, date); err != nil {
		return nil, invalid("date", "malformed date, expected YYYY-MM-DD")
	}
	var card model.DailyCard
	err := s.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query card: %w", err)
	}
	return &card, nil
}

func (s *CardService) List(ctx context.Context, userID int) ([]model.DailyCard, error) {
	var cards []model.DailyCard
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("date desc").Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	return cards, nil
}

// Stats builds the participant dashboard numbers: today / week /
// overall percentages and the caller's all-time rank among all active
// members.
func (s *CardService) Stats(ctx context.Context, userID int) (*model.StatsResponse, error) {
	today := time.Now().Format(scoring.DateLayout)
	weekStart := scoring.WeekStart(time.Now()).Format(scoring.DateLayout)

	var cards []model.DailyCard
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}

	stats := &model.StatsResponse{CardsCount: len(cards)}
	var weekTotals, allTotals []int
	for _, c := range cards {
		t := c.Total()
		allTotals = append(allTotals, t)
		if c.Date >= weekStart && c.Date <= today {
			weekTotals = append(weekTotals, t)
		}
		if c.Date == today {
			stats.TodayPercentage = c.Pct()
		}
	}
	stats.WeekPercentage = scoring.Percentage(scoring.Reduce(weekTotals))
	total, max := scoring.Reduce(allTotals)
	stats.OverallTotal = total
	stats.OverallPercentage = scoring.Percentage(total, max)

	// Rank over every active member, all-time, score desc.
	var active []model.User
	if err := s.db.WithContext(ctx).Where("status = ?", model.StatusActive).Order("id").Find(&active).Error; err != nil {
		return nil, fmt.Errorf("query active users: %w", err)
	}
	results, err := aggregateMembers(ctx, s.db, active, "", "", nil)
	if err != nil {
		return nil, err
	}
	scoring.SortResults(results, scoring.SortByScore, scoring.OrderDesc)
	stats.Rank = scoring.SelfRank(results, userID)
	stats.TotalParticipants = len(active)

	return stats, nil
}
