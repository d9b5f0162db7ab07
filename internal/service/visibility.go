package service

import (
	"context"
	"errors"
	"fmt"

	"halqa-daily/internal/model"

	"gorm.io/gorm"
)

// ScopeService decides which halqa and members a caller may see.
type ScopeService struct {
	db *gorm.DB
}

func NewScopeService(db *gorm.DB) *ScopeService {
	return &ScopeService{db: db}
}

// ResolveHalqa picks the halqa a caller operates on.
//   - admin: any halqa via halqaID, or nil meaning all members.
//   - supervisor: always their own halqa; halqaID is ignored so a
//     supervisor cannot pivot into another halqa's data.
func (s *ScopeService) ResolveHalqa(ctx context.Context, caller *model.User, halqaID *int) (*model.Halqa, error) {
	if caller.Role == model.RoleAdmin {
		if halqaID == nil {
			return nil, nil
		}
		var h model.Halqa
		err := s.db.WithContext(ctx).First(&h, *halqaID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("halqa not found")
		}
		if err != nil {
			return nil, fmt.Errorf("query halqa: %w", err)
		}
		return &h, nil
	}

	var h model.Halqa
	err := s.db.WithContext(ctx).Where("supervisor_id = ?", caller.ID).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &Error{Kind: ErrNoHalqaAssigned, Msg: "no halqa assigned to you"}
	}
	if err != nil {
		return nil, fmt.Errorf("query halqa: %w", err)
	}
	return &h, nil
}

// Members lists the active members of a halqa. A nil halqa is the
// admin all-members scope, restricted to participants.
func (s *ScopeService) Members(ctx context.Context, halqa *model.Halqa) ([]model.User, error) {
	q := s.db.WithContext(ctx).Where("status = ?", model.StatusActive).Order("id")
	if halqa != nil {
		q = q.Where("halqa_id = ?", halqa.ID)
	} else {
		q = q.Where("role = ?", model.RoleParticipant)
	}

	var members []model.User
	if err := q.Find(&members).Error; err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	return members, nil
}

// MemberViews enriches members with their halqa context.
func (s *ScopeService) MemberViews(ctx context.Context, members []model.User) ([]model.UserView, error) {
	info, err := loadHalqaInfo(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return userViews(info, members), nil
}

// AllActive lists every active member regardless of role. This is the
// population the program-wide leaderboard and self-rank run over.
func (s *ScopeService) AllActive(ctx context.Context) ([]model.User, error) {
	var members []model.User
	err := s.db.WithContext(ctx).Where("status = ?", model.StatusActive).Order("id").Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("query active members: %w", err)
	}
	return members, nil
}

// VerifyMemberAccess checks the caller may read a specific member.
// Admins reach anyone; supervisors only members of their own halqa.
func (s *ScopeService) VerifyMemberAccess(ctx context.Context, caller *model.User, memberID int) (*model.User, error) {
	var member model.User
	err := s.db.WithContext(ctx).First(&member, memberID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("member not found")
	}
	if err != nil {
		return nil, fmt.Errorf("query member: %w", err)
	}

	if caller.Role == model.RoleAdmin {
		return &member, nil
	}

	var h model.Halqa
	err = s.db.WithContext(ctx).Where("supervisor_id = ?", caller.ID).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, forbidden("member is not in your halqa")
	}
	if err != nil {
		return nil, fmt.Errorf("query supervisor halqa: %w", err)
	}
	if member.HalqaID == nil || *member.HalqaID != h.ID {
		return nil, forbidden("member is not in your halqa")
	}
	return &member, nil
}
