package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"halqa-daily/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminService struct {
	db        *gorm.DB
	primaryID int
}

func NewAdminService(db *gorm.DB, primaryID int) *AdminService {
	return &AdminService{db: db, primaryID: primaryID}
}

// Registrations lists users by status; "all" lists everyone.
func (s *AdminService) Registrations(ctx context.Context, status string) ([]model.UserView, error) {
	q := s.db.WithContext(ctx).Order("created_at desc")
	if status != "all" {
		q = q.Where("status = ?", status)
	}
	var users []model.User
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("query registrations: %w", err)
	}
	info, err := loadHalqaInfo(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return userViews(info, users), nil
}

func (s *AdminService) Approve(ctx context.Context, userID int) (*model.UserView, error) {
	return s.setStatus(ctx, userID, model.StatusActive, strPtr(""))
}

func (s *AdminService) Reject(ctx context.Context, userID int, note string) (*model.UserView, error) {
	return s.setStatus(ctx, userID, model.StatusRejected, &note)
}

func (s *AdminService) Withdraw(ctx context.Context, userID int) (*model.UserView, error) {
	return s.setStatus(ctx, userID, model.StatusWithdrawn, nil)
}

func (s *AdminService) Activate(ctx context.Context, userID int) (*model.UserView, error) {
	return s.setStatus(ctx, userID, model.StatusActive, nil)
}

func (s *AdminService) setStatus(ctx context.Context, userID int, status string, note *string) (*model.UserView, error) {
	var u model.User
	err := s.db.WithContext(ctx).First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	updates := map[string]interface{}{"status": status}
	if note != nil {
		updates["rejection_note"] = *note
	}
	if err := s.db.WithContext(ctx).Model(&u).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	return s.GetUser(ctx, userID)
}

type UserFilters struct {
	Status  string
	Gender  string
	HalqaID *int
	Search  string
}

func (s *AdminService) Users(ctx context.Context, f UserFilters) ([]model.UserView, error) {
	q := s.db.WithContext(ctx).Order("created_at desc")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Gender != "" {
		q = q.Where("gender = ?", f.Gender)
	}
	if f.HalqaID != nil {
		q = q.Where("halqa_id = ?", *f.HalqaID)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("full_name LIKE ? OR email LIKE ?", like, like)
	}

	var users []model.User
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	info, err := loadHalqaInfo(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return userViews(info, users), nil
}

func (s *AdminService) GetUser(ctx context.Context, userID int) (*model.UserView, error) {
	var u model.User
	err := s.db.WithContext(ctx).First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	info, err := loadHalqaInfo(ctx, s.db)
	if err != nil {
		return nil, err
	}
	v := info.userView(u)
	return &v, nil
}

func (s *AdminService) UpdateUser(ctx context.Context, userID int, req model.AdminUserUpdate) (*model.UserView, error) {
	var u model.User
	err := s.db.WithContext(ctx).First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.Age != nil {
		updates["age"] = *req.Age
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Country != nil {
		updates["country"] = strings.TrimSpace(*req.Country)
	}
	if req.ReferralSource != nil {
		updates["referral_source"] = strings.TrimSpace(*req.ReferralSource)
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.HalqaID != nil {
		updates["halqa_id"] = *req.HalqaID
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&u).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}
	return s.GetUser(ctx, userID)
}

func (s *AdminService) ResetPassword(ctx context.Context, userID int, newPassword string) error {
	var u model.User
	err := s.db.WithContext(ctx).First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("user not found")
	}
	if err != nil {
		return fmt.Errorf("query user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.db.WithContext(ctx).Model(&u).Update("password_hash", string(hash)).Error
}

// SetRole changes a user's role. Mutations that touch the super_admin
// role in either direction are reserved to the provisioned primary
// admin.
func (s *AdminService) SetRole(ctx context.Context, caller *model.User, userID int, role string) (*model.UserView, error) {
	var target model.User
	err := s.db.WithContext(ctx).First(&target, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	if role == model.RoleAdmin || target.Role == model.RoleAdmin {
		if s.primaryID == 0 || caller.ID != s.primaryID {
			return nil, forbidden("only the primary admin can manage super admin roles")
		}
	}

	if err := s.db.WithContext(ctx).Model(&target).Update("role", role).Error; err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	return s.GetUser(ctx, userID)
}

func (s *AdminService) Halqas(ctx context.Context) ([]model.HalqaView, error) {
	var halqas []model.Halqa
	if err := s.db.WithContext(ctx).Order("id").Find(&halqas).Error; err != nil {
		return nil, fmt.Errorf("query halqas: %w", err)
	}
	return s.halqaViews(ctx, halqas)
}

func (s *AdminService) halqaViews(ctx context.Context, halqas []model.Halqa) ([]model.HalqaView, error) {
	info, err := loadHalqaInfo(ctx, s.db)
	if err != nil {
		return nil, err
	}

	type halqaCount struct {
		HalqaID int
		N       int
	}
	var counts []halqaCount
	err = s.db.WithContext(ctx).Model(&model.User{}).
		Select("halqa_id as halqa_id, count(*) as n").
		Where("status = ? AND halqa_id IS NOT NULL", model.StatusActive).
		Group("halqa_id").Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}
	byHalqa := map[int]int{}
	for _, c := range counts {
		byHalqa[c.HalqaID] = c.N
	}

	views := make([]model.HalqaView, len(halqas))
	for i, h := range halqas {
		v := model.HalqaView{Halqa: h, MemberCount: byHalqa[h.ID]}
		if h.SupervisorID != nil {
			if sup, ok := info.supervisors[*h.SupervisorID]; ok {
				v.SupervisorName = sup.FullName
			}
		}
		views[i] = v
	}
	return views, nil
}

// HalqaView builds the response view for a single halqa; nil in, nil out.
func (s *AdminService) HalqaView(ctx context.Context, h *model.Halqa) (*model.HalqaView, error) {
	if h == nil {
		return nil, nil
	}
	views, err := s.halqaViews(ctx, []model.Halqa{*h})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *AdminService) CreateHalqa(ctx context.Context, req model.HalqaCreateRequest) (*model.HalqaView, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name", "halqa name is required")
	}

	h := model.Halqa{Name: name, SupervisorID: req.SupervisorID}
	if err := s.db.WithContext(ctx).Create(&h).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("halqa name already exists")
		}
		return nil, fmt.Errorf("create halqa: %w", err)
	}
	return s.HalqaView(ctx, &h)
}

func (s *AdminService) UpdateHalqa(ctx context.Context, halqaID int, req model.HalqaUpdateRequest) (*model.HalqaView, error) {
	var h model.Halqa
	err := s.db.WithContext(ctx).First(&h, halqaID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("halqa not found")
	}
	if err != nil {
		return nil, fmt.Errorf("query halqa: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.SupervisorID != nil {
		updates["supervisor_id"] = *req.SupervisorID
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&h).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, conflict("halqa name already exists")
			}
			return nil, fmt.Errorf("update halqa: %w", err)
		}
	}
	return s.HalqaView(ctx, &h)
}

func (s *AdminService) AssignMembers(ctx context.Context, halqaID int, userIDs []int) error {
	var h model.Halqa
	err := s.db.WithContext(ctx).First(&h, halqaID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("halqa not found")
	}
	if err != nil {
		return fmt.Errorf("query halqa: %w", err)
	}

	if len(userIDs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&model.User{}).
		Where("id IN ?", userIDs).Update("halqa_id", halqaID).Error
}

func (s *AdminService) AssignHalqa(ctx context.Context, userID int, halqaID *int) (*model.UserView, error) {
	var u model.User
	err := s.db.WithContext(ctx).First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&u).Update("halqa_id", halqaID).Error; err != nil {
		return nil, fmt.Errorf("assign halqa: %w", err)
	}
	return s.GetUser(ctx, userID)
}

// Settings returns the singleton row, creating it on first access.
func (s *AdminService) Settings(ctx context.Context) (*model.SiteSettings, error) {
	var settings model.SiteSettings
	err := s.db.WithContext(ctx).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = model.SiteSettings{EnableEmailNotifications: true}
		if err := s.db.WithContext(ctx).Create(&settings).Error; err != nil {
			return nil, fmt.Errorf("create settings: %w", err)
		}
		return &settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	return &settings, nil
}

func (s *AdminService) UpdateSettings(ctx context.Context, req model.SettingsUpdateRequest) (*model.SiteSettings, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	if req.EnableEmailNotifications != nil {
		err := s.db.WithContext(ctx).Model(settings).
			Update("enable_email_notifications", *req.EnableEmailNotifications).Error
		if err != nil {
			return nil, fmt.Errorf("update settings: %w", err)
		}
	}
	return settings, nil
}

func strPtr(s string) *string { return &s }
