package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"halqa-daily/internal/logger"
	"halqa-daily/internal/mailer"
	"halqa-daily/internal/model"
	"halqa-daily/internal/token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db       *gorm.DB
	tokens   token.Store
	mail     *mailer.Mailer
	resetTTL time.Duration

	// primaryID is the provisioned primary admin's row id, 0 when the
	// configured email has no account yet.
	primaryID int
}

func NewAuthService(db *gorm.DB, tokens token.Store, mail *mailer.Mailer, resetTTL time.Duration, primaryID int) *AuthService {
	return &AuthService{db: db, tokens: tokens, mail: mail, resetTTL: resetTTL, primaryID: primaryID}
}

// EnsurePrimaryAdmin promotes the configured primary-admin account at
// startup and returns its id. A missing account is not an error; the
// id stays 0 until the email registers and is provisioned again.
func EnsurePrimaryAdmin(db *gorm.DB, email string) (int, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return 0, nil
	}
	var u model.User
	err := db.Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Warn("primary admin account not found", "email", email)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("lookup primary admin: %w", err)
	}
	if u.Role != model.RoleAdmin || u.Status != model.StatusActive {
		if err := db.Model(&u).Updates(map[string]interface{}{
			"role":   model.RoleAdmin,
			"status": model.StatusActive,
		}).Error; err != nil {
			return 0, fmt.Errorf("promote primary admin: %w", err)
		}
		logger.Info("primary admin provisioned", "uid", u.ID)
	}
	return u.ID, nil
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, conflict("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := model.User{
		FullName:       strings.TrimSpace(req.FullName),
		Gender:         req.Gender,
		Age:            req.Age,
		Phone:          strings.TrimSpace(req.Phone),
		Email:          email,
		PasswordHash:   string(hash),
		Country:        strings.TrimSpace(req.Country),
		ReferralSource: strings.TrimSpace(req.ReferralSource),
		Status:         model.StatusPending,
		Role:           model.RoleParticipant,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("email is already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.mail.NotifyRegistration(u)
	return &u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var u model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, unauthorized("invalid email or password")
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, unauthorized("invalid email or password")
	}

	switch u.Status {
	case model.StatusPending:
		return nil, forbidden("your registration is still under review")
	case model.StatusRejected:
		msg := "your registration was rejected"
		if u.RejectionNote != "" {
			msg += ": " + u.RejectionNote
		}
		return nil, forbidden(msg)
	case model.StatusWithdrawn:
		return nil, forbidden("your account is withdrawn, contact the administration")
	}

	// The provisioned primary admin can never lose its role.
	if u.ID == s.primaryID && (u.Role != model.RoleAdmin || u.Status != model.StatusActive) {
		u.Role = model.RoleAdmin
		u.Status = model.StatusActive
		if err := s.db.WithContext(ctx).Save(&u).Error; err != nil {
			return nil, fmt.Errorf("restore primary admin: %w", err)
		}
	}

	return &u, nil
}

func (s *AuthService) Me(ctx context.Context, userID int) (*model.UserView, error) {
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

func (s *AuthService) UpdateProfile(ctx context.Context, userID int, req model.ProfileUpdateRequest) (*model.UserView, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, userID).Error; err != nil {
		return nil, notFound("user not found")
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Country != nil {
		updates["country"] = strings.TrimSpace(*req.Country)
	}
	if req.Age != nil {
		updates["age"] = *req.Age
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&u).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
	}
	return s.Me(ctx, userID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int, req model.ChangePasswordRequest) error {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, userID).Error; err != nil {
		return notFound("user not found")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return invalid("current_password", "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.db.WithContext(ctx).Model(&u).Update("password_hash", string(hash)).Error
}

// ForgotPassword issues a reset code for a registered email. Unknown
// emails are not reported to the caller.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var u model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("query user: %w", err)
	}

	code, err := resetCode()
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}
	if err := s.tokens.Set(ctx, email, code, s.resetTTL); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}

	s.mail.SendResetCode(email, code)
	logger.Info("reset code issued", "uid", u.ID)
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	stored, err := s.tokens.Get(ctx, email)
	if err != nil || stored != req.Token {
		return invalid("token", "invalid or expired reset code")
	}

	var u model.User
	err = s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("user not found")
	}
	if err != nil {
		return fmt.Errorf("query user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&u).Update("password_hash", string(hash)).Error; err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return s.tokens.Del(ctx, email)
}

func resetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
