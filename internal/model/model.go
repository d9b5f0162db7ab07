package model

import "halqa-daily/internal/scoring"

type RegisterRequest struct {
	FullName        string `json:"full_name" binding:"required"`
	Gender          string `json:"gender" binding:"required,oneof=male female"`
	Age             int    `json:"age" binding:"required,gte=1,lte=120"`
	Phone           string `json:"phone" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
	Country         string `json:"country" binding:"required"`
	ReferralSource  string `json:"referral_source"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

type ProfileUpdateRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Country  *string `json:"country"`
	Age      *int    `json:"age" binding:"omitempty,gte=1,lte=120"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// CardRequest carries the 11 score fields, each bounded to [0, 10].
type CardRequest struct {
	Date                 string `json:"date" binding:"required"`
	Quran                int    `json:"quran" binding:"min=0,max=10"`
	Duas                 int    `json:"duas" binding:"min=0,max=10"`
	Taraweeh             int    `json:"taraweeh" binding:"min=0,max=10"`
	Tahajjud             int    `json:"tahajjud" binding:"min=0,max=10"`
	Duha                 int    `json:"duha" binding:"min=0,max=10"`
	Rawatib              int    `json:"rawatib" binding:"min=0,max=10"`
	MainLesson           int    `json:"main_lesson" binding:"min=0,max=10"`
	RequiredLesson       int    `json:"required_lesson" binding:"min=0,max=10"`
	EnrichmentLesson     int    `json:"enrichment_lesson" binding:"min=0,max=10"`
	CharityWorship       int    `json:"charity_worship" binding:"min=0,max=10"`
	ExtraWork            int    `json:"extra_work" binding:"min=0,max=10"`
	ExtraWorkDescription string `json:"extra_work_description"`
}

type AdminUserUpdate struct {
	FullName       *string `json:"full_name"`
	Gender         *string `json:"gender" binding:"omitempty,oneof=male female"`
	Age            *int    `json:"age" binding:"omitempty,gte=1,lte=120"`
	Phone          *string `json:"phone"`
	Country        *string `json:"country"`
	ReferralSource *string `json:"referral_source"`
	Status         *string `json:"status" binding:"omitempty,oneof=pending active rejected withdrawn"`
	HalqaID        *int    `json:"halqa_id"`
}

type AdminResetPassword struct {
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=participant supervisor super_admin"`
}

type RejectRequest struct {
	Note string `json:"note"`
}

type HalqaCreateRequest struct {
	Name         string `json:"name" binding:"required"`
	SupervisorID *int   `json:"supervisor_id"`
}

type HalqaUpdateRequest struct {
	Name         *string `json:"name"`
	SupervisorID *int    `json:"supervisor_id"`
}

type AssignMembersRequest struct {
	UserIDs []int `json:"user_ids" binding:"required"`
}

type AssignHalqaRequest struct {
	HalqaID *int `json:"halqa_id"`
}

type SettingsUpdateRequest struct {
	EnableEmailNotifications *bool `json:"enable_email_notifications"`
}

// UserView is a User enriched with halqa context for responses.
type UserView struct {
	User
	HalqaName           string `json:"halqa_name,omitempty"`
	SupervisorName      string `json:"supervisor_name,omitempty"`
	SupervisorPhone     string `json:"supervisor_phone,omitempty"`
	SupervisedHalqaName string `json:"supervised_halqa_name,omitempty"`
}

// CardView is a DailyCard with its derived scores attached.
type CardView struct {
	DailyCard
	TotalScore int     `json:"total_score"`
	MaxScore   int     `json:"max_score"`
	Percentage float64 `json:"percentage"`
}

func NewCardView(c DailyCard) CardView {
	return CardView{
		DailyCard:  c,
		TotalScore: c.Total(),
		MaxScore:   scoring.MaxCardScore,
		Percentage: c.Pct(),
	}
}

// HalqaView is a Halqa with supervisor name and active member count.
type HalqaView struct {
	Halqa
	SupervisorName string `json:"supervisor_name,omitempty"`
	MemberCount    int    `json:"member_count"`
}

type StatsResponse struct {
	TodayPercentage   float64 `json:"today_percentage"`
	WeekPercentage    float64 `json:"week_percentage"`
	OverallPercentage float64 `json:"overall_percentage"`
	OverallTotal      int     `json:"overall_total"`
	Rank              int     `json:"rank"`
	TotalParticipants int     `json:"total_participants"`
	CardsCount        int     `json:"cards_count"`
}
