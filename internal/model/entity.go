package model

import (
	"time"

	"halqa-daily/internal/scoring"
)

const (
	RoleParticipant = "participant"
	RoleSupervisor  = "supervisor"
	RoleAdmin       = "super_admin"
)

const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusRejected  = "rejected"
	StatusWithdrawn = "withdrawn"
)

type User struct {
	ID             int       `gorm:"primaryKey" json:"id"`
	FullName       string    `gorm:"size:200" json:"full_name"`
	Gender         string    `gorm:"size:10" json:"gender"`
	Age            int       `json:"age"`
	Phone          string    `gorm:"size:30" json:"phone"`
	Email          string    `gorm:"size:200;uniqueIndex" json:"email"`
	PasswordHash   string    `gorm:"size:200" json:"-"`
	Country        string    `gorm:"size:100" json:"country"`
	ReferralSource string    `gorm:"type:text" json:"referral_source"`
	Status         string    `gorm:"size:20;default:pending" json:"status"`
	Role           string    `gorm:"size:20;default:participant" json:"role"`
	RejectionNote  string    `gorm:"type:text" json:"rejection_note,omitempty"`
	HalqaID        *int      `json:"halqa_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Halqa struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:200;uniqueIndex" json:"name"`
	SupervisorID *int      `json:"supervisor_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// DailyCard is one member's scored record for one date. The unique
// index on (user_id, date) is the natural key; a second writer racing
// on the same pair hits the constraint, never a duplicate row.
type DailyCard struct {
	ID     int    `gorm:"primaryKey" json:"id"`
	UserID int    `gorm:"uniqueIndex:uk_user_date" json:"user_id"`
	Date   string `gorm:"type:date;uniqueIndex:uk_user_date" json:"date"`

	Quran            int `json:"quran"`
	Duas             int `json:"duas"`
	Taraweeh         int `json:"taraweeh"`
	Tahajjud         int `json:"tahajjud"`
	Duha             int `json:"duha"`
	Rawatib          int `json:"rawatib"`
	MainLesson       int `json:"main_lesson"`
	RequiredLesson   int `json:"required_lesson"`
	EnrichmentLesson int `json:"enrichment_lesson"`
	CharityWorship   int `json:"charity_worship"`
	ExtraWork        int `json:"extra_work"`

	ExtraWorkDescription string `gorm:"type:text" json:"extra_work_description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Total sums the 11 score fields. Always recomputed, never stored.
func (c *DailyCard) Total() int {
	return c.Quran + c.Duas + c.Taraweeh + c.Tahajjud + c.Duha +
		c.Rawatib + c.MainLesson + c.RequiredLesson +
		c.EnrichmentLesson + c.CharityWorship + c.ExtraWork
}

func (c *DailyCard) Pct() float64 {
	return scoring.Percentage(c.Total(), scoring.MaxCardScore)
}

// SiteSettings is a process-wide singleton row.
type SiteSettings struct {
	ID                       int  `gorm:"primaryKey" json:"id"`
	EnableEmailNotifications bool `gorm:"default:true" json:"enable_email_notifications"`
}

func (User) TableName() string         { return "users" }
func (Halqa) TableName() string        { return "halqas" }
func (DailyCard) TableName() string    { return "daily_cards" }
func (SiteSettings) TableName() string { return "site_settings" }
