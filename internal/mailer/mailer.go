// Package mailer sends fire-and-forget notification mail. Delivery
// failures are logged and dropped; no caller depends on them.
package mailer

import (
	"fmt"

	"halqa-daily/internal/config"
	"halqa-daily/internal/logger"
	"halqa-daily/internal/model"

	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

type Mailer struct {
	cfg        config.MailConfig
	adminEmail string
	db         *gorm.DB
}

func New(cfg config.MailConfig, adminEmail string, db *gorm.DB) *Mailer {
	return &Mailer{cfg: cfg, adminEmail: adminEmail, db: db}
}

// NotifyRegistration mails the primary admin about a new signup.
// Gated on the site-wide notification flag.
func (m *Mailer) NotifyRegistration(u model.User) {
	if !m.configured() || m.adminEmail == "" {
		return
	}
	var s model.SiteSettings
	if err := m.db.First(&s).Error; err == nil && !s.EnableEmailNotifications {
		return
	}

	body := fmt.Sprintf(
		"<h2>New registration request</h2>"+
			"<p><strong>Name:</strong> %s</p>"+
			"<p><strong>Email:</strong> %s</p>"+
			"<p><strong>Phone:</strong> %s</p>"+
			"<p><strong>Gender:</strong> %s</p>"+
			"<p><strong>Age:</strong> %d</p>"+
			"<p><strong>Country:</strong> %s</p>"+
			"<p>Please review the request in the dashboard.</p>",
		u.FullName, u.Email, u.Phone, u.Gender, u.Age, u.Country)

	go m.send(m.adminEmail, "New program registration request", body)
}

// SendResetCode mails a password reset code to the member.
func (m *Mailer) SendResetCode(email, code string) {
	if !m.configured() {
		return
	}
	body := fmt.Sprintf(
		"<h2>Password reset</h2>"+
			"<p>Use the following code to reset your password:</p>"+
			"<h3>%s</h3>"+
			"<p>If you did not request this, ignore this message.</p>", code)

	go m.send(email, "Password reset code", body)
}

func (m *Mailer) configured() bool {
	return m != nil && m.cfg.Host != "" && m.cfg.Username != ""
}

func (m *Mailer) send(to, subject, htmlBody string) {
	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		logger.Warn("mail send failed", "to", to, "subject", subject, "err", err)
	}
}
