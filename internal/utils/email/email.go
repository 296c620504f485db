package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/finbuddy/advisor-service/internal/config"
	"github.com/finbuddy/advisor-service/internal/engine"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// Digest is the content of one weekly summary email
type Digest struct {
	Score       engine.HealthScore
	Suggestions []string
	KeyRate     *float64 // nil when the rate source was unavailable
}

// SendWeeklyDigest sends the weekly financial summary email
func (s *Sender) SendWeeklyDigest(to, username string, digest Digest) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Your weekly financial check-in: grade %s", digest.Score.Grade)

	body := fmt.Sprintf("Hi %s,\n\n", username)
	body += fmt.Sprintf(
		"Your financial health score this week is %.0f/100 (grade %s).\n"+
			"  Savings rate: %.0f/20\n"+
			"  Debt load: %.0f/20\n"+
			"  Budget adherence: %.0f/20\n"+
			"  Emergency fund: %.0f/20\n"+
			"  Goal progress: %.0f/20\n",
		digest.Score.Total, digest.Score.Grade,
		digest.Score.SavingsRate, digest.Score.DebtRatio, digest.Score.BudgetAdherence,
		digest.Score.EmergencyFund, digest.Score.GoalProgress,
	)

	if len(digest.Suggestions) > 0 {
		body += "\nSome questions worth asking this week:\n"
		for _, suggestion := range digest.Suggestions {
			body += "  - " + suggestion + "\n"
		}
	}

	if digest.KeyRate != nil {
		body += fmt.Sprintf("\nThe central bank key rate is currently %.2f%% — worth a look if you carry high-interest loans.\n", *digest.KeyRate)
	}

	body += "\nBest regards,\nYour Financial Advisor"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send digest to %s: %v", to, err)
		return fmt.Errorf("failed to send digest: %w", err)
	}

	s.logger.Infof("Digest sent to %s: %s", to, e.Subject)
	return nil
}

// SendBillReminder sends an upcoming bill reminder email
func (s *Sender) SendBillReminder(to, username string, bills []engine.UpcomingBill) error {
	if len(bills) == 0 {
		return nil
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Upcoming bills this week"

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThese bills are coming up:\n", username)
	for _, bill := range bills {
		fmt.Fprintf(&b, "  - %s: $%.2f due %s\n", bill.Name, bill.Amount, bill.DueDate.Format("Jan 2"))
	}
	b.WriteString("\nBest regards,\nYour Financial Advisor")
	e.Text = []byte(b.String())

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send bill reminder to %s: %v", to, err)
		return fmt.Errorf("failed to send bill reminder: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
