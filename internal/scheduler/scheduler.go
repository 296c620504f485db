package scheduler

import (
	"context"
	"time"

	"github.com/finbuddy/advisor-service/internal/config"
	"github.com/finbuddy/advisor-service/internal/engine"
	"github.com/finbuddy/advisor-service/internal/integrations/rates"
	"github.com/finbuddy/advisor-service/internal/repository"
	"github.com/finbuddy/advisor-service/internal/utils/email"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// reminderLookAheadDays is how far ahead the bill reminder job looks.
const reminderLookAheadDays = 7

// Scheduler runs the periodic jobs around the engine: the weekly digest
// email and the daily bill reminder for every user.
type Scheduler struct {
	cron   *cron.Cron
	cfg    *config.Config
	repo   *repository.Repository
	eng    *engine.Engine
	rates  *rates.Client
	sender *email.Sender
	log    *logrus.Logger
}

// NewScheduler initializes the cron wiring
func NewScheduler(cfg *config.Config, repo *repository.Repository, eng *engine.Engine, ratesClient *rates.Client, sender *email.Sender, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		cfg:    cfg,
		repo:   repo,
		eng:    eng,
		rates:  ratesClient,
		sender: sender,
		log:    log,
	}
}

// Start registers and starts the jobs. The cron schedules come from
// DIGEST_CRON (Monday 08:00 by default) and REMINDER_CRON (daily 09:00
// by default).
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.DigestCron, s.runDigest); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.ReminderCron, s.runBillReminders); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infof("Scheduler started, digest at %q, bill reminders at %q", s.cfg.DigestCron, s.cfg.ReminderCron)
	return nil
}

// Stop halts the cron loop, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// runDigest sends the weekly summary to every user. One user's failure
// never blocks the rest.
func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	users, err := s.repo.AllUsers()
	if err != nil {
		s.log.Errorf("digest: failed to list users: %v", err)
		return
	}

	var keyRate *float64
	if rate, err := s.rates.GetKeyRate(); err == nil {
		keyRate = &rate
	} else {
		s.log.Warnf("digest: key rate unavailable: %v", err)
	}

	for _, user := range users {
		score, suggestions, err := s.eng.HealthDigest(ctx, user.ID)
		if err != nil {
			s.log.Errorf("digest: failed for user %d: %v", user.ID, err)
			continue
		}
		digest := email.Digest{Score: score, Suggestions: suggestions, KeyRate: keyRate}
		if err := s.sender.SendWeeklyDigest(user.Email, user.Username, digest); err != nil {
			s.log.Errorf("digest: send failed for user %d: %v", user.ID, err)
		}
	}
	s.log.Infof("digest: completed for %d users", len(users))
}

// runBillReminders mails every user whose bills fall due inside the
// look-ahead window. Users with nothing due get no email.
func (s *Scheduler) runBillReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	users, err := s.repo.AllUsers()
	if err != nil {
		s.log.Errorf("bill reminders: failed to list users: %v", err)
		return
	}

	sent := 0
	for _, user := range users {
		bills, err := s.eng.UpcomingBills(ctx, user.ID, reminderLookAheadDays)
		if err != nil {
			s.log.Errorf("bill reminders: failed for user %d: %v", user.ID, err)
			continue
		}
		if len(bills) == 0 {
			continue
		}
		if err := s.sender.SendBillReminder(user.Email, user.Username, bills); err != nil {
			s.log.Errorf("bill reminders: send failed for user %d: %v", user.ID, err)
			continue
		}
		sent++
	}
	s.log.Infof("bill reminders: sent %d", sent)
}
