package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"github.com/charry07/lavaca-app/internal/domain/entities"
	"github.com/charry07/lavaca-app/internal/domain/repositories"
	"github.com/charry07/lavaca-app/internal/usecases"
	"github.com/charry07/lavaca-app/pkg/logger"
)

const (
	// gracePeriod is how long a split amount may stay unpaid before
	// reminders start.
	gracePeriod = 24 * time.Hour

	// reminderCooldown keeps a debtor from being nagged more than once
	// a day.
	reminderCooldown = 24 * time.Hour
)

// DebtReminderJob periodically scans open sessions whose split has
// gone unpaid and emits escalating reminder feed events.
type DebtReminderJob struct {
	sessionRepo repositories.SessionRepository
	feed        *usecases.FeedUsecase
	interval    time.Duration
	stop        chan struct{}

	now func() time.Time
}

func NewDebtReminderJob(sessionRepo repositories.SessionRepository, feed *usecases.FeedUsecase) *DebtReminderJob {
	return &DebtReminderJob{
		sessionRepo: sessionRepo,
		feed:        feed,
		interval:    time.Hour,
		stop:        make(chan struct{}),
		now:         time.Now,
	}
}

func (j *DebtReminderJob) Start(ctx context.Context) {
	logger.WithContext(ctx).Info("starting debt reminder job")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.WithContext(ctx).Info("debt reminder job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.WithContext(ctx).Info("debt reminder job stopped")
			return
		case <-ticker.C:
			j.processOverdueSessions(ctx)
		}
	}
}

func (j *DebtReminderJob) Stop() {
	close(j.stop)
}

func (j *DebtReminderJob) processOverdueSessions(ctx context.Context) {
	now := j.now()

	sessions, err := j.sessionRepo.ListOpenSplitBefore(ctx, now.Add(-gracePeriod))
	if err != nil {
		logger.WithContext(ctx).Error("failed to fetch overdue sessions", zap.Error(err))
		return
	}

	reminded := 0
	for _, session := range sessions {
		reminded += j.remindSession(ctx, session, now)
	}
	if reminded > 0 {
		logger.WithContext(ctx).Info("debt reminders sent", zap.Int("count", reminded))
	}
}

func (j *DebtReminderJob) remindSession(ctx context.Context, session *entities.PaymentSession, now time.Time) int {
	creditor := session.FindParticipant(session.AdminID)
	creditorName := "el admin"
	if creditor != nil {
		creditorName = creditor.DisplayName
	}

	daysOverdue := int(now.Sub(session.SplitAppliedAt.Time).Hours() / 24)

	reminded := 0
	for i := range session.Participants {
		p := &session.Participants[i]
		if p.UserID == session.AdminID || p.Amount == 0 {
			continue
		}
		if p.Status != entities.PaymentStatusPending {
			continue
		}
		if p.RemindedAt.Valid && now.Sub(p.RemindedAt.Time) < reminderCooldown {
			continue
		}

		event := &entities.FeedEvent{
			Type:      entities.FeedEventDebtReminder,
			Message:   usecases.DebtReminderMessage(p.DisplayName, creditorName, p.Amount, daysOverdue),
			SessionID: &session.ID,
			UserIDs:   []uuid.UUID{p.UserID},
		}
		if err := j.feed.Emit(ctx, event); err != nil {
			logger.WithContext(ctx).Error("failed to emit debt reminder", zap.Error(err))
			continue
		}

		p.RemindedAt = null.TimeFrom(now)
		if err := j.sessionRepo.UpdateParticipant(ctx, p); err != nil {
			logger.WithContext(ctx).Error("failed to record reminder time", zap.Error(err))
			continue
		}
		reminded++
	}
	return reminded
}
