package scheduler

import (
	"context"
	"time"

	"github.com/railzwaylabs/billingmock/internal/clock"
	"github.com/railzwaylabs/billingmock/internal/config"
	invoicedomain "github.com/railzwaylabs/billingmock/internal/invoice/domain"
	plandomain "github.com/railzwaylabs/billingmock/internal/plan/domain"
	subscriptiondomain "github.com/railzwaylabs/billingmock/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultInterval = time.Minute

// Scheduler periodically rolls subscriptions forward: expired trials become
// active, and active subscriptions whose period has elapsed get the next
// period opened and a renewal invoice generated.
type Scheduler struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	cfg   config.SchedulerConfig

	subRepo    subscriptiondomain.Repository
	invoiceSvc invoicedomain.Service
}

type Param struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Cfg   config.Config

	SubRepo    subscriptiondomain.Repository
	InvoiceSvc invoicedomain.Service
}

func New(p Param) *Scheduler {
	return &Scheduler{
		db:         p.DB,
		log:        p.Log.Named("scheduler"),
		clock:      p.Clock,
		cfg:        p.Cfg.Scheduler,
		subRepo:    p.SubRepo,
		invoiceSvc: p.InvoiceSvc,
	}
}

// RunForever ticks until ctx is canceled.
func (s *Scheduler) RunForever(ctx context.Context) {
	interval := s.cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("scheduler started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.log.Error("scheduler pass failed", zap.Error(err))
			}
		}
	}
}

// RunOnce performs a single rollover pass.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	now := s.clock.Now(ctx).Unix()

	if err := s.activateExpiredTrials(ctx, now); err != nil {
		return err
	}
	return s.renewElapsedPeriods(ctx, now)
}

func (s *Scheduler) activateExpiredTrials(ctx context.Context, now int64) error {
	subs, err := s.subRepo.ListTrialExpired(ctx, s.db, now)
	if err != nil {
		return err
	}
	for i := range subs {
		sub := &subs[i]
		sub.Status = subscriptiondomain.SubscriptionStatusActive
		// The first paid period opens where the trial closed.
		if sub.TrialEnd != nil {
			sub.CurrentPeriodStart = *sub.TrialEnd
		}
		var plan *plandomain.Plan
		if len(sub.Items) > 0 {
			plan = &sub.Items[0].Plan
		}
		sub.CurrentPeriodEnd = subscriptiondomain.PeriodEnd(sub.CurrentPeriodStart, plan, 1)
		if err := s.subRepo.Update(ctx, s.db, sub); err != nil {
			return err
		}
		if _, err := s.invoiceSvc.GenerateForSubscription(ctx, sub, invoicedomain.UpcomingOptions{}); err != nil {
			s.log.Error("trial activation invoice failed",
				zap.String("subscription_id", sub.ID), zap.Error(err))
			continue
		}
		s.log.Info("trial ended, subscription activated", zap.String("subscription_id", sub.ID))
	}
	return nil
}

func (s *Scheduler) renewElapsedPeriods(ctx context.Context, now int64) error {
	subs, err := s.subRepo.ListRenewable(ctx, s.db, now)
	if err != nil {
		return err
	}
	for i := range subs {
		sub := &subs[i]
		if len(sub.Items) == 0 {
			continue
		}
		sub.CurrentPeriodStart = sub.CurrentPeriodEnd
		sub.CurrentPeriodEnd = subscriptiondomain.PeriodEnd(sub.CurrentPeriodStart, &sub.Items[0].Plan, 1)
		if err := s.subRepo.Update(ctx, s.db, sub); err != nil {
			return err
		}
		if _, err := s.invoiceSvc.GenerateForSubscription(ctx, sub, invoicedomain.UpcomingOptions{}); err != nil {
			s.log.Error("renewal invoice failed",
				zap.String("subscription_id", sub.ID), zap.Error(err))
			continue
		}
		s.log.Info("billing period rolled over",
			zap.String("subscription_id", sub.ID),
			zap.Int64("current_period_end", sub.CurrentPeriodEnd))
	}
	return nil
}

var Module = fx.Module("scheduler",
	fx.Provide(New),
)
