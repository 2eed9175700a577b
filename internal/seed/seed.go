package seed

import (
	"context"
	"time"

	"github.com/railzwaylabs/billingmock/internal/clock"
	plandomain "github.com/railzwaylabs/billingmock/internal/plan/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// defaultPlans is the catalog installed on first boot so a fresh server is
// immediately usable without a plan-creation round trip.
var defaultPlans = []plandomain.Plan{
	{
		ID:            "basic-monthly",
		Nickname:      "Basic (monthly)",
		Amount:        999,
		Currency:      "usd",
		Interval:      plandomain.IntervalMonth,
		IntervalCount: 1,
	},
	{
		ID:            "pro-monthly",
		Nickname:      "Pro (monthly)",
		Amount:        4999,
		Currency:      "usd",
		Interval:      plandomain.IntervalMonth,
		IntervalCount: 1,
	},
	{
		ID:              "pro-yearly",
		Nickname:        "Pro (yearly)",
		Amount:          49900,
		Currency:        "usd",
		Interval:        plandomain.IntervalYear,
		IntervalCount:   1,
		TrialPeriodDays: 14,
	},
}

// EnsureDefaultPlans installs any missing catalog plans. Existing plans are
// never touched, so operator edits survive restarts.
func EnsureDefaultPlans(ctx context.Context, db *gorm.DB, repo plandomain.Repository, clk clock.Clock, log *zap.Logger) error {
	log = log.Named("seed")

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	created := 0
	for _, plan := range defaultPlans {
		existing, err := repo.FindByID(ctx, db, plan.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		plan.Created = clk.Now(ctx).Unix()
		if err := repo.Insert(ctx, db, &plan); err != nil {
			return err
		}
		created++
	}
	if created > 0 {
		log.Info("seeded default plans", zap.Int("created", created))
	}
	return nil
}
