package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/railzwaylabs/billingmock/internal/clock"
	customerdomain "github.com/railzwaylabs/billingmock/internal/customer/domain"
	customerrepo "github.com/railzwaylabs/billingmock/internal/customer/repository"
	"github.com/railzwaylabs/billingmock/internal/idgen"
	domain "github.com/railzwaylabs/billingmock/internal/invoice/domain"
	"github.com/railzwaylabs/billingmock/internal/invoice/repository"
	"github.com/railzwaylabs/billingmock/internal/invoice/upcoming"
	plandomain "github.com/railzwaylabs/billingmock/internal/plan/domain"
	planrepo "github.com/railzwaylabs/billingmock/internal/plan/repository"
	subscriptiondomain "github.com/railzwaylabs/billingmock/internal/subscription/domain"
	subscriptionrepo "github.com/railzwaylabs/billingmock/internal/subscription/repository"
	testclockctx "github.com/railzwaylabs/billingmock/internal/testclock/context"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var frozenNow = time.Date(2023, time.June, 10, 9, 0, 0, 0, time.UTC)

func frozenCtx() context.Context {
	return testclockctx.WithTestClock(context.Background(), "clk_frozen", frozenNow)
}

var (
	basicPlan = plandomain.Plan{ID: "basic", Nickname: "Basic", Amount: 1500, Currency: "usd", Interval: plandomain.IntervalMonth, IntervalCount: 1}
	proPlan   = plandomain.Plan{ID: "pro", Nickname: "Pro", Amount: 5000, Currency: "usd", Interval: plandomain.IntervalMonth, IntervalCount: 1}
)

func newInvoiceService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&plandomain.Plan{},
		&customerdomain.Customer{},
		&subscriptiondomain.Subscription{},
		&subscriptiondomain.SubscriptionItem{},
		&domain.Invoice{},
		&domain.InvoiceLine{},
	))

	require.NoError(t, db.Create(&basicPlan).Error)
	require.NoError(t, db.Create(&proPlan).Error)

	clk := clock.SystemClock{}
	gen := idgen.New()
	calc := upcoming.NewCalculator(upcoming.CalculatorParam{
		DB:       db,
		Log:      zap.NewNop(),
		Clock:    clk,
		GenID:    gen,
		PlanRepo: planrepo.Provide(),
	})

	return &Service{
		db:           db,
		log:          zap.NewNop(),
		clock:        clk,
		repo:         repository.Provide(),
		subRepo:      subscriptionrepo.Provide(),
		customerRepo: customerrepo.Provide(),
		upcoming:     calc,
	}, db
}

func activeSubscription(plan plandomain.Plan) *subscriptiondomain.Subscription {
	planID := plan.ID
	start := frozenNow.AddDate(0, 0, -10).Unix()
	end := frozenNow.AddDate(0, 0, 20).Unix()
	return &subscriptiondomain.Subscription{
		ID:                 "sub_1",
		CustomerID:         "cus_1",
		PlanID:             &planID,
		Plan:               &plan,
		Status:             subscriptiondomain.SubscriptionStatusActive,
		CurrentPeriodStart: start,
		CurrentPeriodEnd:   end,
		Quantity:           1,
		Metadata:           datatypes.JSONMap{"team": "atlas"},
		Items: []subscriptiondomain.SubscriptionItem{{
			ID: "si_1", SubscriptionID: "sub_1", PlanID: plan.ID, Plan: plan, Quantity: 1,
		}},
	}
}

func TestGenerateUsesCurrentPeriodVerbatim(t *testing.T) {
	svc, db := newInvoiceService(t)
	ctx := frozenCtx()
	sub := activeSubscription(basicPlan)

	invoice, err := svc.GenerateForSubscription(ctx, sub, domain.UpcomingOptions{})
	require.NoError(t, err)

	require.Equal(t, sub.CurrentPeriodStart, invoice.PeriodStart)
	require.Equal(t, sub.CurrentPeriodEnd, invoice.PeriodEnd)
	require.True(t, invoice.Paid)
	require.True(t, invoice.Closed)
	require.True(t, invoice.Attempted)
	require.Equal(t, domain.InvoiceStatusPaid, invoice.Status)
	require.Equal(t, int64(1500), invoice.Total)
	require.Equal(t, int64(0), invoice.EndingBalance)

	require.Len(t, invoice.Lines, 1)
	line := invoice.Lines[0]
	require.Equal(t, sub.CurrentPeriodStart, line.Period.Start)
	require.Equal(t, sub.CurrentPeriodEnd, line.Period.End)
	require.Equal(t, "sub_1", *line.SubscriptionID)
	require.Equal(t, "si_1", *line.SubscriptionItem)
	require.Equal(t, "atlas", line.Metadata["team"])

	var stored domain.Invoice
	require.NoError(t, db.Preload("Lines").First(&stored, "id = ?", invoice.ID).Error)
	require.Len(t, stored.Lines, 1)
}

func TestGenerateUpgradeRestartsGoverningPeriod(t *testing.T) {
	svc, _ := newInvoiceService(t)
	ctx := frozenCtx()
	sub := activeSubscription(basicPlan)

	proID := proPlan.ID
	invoice, err := svc.GenerateForSubscription(ctx, sub, domain.UpcomingOptions{
		SubscriptionPlan: &proID,
	})
	require.NoError(t, err)

	// Base line on the replacement plan plus two proration lines.
	require.Len(t, invoice.Lines, 3)
	require.Equal(t, int64(5000-1500+5000), invoice.Total)

	// The governing period runs one interval of the current primary plan
	// from the old period start.
	wantEnd := subscriptiondomain.PeriodEnd(sub.CurrentPeriodStart, &basicPlan, 1)
	require.Equal(t, sub.CurrentPeriodStart, invoice.PeriodStart)
	require.Equal(t, wantEnd, invoice.PeriodEnd)

	for _, line := range invoice.Lines {
		if line.Proration {
			require.Equal(t, sub.CurrentPeriodStart, line.Period.Start)
			require.Equal(t, invoice.Date, line.Period.End)
			continue
		}
		require.Equal(t, invoice.PeriodStart, line.Period.Start)
		require.Equal(t, invoice.PeriodEnd, line.Period.End)
	}
}

func TestGenerateNegativeTotalCreditsCustomerBalance(t *testing.T) {
	svc, db := newInvoiceService(t)
	ctx := frozenCtx()

	require.NoError(t, db.Create(&customerdomain.Customer{
		ID: "cus_1", Currency: "usd", AccountBalance: 200,
	}).Error)

	// Downgrading from an expensive plan produces a net credit.
	sub := activeSubscription(proPlan)
	basicID := basicPlan.ID
	invoice, err := svc.GenerateForSubscription(ctx, sub, domain.UpcomingOptions{
		SubscriptionPlan: &basicID,
	})
	require.NoError(t, err)

	require.Equal(t, int64(1500-5000+1500), invoice.Total)
	require.Negative(t, invoice.Total)

	// The credit lands on the customer; the invoice's recorded ending
	// balance is zero regardless.
	var customer customerdomain.Customer
	require.NoError(t, db.First(&customer, "id = ?", "cus_1").Error)
	require.Equal(t, int64(-invoice.Total+200), customer.AccountBalance)
	require.Equal(t, int64(0), invoice.EndingBalance)
}

func TestGenerateRejectsSubscriptionWithoutItems(t *testing.T) {
	svc, _ := newInvoiceService(t)
	sub := &subscriptiondomain.Subscription{ID: "sub_1", CustomerID: "cus_1"}
	_, err := svc.GenerateForSubscription(frozenCtx(), sub, domain.UpcomingOptions{})
	require.ErrorIs(t, err, subscriptiondomain.ErrInvalidItems)
}

func TestUpcomingDoesNotPersist(t *testing.T) {
	svc, db := newInvoiceService(t)
	ctx := frozenCtx()

	sub := activeSubscription(basicPlan)
	require.NoError(t, db.Omit("Plan", "Items").Create(sub).Error)
	for i := range sub.Items {
		require.NoError(t, db.Omit("Plan").Create(&sub.Items[i]).Error)
	}

	invoice, err := svc.Upcoming(ctx, "sub_1", domain.UpcomingOptions{})
	require.NoError(t, err)

	require.Equal(t, domain.InvoiceStatusDraft, invoice.Status)
	require.Len(t, invoice.Lines, 1)
	// The base line previews the period after the current one.
	require.Equal(t, sub.CurrentPeriodEnd, invoice.Lines[0].Period.Start)

	var count int64
	require.NoError(t, db.Model(&domain.Invoice{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestUpcomingWithPlanChangeAddsProrations(t *testing.T) {
	svc, db := newInvoiceService(t)
	ctx := frozenCtx()

	sub := activeSubscription(basicPlan)
	require.NoError(t, db.Omit("Plan", "Items").Create(sub).Error)
	for i := range sub.Items {
		require.NoError(t, db.Omit("Plan").Create(&sub.Items[i]).Error)
	}

	proID := proPlan.ID
	invoice, err := svc.Upcoming(ctx, "sub_1", domain.UpcomingOptions{SubscriptionPlan: &proID})
	require.NoError(t, err)

	require.Len(t, invoice.Lines, 3)
	require.Contains(t, invoice.Lines[1].Description, "Unused time on Basic")
	require.Equal(t, int64(-1500), invoice.Lines[1].Amount)
	require.Contains(t, invoice.Lines[2].Description, "Remaining time on Pro")
	require.Equal(t, int64(5000), invoice.Lines[2].Amount)
}
