package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/railzwaylabs/billingmock/internal/apierror"
	chargedomain "github.com/railzwaylabs/billingmock/internal/charge/domain"
	chargerepo "github.com/railzwaylabs/billingmock/internal/charge/repository"
	"github.com/railzwaylabs/billingmock/internal/clock"
	domain "github.com/railzwaylabs/billingmock/internal/customer/domain"
	"github.com/railzwaylabs/billingmock/internal/customer/repository"
	"github.com/railzwaylabs/billingmock/internal/idgen"
	plandomain "github.com/railzwaylabs/billingmock/internal/plan/domain"
	subscriptiondomain "github.com/railzwaylabs/billingmock/internal/subscription/domain"
	subscriptionrepo "github.com/railzwaylabs/billingmock/internal/subscription/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newLedgerService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&plandomain.Plan{},
		&domain.Customer{},
		&subscriptiondomain.Subscription{},
		&subscriptiondomain.SubscriptionItem{},
		&chargedomain.Charge{},
	))

	return &Service{
		db:         db,
		log:        zap.NewNop(),
		clock:      clock.SystemClock{},
		genID:      idgen.New(),
		repo:       repository.Provide(),
		subRepo:    subscriptionrepo.Provide(),
		chargeRepo: chargerepo.Provide(),
	}, db
}

func usdItems(amount int64) []subscriptiondomain.SubscriptionItem {
	return []subscriptiondomain.SubscriptionItem{{
		ID:       "si_test",
		PlanID:   "basic",
		Plan:     plandomain.Plan{ID: "basic", Amount: amount, Currency: "usd", Interval: plandomain.IntervalMonth},
		Quantity: 1,
	}}
}

func TestAttachChargesNonTrialingSubscription(t *testing.T) {
	svc, db := newLedgerService(t)
	ctx := context.Background()

	customer := domain.Customer{ID: "cus_1", Created: time.Now().Unix()}
	require.NoError(t, db.Create(&customer).Error)

	items := usdItems(1500)
	sub := &subscriptiondomain.Subscription{
		ID:    "sub_1",
		Plan:  &items[0].Plan,
		Items: items,
	}
	require.NoError(t, svc.AttachSubscription(ctx, &customer, sub))

	require.Equal(t, "usd", customer.Currency)
	require.Equal(t, int64(1), customer.SubscriptionCount)

	var charges []chargedomain.Charge
	require.NoError(t, db.Find(&charges).Error)
	require.Len(t, charges, 1)
	require.Equal(t, int64(1500), charges[0].Amount)
	require.True(t, charges[0].Paid)
	require.Equal(t, "succeeded", charges[0].Status)
}

func TestAttachTrialingSubscriptionSkipsCharge(t *testing.T) {
	svc, db := newLedgerService(t)
	ctx := context.Background()

	customer := domain.Customer{ID: "cus_1"}
	require.NoError(t, db.Create(&customer).Error)

	trialEnd := time.Now().Unix() + 86400
	items := usdItems(1500)
	sub := &subscriptiondomain.Subscription{
		ID:       "sub_1",
		TrialEnd: &trialEnd,
		Items:    items,
	}
	require.NoError(t, svc.AttachSubscription(ctx, &customer, sub))

	var count int64
	require.NoError(t, db.Model(&chargedomain.Charge{}).Count(&count).Error)
	require.Zero(t, count)
	require.Equal(t, "usd", customer.Currency)
	require.Equal(t, int64(1), customer.SubscriptionCount)
}

func TestAttachMultiItemChargesItemTotal(t *testing.T) {
	svc, db := newLedgerService(t)
	ctx := context.Background()

	customer := domain.Customer{ID: "cus_1"}
	require.NoError(t, db.Create(&customer).Error)

	items := []subscriptiondomain.SubscriptionItem{
		{ID: "si_1", PlanID: "basic", Plan: plandomain.Plan{ID: "basic", Amount: 1000, Currency: "usd"}, Quantity: 2},
		{ID: "si_2", PlanID: "addon", Plan: plandomain.Plan{ID: "addon", Amount: 300, Currency: "usd"}, Quantity: 1},
	}
	// Multi-item subscriptions carry no primary plan.
	sub := &subscriptiondomain.Subscription{ID: "sub_1", Items: items}
	require.NoError(t, svc.AttachSubscription(ctx, &customer, sub))

	var charges []chargedomain.Charge
	require.NoError(t, db.Find(&charges).Error)
	require.Len(t, charges, 1)
	require.Equal(t, int64(2300), charges[0].Amount)
}

func TestAttachCurrencyConflictLeavesCustomerUntouched(t *testing.T) {
	svc, db := newLedgerService(t)
	ctx := context.Background()

	customer := domain.Customer{ID: "cus_1", Currency: "eur", SubscriptionCount: 2}
	require.NoError(t, db.Create(&customer).Error)

	sub := &subscriptiondomain.Subscription{ID: "sub_1", Items: usdItems(1500)}
	err := svc.AttachSubscription(ctx, &customer, sub)
	require.Error(t, err)

	apiErr, ok := apierror.From(err)
	require.True(t, ok)
	require.Equal(t, apierror.CodeCurrencyConflict, apiErr.Code)
	require.Contains(t, apiErr.Message, "Can't combine currencies on a single customer")

	// No charge was written and the counter did not move.
	var count int64
	require.NoError(t, db.Model(&chargedomain.Charge{}).Count(&count).Error)
	require.Zero(t, count)
	require.Equal(t, int64(2), customer.SubscriptionCount)
}

func TestAttachRejectsEmptyItems(t *testing.T) {
	svc, _ := newLedgerService(t)
	customer := domain.Customer{ID: "cus_1"}
	sub := &subscriptiondomain.Subscription{ID: "sub_1"}
	require.ErrorIs(t, svc.AttachSubscription(context.Background(), &customer, sub), subscriptiondomain.ErrInvalidItems)
}

func TestDetachDecrementsCounter(t *testing.T) {
	svc, db := newLedgerService(t)
	ctx := context.Background()

	customer := domain.Customer{ID: "cus_1", SubscriptionCount: 3}
	require.NoError(t, db.Create(&customer).Error)

	require.NoError(t, svc.DetachSubscription(ctx, &customer, "sub_1"))
	require.Equal(t, int64(2), customer.SubscriptionCount)

	var stored domain.Customer
	require.NoError(t, db.First(&stored, "id = ?", "cus_1").Error)
	require.Equal(t, int64(2), stored.SubscriptionCount)
}

func TestDetachMissingSubscriptionStillDecrements(t *testing.T) {
	svc, db := newLedgerService(t)
	ctx := context.Background()

	customer := domain.Customer{ID: "cus_1", SubscriptionCount: 1}
	require.NoError(t, db.Create(&customer).Error)

	// An id that never belonged to this customer still moves the counter.
	require.NoError(t, svc.DetachSubscription(ctx, &customer, "sub_nope"))
	require.Equal(t, int64(0), customer.SubscriptionCount)
}

func TestSubscriptionsFiltersCanceled(t *testing.T) {
	svc, db := newLedgerService(t)
	ctx := context.Background()

	customer := domain.Customer{ID: "cus_1", SubscriptionCount: 1}
	require.NoError(t, db.Create(&customer).Error)

	plan := plandomain.Plan{ID: "basic", Amount: 1000, Currency: "usd", Interval: plandomain.IntervalMonth}
	require.NoError(t, db.Create(&plan).Error)

	planID := plan.ID
	require.NoError(t, db.Create(&subscriptiondomain.Subscription{
		ID: "sub_live", CustomerID: "cus_1", PlanID: &planID,
		Status: subscriptiondomain.SubscriptionStatusActive, Created: 200,
	}).Error)
	require.NoError(t, db.Create(&subscriptiondomain.Subscription{
		ID: "sub_dead", CustomerID: "cus_1", PlanID: &planID,
		Status: subscriptiondomain.SubscriptionStatusCanceled, Created: 100,
	}).Error)

	list, err := svc.Subscriptions(ctx, "cus_1")
	require.NoError(t, err)

	require.Equal(t, "list", list.Object)
	require.Equal(t, int64(1), list.TotalCount)
	require.Len(t, list.Data, 1)
	require.Equal(t, "sub_live", list.Data[0].ID)
}
