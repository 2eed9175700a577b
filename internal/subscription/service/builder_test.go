package service

import (
	"testing"

	plandomain "github.com/railzwaylabs/billingmock/internal/plan/domain"
	domain "github.com/railzwaylabs/billingmock/internal/subscription/domain"
	"github.com/stretchr/testify/require"
)

func TestApplyPlanChangeSwapRestartsPeriod(t *testing.T) {
	svc := newTestService()
	ctx := frozenCtx()

	oldPlanID := "basic"
	oldStart := frozenNow.Unix() - 20*86400
	sub := &domain.Subscription{
		ID:                 "sub_1",
		CustomerID:         "cus_1",
		PlanID:             &oldPlanID,
		CurrentPeriodStart: oldStart,
	}

	newPlan := monthlyPlan("pro", 0)
	require.NoError(t, svc.ApplyPlanChange(ctx, sub, []plandomain.Plan{newPlan}, domain.ChangeOptions{}))

	require.Equal(t, frozenNow.Unix(), sub.CurrentPeriodStart)
	require.Equal(t, "pro", *sub.PlanID)
	require.Equal(t, domain.SubscriptionStatusActive, sub.Status)
	require.Len(t, sub.Items, 1)
	require.Equal(t, "pro", sub.Items[0].PlanID)
}

func TestApplyPlanChangeSamePlanKeepsExplicitStart(t *testing.T) {
	svc := newTestService()
	ctx := frozenCtx()

	planID := "basic"
	start := frozenNow.Unix() - 5*86400
	sub := &domain.Subscription{
		ID:         "sub_1",
		CustomerID: "cus_1",
		PlanID:     &planID,
	}

	plan := monthlyPlan("basic", 0)
	require.NoError(t, svc.ApplyPlanChange(ctx, sub, []plandomain.Plan{plan}, domain.ChangeOptions{
		CurrentPeriodStart: &start,
	}))

	require.Equal(t, start, sub.CurrentPeriodStart)
}

func TestApplyPlanChangeEmptyPlanSetRejected(t *testing.T) {
	svc := newTestService()
	sub := &domain.Subscription{ID: "sub_1"}
	require.ErrorIs(t, svc.ApplyPlanChange(frozenCtx(), sub, nil, domain.ChangeOptions{}), domain.ErrInvalidItems)
}

func TestApplyPlanChangeMultiPlanClearsPrimary(t *testing.T) {
	svc := newTestService()
	ctx := frozenCtx()

	sub := &domain.Subscription{ID: "sub_1", CustomerID: "cus_1"}
	plans := []plandomain.Plan{monthlyPlan("basic", 0), monthlyPlan("addon", 0)}

	require.NoError(t, svc.ApplyPlanChange(ctx, sub, plans, domain.ChangeOptions{}))

	require.Nil(t, sub.PlanID)
	require.Nil(t, sub.Plan)
	require.Len(t, sub.Items, 2)
}

func TestBuildItemsHonorsMatchingOptions(t *testing.T) {
	svc := newTestService()
	ctx := frozenCtx()
	plans := []plandomain.Plan{monthlyPlan("basic", 0), monthlyPlan("addon", 0)}

	qty := int64(3)
	items := svc.buildItems(ctx, "sub_1", plans, domain.ChangeOptions{
		Items: []domain.ItemOptions{
			{Plan: "basic", Quantity: &qty, Metadata: map[string]string{"seat": "team"}},
			{Plan: "addon"},
		},
	})

	require.Len(t, items, 2)
	require.Equal(t, int64(3), items[0].Quantity)
	require.Equal(t, "team", items[0].Metadata["seat"])
	require.Equal(t, int64(1), items[1].Quantity)
}

func TestBuildItemsSizeMismatchFallsBackToDefaults(t *testing.T) {
	svc := newTestService()
	ctx := frozenCtx()
	plans := []plandomain.Plan{monthlyPlan("basic", 0), monthlyPlan("addon", 0)}

	qty := int64(5)
	items := svc.buildItems(ctx, "sub_1", plans, domain.ChangeOptions{
		Items: []domain.ItemOptions{{Plan: "basic", Quantity: &qty}},
	})

	require.Len(t, items, 2)
	require.Equal(t, int64(1), items[0].Quantity)
	require.Equal(t, int64(1), items[1].Quantity)
}

func TestApplyParamsPassthroughOnlyWhenPresent(t *testing.T) {
	svc := newTestService()

	fee := 2.5
	existing := 10.0
	sub := &domain.Subscription{TaxPercent: &existing, Quantity: 4}

	svc.applyParams(sub, domain.BillingParams{
		ApplicationFeePercent: &fee,
	})

	require.Equal(t, 2.5, *sub.ApplicationFeePercent)
	// Absent passthrough fields leave prior values alone.
	require.Equal(t, 10.0, *sub.TaxPercent)
	require.Equal(t, int64(4), sub.Quantity)
}
