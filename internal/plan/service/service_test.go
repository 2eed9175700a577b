package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/railzwaylabs/billingmock/internal/apierror"
	"github.com/railzwaylabs/billingmock/internal/clock"
	domain "github.com/railzwaylabs/billingmock/internal/plan/domain"
	"github.com/railzwaylabs/billingmock/internal/plan/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newPlanService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Plan{}))

	return &Service{
		db:    db,
		log:   zap.NewNop(),
		clock: clock.SystemClock{},
		repo:  repository.Provide(),
	}
}

func TestCreatePlanDerivesIDFromNickname(t *testing.T) {
	svc := newPlanService(t)

	plan, err := svc.Create(context.Background(), domain.CreatePlanRequest{
		Nickname: "Team Plan (Monthly)",
		Amount:   2500,
		Currency: "USD",
		Interval: "month",
	})
	require.NoError(t, err)

	require.Equal(t, "team-plan-monthly", plan.ID)
	require.Equal(t, "usd", plan.Currency)
	require.Equal(t, int64(1), plan.IntervalCount)
}

func TestCreatePlanRejectsBadInterval(t *testing.T) {
	svc := newPlanService(t)
	_, err := svc.Create(context.Background(), domain.CreatePlanRequest{
		ID: "p", Amount: 100, Currency: "usd", Interval: "fortnight",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInterval)
}

func TestCreatePlanRejectsNegativeAmount(t *testing.T) {
	svc := newPlanService(t)
	_, err := svc.Create(context.Background(), domain.CreatePlanRequest{
		ID: "p", Amount: -1, Currency: "usd", Interval: "month",
	})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestCreatePlanRejectsDuplicateID(t *testing.T) {
	svc := newPlanService(t)
	ctx := context.Background()

	req := domain.CreatePlanRequest{ID: "basic", Amount: 100, Currency: "usd", Interval: "month"}
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, domain.ErrPlanExists)
}

func TestCreatePlanRequiresIDOrNickname(t *testing.T) {
	svc := newPlanService(t)
	_, err := svc.Create(context.Background(), domain.CreatePlanRequest{
		Amount: 100, Currency: "usd", Interval: "month",
	})
	require.ErrorIs(t, err, domain.ErrInvalidPlanID)
}

func TestGetMissingPlan(t *testing.T) {
	svc := newPlanService(t)
	_, err := svc.Get(context.Background(), "nope")
	require.Error(t, err)

	apiErr, ok := apierror.From(err)
	require.True(t, ok)
	require.Equal(t, "No such plan: nope", apiErr.Message)
}

func TestDeletePlan(t *testing.T) {
	svc := newPlanService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreatePlanRequest{ID: "basic", Amount: 100, Currency: "usd", Interval: "month"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "basic"))

	require.Error(t, svc.Delete(ctx, "basic"))
}
