package service

import (
	"context"
	"strings"

	"github.com/gosimple/slug"
	"github.com/railzwaylabs/billingmock/internal/apierror"
	"github.com/railzwaylabs/billingmock/internal/clock"
	domain "github.com/railzwaylabs/billingmock/internal/plan/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("plan.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePlanRequest) (domain.Plan, error) {
	interval := domain.Interval(strings.ToLower(strings.TrimSpace(req.Interval)))
	switch interval {
	case domain.IntervalWeek, domain.IntervalMonth, domain.IntervalYear:
	default:
		return domain.Plan{}, domain.ErrInvalidInterval
	}

	if req.Amount < 0 {
		return domain.Plan{}, domain.ErrInvalidAmount
	}
	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		return domain.Plan{}, domain.ErrInvalidCurrency
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = slug.Make(req.Nickname)
	}
	if id == "" {
		return domain.Plan{}, domain.ErrInvalidPlanID
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Plan{}, err
	}
	if existing != nil {
		return domain.Plan{}, domain.ErrPlanExists
	}

	intervalCount := req.IntervalCount
	if intervalCount < 1 {
		intervalCount = 1
	}
	trialDays := req.TrialPeriodDays
	if trialDays < 0 {
		trialDays = 0
	}

	plan := domain.Plan{
		ID:              id,
		Nickname:        strings.TrimSpace(req.Nickname),
		Amount:          req.Amount,
		Currency:        currency,
		Interval:        interval,
		IntervalCount:   intervalCount,
		TrialPeriodDays: trialDays,
		Metadata:        metadataMap(req.Metadata),
		Created:         s.clock.Now(ctx).Unix(),
	}

	if err := s.repo.Insert(ctx, s.db, &plan); err != nil {
		return domain.Plan{}, err
	}

	s.log.Info("plan created",
		zap.String("plan_id", plan.ID),
		zap.Int64("amount", plan.Amount),
		zap.String("interval", string(plan.Interval)))
	return plan, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Plan, error) {
	plan, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Plan{}, err
	}
	if plan == nil {
		return domain.Plan{}, apierror.NotFound("plan", id)
	}
	return *plan, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Plan, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	plan, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if plan == nil {
		return apierror.NotFound("plan", id)
	}
	return s.repo.Delete(ctx, s.db, id)
}

func metadataMap(m map[string]string) datatypes.JSONMap {
	if len(m) == 0 {
		return nil
	}
	out := make(datatypes.JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
