package service

import (
	"context"
	"time"

	"github.com/railzwaylabs/billingmock/internal/clock"
	"github.com/railzwaylabs/billingmock/internal/idgen"
	domain "github.com/railzwaylabs/billingmock/internal/testclock/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	genID *idgen.Generator
	repo  domain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	GenID *idgen.Generator
	Repo  domain.Repository
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("testclock.service"),
		clock: p.Clock,
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateTestClockRequest) (domain.TestClock, error) {
	now := s.clock.Now(ctx)
	frozen := req.FrozenTime
	if frozen == 0 {
		frozen = now.Unix()
	}
	tc := domain.TestClock{
		ID:         s.genID.New(idgen.PrefixTestClock),
		Name:       req.Name,
		FrozenTime: frozen,
		Created:    now.Unix(),
	}
	if err := s.repo.Insert(ctx, s.db, &tc); err != nil {
		return domain.TestClock{}, err
	}
	s.log.Info("test clock created",
		zap.String("test_clock_id", tc.ID),
		zap.Time("frozen_time", time.Unix(tc.FrozenTime, 0)))
	return tc, nil
}

func (s *Service) Advance(ctx context.Context, id string, to int64) (domain.TestClock, error) {
	tc, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.TestClock{}, err
	}
	if tc == nil {
		return domain.TestClock{}, domain.ErrTestClockNotFound
	}
	if to < tc.FrozenTime {
		return domain.TestClock{}, domain.ErrAdvanceBackwards
	}
	tc.FrozenTime = to
	if err := s.repo.Update(ctx, s.db, tc); err != nil {
		return domain.TestClock{}, err
	}
	return *tc, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.TestClock, error) {
	tc, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.TestClock{}, err
	}
	if tc == nil {
		return domain.TestClock{}, domain.ErrTestClockNotFound
	}
	return *tc, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tc, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if tc == nil {
		return domain.ErrTestClockNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) List(ctx context.Context) ([]domain.TestClock, error) {
	return s.repo.List(ctx, s.db)
}
