package service

import (
	"context"

	"github.com/railzwaylabs/billingmock/internal/apierror"
	domain "github.com/railzwaylabs/billingmock/internal/charge/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

type ServiceParam struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("charge.service"),
		repo: p.Repo,
	}
}

func (s *Service) Get(ctx context.Context, id string) (domain.Charge, error) {
	charge, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Charge{}, err
	}
	if charge == nil {
		return domain.Charge{}, apierror.NotFound("charge", id)
	}
	return *charge, nil
}

func (s *Service) List(ctx context.Context, customerID string) ([]domain.Charge, error) {
	return s.repo.List(ctx, s.db, customerID)
}
