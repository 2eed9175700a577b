package repository

import (
	"context"
	"errors"

	domain "github.com/railzwaylabs/billingmock/internal/charge/domain"
	"gorm.io/gorm"
)

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, charge *domain.Charge) error {
	return db.WithContext(ctx).Create(charge).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.Charge, error) {
	var charge domain.Charge
	err := db.WithContext(ctx).First(&charge, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

func (r *repository) List(ctx context.Context, db *gorm.DB, customerID string) ([]domain.Charge, error) {
	q := db.WithContext(ctx).Order("created DESC")
	if customerID != "" {
		q = q.Where("customer_id = ?", customerID)
	}
	var charges []domain.Charge
	if err := q.Find(&charges).Error; err != nil {
		return nil, err
	}
	return charges, nil
}
