package repository

import (
	"context"
	"errors"

	domain "github.com/railzwaylabs/billingmock/internal/testclock/domain"
	"gorm.io/gorm"
)

type repository struct{}

func Provide() domain.Repository { return &repository{} }

func (r *repository) Insert(ctx context.Context, db *gorm.DB, clock *domain.TestClock) error {
	return db.WithContext(ctx).Create(clock).Error
}

func (r *repository) Update(ctx context.Context, db *gorm.DB, clock *domain.TestClock) error {
	return db.WithContext(ctx).Save(clock).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.TestClock, error) {
	var clock domain.TestClock
	err := db.WithContext(ctx).First(&clock, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &clock, nil
}

func (r *repository) Delete(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Delete(&domain.TestClock{}, "id = ?", id).Error
}

func (r *repository) List(ctx context.Context, db *gorm.DB) ([]domain.TestClock, error) {
	var clocks []domain.TestClock
	err := db.WithContext(ctx).Order("created DESC, id DESC").Find(&clocks).Error
	return clocks, err
}
