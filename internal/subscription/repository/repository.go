package repository

import (
	"context"
	"errors"

	domain "github.com/railzwaylabs/billingmock/internal/subscription/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, sub *domain.Subscription) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(sub).Error; err != nil {
			return err
		}
		if len(sub.Items) == 0 {
			return nil
		}
		return tx.Omit(clause.Associations).Create(&sub.Items).Error
	})
}

func (r *repository) Update(ctx context.Context, db *gorm.DB, sub *domain.Subscription) error {
	return db.WithContext(ctx).Omit(clause.Associations).Save(sub).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := db.WithContext(ctx).
		Preload("Plan").
		Preload("Items", func(q *gorm.DB) *gorm.DB { return q.Order("created ASC, id ASC") }).
		Preload("Items.Plan").
		First(&sub, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repository) ListByCustomer(ctx context.Context, db *gorm.DB, customerID string) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	err := db.WithContext(ctx).
		Preload("Plan").
		Preload("Items", func(q *gorm.DB) *gorm.DB { return q.Order("created ASC, id ASC") }).
		Preload("Items.Plan").
		Where("customer_id = ?", customerID).
		Order("created DESC, id DESC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repository) ReplaceItems(ctx context.Context, db *gorm.DB, subscriptionID string, items []domain.SubscriptionItem) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.SubscriptionItem{}, "subscription_id = ?", subscriptionID).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Omit(clause.Associations).Create(&items).Error
	})
}

func (r *repository) ListRenewable(ctx context.Context, db *gorm.DB, now int64) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	err := db.WithContext(ctx).
		Preload("Plan").
		Preload("Items.Plan").
		Where("status = ? AND current_period_end <= ?", domain.SubscriptionStatusActive, now).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repository) ListTrialExpired(ctx context.Context, db *gorm.DB, now int64) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	err := db.WithContext(ctx).
		Preload("Plan").
		Preload("Items.Plan").
		Where("status = ? AND trial_end IS NOT NULL AND trial_end <= ?", domain.SubscriptionStatusTrialing, now).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}
