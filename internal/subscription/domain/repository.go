package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, sub *Subscription) error
	Update(ctx context.Context, db *gorm.DB, sub *Subscription) error
	FindByID(ctx context.Context, db *gorm.DB, id string) (*Subscription, error)
	ListByCustomer(ctx context.Context, db *gorm.DB, customerID string) ([]Subscription, error)
	ReplaceItems(ctx context.Context, db *gorm.DB, subscriptionID string, items []SubscriptionItem) error

	// ListRenewable returns active subscriptions whose current period has
	// ended at or before now.
	ListRenewable(ctx context.Context, db *gorm.DB, now int64) ([]Subscription, error)
	// ListTrialExpired returns trialing subscriptions whose trial has ended
	// at or before now.
	ListTrialExpired(ctx context.Context, db *gorm.DB, now int64) ([]Subscription, error)
}
