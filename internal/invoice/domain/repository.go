package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListFilter struct {
	CustomerID     string
	SubscriptionID string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, id string) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Invoice, error)
}
