package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, plan *Plan) error
	FindByID(ctx context.Context, db *gorm.DB, id string) (*Plan, error)
	List(ctx context.Context, db *gorm.DB) ([]Plan, error)
	Delete(ctx context.Context, db *gorm.DB, id string) error
}
