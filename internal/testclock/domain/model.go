package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrTestClockNotFound = errors.New("test clock not found")
	ErrAdvanceBackwards  = errors.New("test clock can only advance forwards")
)

// TestClock freezes time for requests made against it. Requests carrying
// the clock's ID observe FrozenTime instead of wall-clock time.
type TestClock struct {
	ID         string `json:"id" gorm:"primaryKey"`
	Name       string `json:"name"`
	FrozenTime int64  `json:"frozen_time"`
	Created    int64  `json:"created"`
}

func (TestClock) TableName() string { return "test_clocks" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, clock *TestClock) error
	Update(ctx context.Context, db *gorm.DB, clock *TestClock) error
	FindByID(ctx context.Context, db *gorm.DB, id string) (*TestClock, error)
	Delete(ctx context.Context, db *gorm.DB, id string) error
	List(ctx context.Context, db *gorm.DB) ([]TestClock, error)
}

type CreateTestClockRequest struct {
	Name       string `json:"name"`
	FrozenTime int64  `json:"frozen_time"`
}

type Service interface {
	Create(ctx context.Context, req CreateTestClockRequest) (TestClock, error)
	Advance(ctx context.Context, id string, to int64) (TestClock, error)
	Get(ctx context.Context, id string) (TestClock, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]TestClock, error)
}
