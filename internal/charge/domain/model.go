package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrChargeNotFound = errors.New("charge not found")

// Charge records an amount collected from a customer, created as a side
// effect of attaching a non-trialing subscription.
type Charge struct {
	ID         string `json:"id" gorm:"primaryKey"`
	CustomerID string `json:"customer" gorm:"index;not null"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	Paid       bool   `json:"paid"`
	Status     string `json:"status"`
	Created    int64  `json:"created"`
}

func (Charge) TableName() string { return "charges" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, charge *Charge) error
	FindByID(ctx context.Context, db *gorm.DB, id string) (*Charge, error)
	List(ctx context.Context, db *gorm.DB, customerID string) ([]Charge, error)
}

type Service interface {
	Get(ctx context.Context, id string) (Charge, error)
	List(ctx context.Context, customerID string) ([]Charge, error)
}
