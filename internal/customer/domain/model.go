package domain

import (
	"errors"

	"gorm.io/datatypes"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
)

// Customer is the partial customer view the billing core needs. Currency is
// empty until the first subscription or invoice sets it; once set it is
// immutable. SubscriptionCount is the stored collection counter: it is
// maintained by the ledger, not derived, so the provider's detach quirk
// (unconditional decrement) is reproducible.
type Customer struct {
	ID                string            `json:"id" gorm:"primaryKey"`
	Email             string            `json:"email"`
	Description       string            `json:"description"`
	Currency          string            `json:"currency"`
	AccountBalance    int64             `json:"account_balance"`
	SubscriptionCount int64             `json:"-" gorm:"not null;default:0"`
	Metadata          datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`
	Created           int64             `json:"created"`

	// Populated on API reads, never stored.
	Subscriptions *SubscriptionList `json:"subscriptions,omitempty" gorm:"-"`
}

func (Customer) TableName() string { return "customers" }
