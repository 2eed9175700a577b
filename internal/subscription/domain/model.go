package domain

import (
	"encoding/json"
	"errors"

	plandomain "github.com/railzwaylabs/billingmock/internal/plan/domain"
	"gorm.io/datatypes"
)

type SubscriptionStatus string

const (
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrInvalidItems         = errors.New("invalid items")
	ErrInvalidCustomer      = errors.New("invalid customer")
)

// Subscription tracks a customer's enrollment in one or more plans by
// billing period. Plan is set only when exactly one plan backs the
// subscription; multi-item subscriptions carry a nil plan.
type Subscription struct {
	ID                    string             `json:"id" gorm:"primaryKey"`
	CustomerID            string             `json:"customer" gorm:"index;not null"`
	PlanID                *string            `json:"-"`
	Plan                  *plandomain.Plan   `json:"plan" gorm:"foreignKey:PlanID;references:ID"`
	Items                 []SubscriptionItem `json:"-" gorm:"foreignKey:SubscriptionID;references:ID"`
	Status                SubscriptionStatus `json:"status" gorm:"type:text;not null"`
	CurrentPeriodStart    int64              `json:"current_period_start"`
	CurrentPeriodEnd      int64              `json:"current_period_end"`
	TrialStart            *int64             `json:"trial_start"`
	TrialEnd              *int64             `json:"trial_end"`
	BillingCycleAnchor    *Timestamp         `json:"billing_cycle_anchor" gorm:"type:text"`
	Quantity              int64              `json:"quantity"`
	ApplicationFeePercent *float64           `json:"application_fee_percent"`
	TaxPercent            *float64           `json:"tax_percent"`
	Metadata              datatypes.JSONMap  `json:"metadata" gorm:"type:jsonb"`
	Created               int64              `json:"created"`
	CanceledAt            *int64             `json:"canceled_at"`
}

func (Subscription) TableName() string { return "subscriptions" }

// SubscriptionItemList is the embedded items collection on subscription
// payloads.
type SubscriptionItemList struct {
	Object     string             `json:"object"`
	TotalCount int64              `json:"total_count"`
	Data       []SubscriptionItem `json:"data"`
}

// MarshalJSON embeds the items association as the provider's list shape, so
// multi-item subscriptions expose their billing basis even with a nil plan.
func (s Subscription) MarshalJSON() ([]byte, error) {
	type alias Subscription
	data := s.Items
	if data == nil {
		data = []SubscriptionItem{}
	}
	return json.Marshal(struct {
		alias
		Items SubscriptionItemList `json:"items"`
	}{
		alias: alias(s),
		Items: SubscriptionItemList{Object: "list", TotalCount: int64(len(data)), Data: data},
	})
}

// SubscriptionItem references a plan with a quantity. Owned by exactly one
// subscription; the item list is replaced wholesale on every plan-set change.
type SubscriptionItem struct {
	ID             string            `json:"id" gorm:"primaryKey"`
	SubscriptionID string            `json:"-" gorm:"index;not null"`
	PlanID         string            `json:"-" gorm:"not null"`
	Plan           plandomain.Plan   `json:"plan" gorm:"foreignKey:PlanID;references:ID"`
	Quantity       int64             `json:"quantity"`
	Metadata       datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`
	Created        int64             `json:"created"`
}

func (SubscriptionItem) TableName() string { return "subscription_items" }

// TotalItemsAmount is the amount charged for a multi-item subscription:
// the sum over items of quantity * plan amount.
func TotalItemsAmount(items []SubscriptionItem) int64 {
	var total int64
	for _, item := range items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		total += qty * item.Plan.Amount
	}
	return total
}
