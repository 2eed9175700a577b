package domain

import (
	"context"
	"errors"

	subscriptiondomain "github.com/railzwaylabs/billingmock/internal/subscription/domain"
	"gorm.io/datatypes"
)

const (
	InvoiceStatusDraft = "draft"
	InvoiceStatusPaid  = "paid"
)

var (
	ErrInvoiceNotFound = errors.New("invoice not found")
	// ErrNoSubscriptionLine means the draft carried no non-proration line
	// with a subscription reference, so no governing period exists.
	ErrNoSubscriptionLine = errors.New("no subscription line on draft invoice")
)

// Invoice is the bill for one billing period of a subscription.
type Invoice struct {
	ID             string        `json:"id" gorm:"primaryKey"`
	CustomerID     string        `json:"customer" gorm:"index;not null"`
	SubscriptionID string        `json:"subscription" gorm:"index"`
	Date           int64         `json:"date"`
	PeriodStart    int64         `json:"period_start"`
	PeriodEnd      int64         `json:"period_end"`
	Total          int64         `json:"total"`
	EndingBalance  int64         `json:"ending_balance"`
	Currency       string        `json:"currency"`
	Status         string        `json:"status"`
	Paid           bool          `json:"paid"`
	Closed         bool          `json:"closed"`
	Attempted      bool          `json:"attempted"`
	Lines          []InvoiceLine `json:"lines" gorm:"foreignKey:InvoiceID;references:ID"`
	Created        int64         `json:"created"`
}

func (Invoice) TableName() string { return "invoices" }

// Period is a line's own billing span.
type Period struct {
	Start int64 `json:"start" gorm:"column:period_start"`
	End   int64 `json:"end" gorm:"column:period_end"`
}

// InvoiceLine is one line of an invoice. Proration lines carry their own
// period; non-proration lines share the invoice's governing period.
type InvoiceLine struct {
	ID               string            `json:"id" gorm:"primaryKey"`
	InvoiceID        string            `json:"-" gorm:"index;not null"`
	Amount           int64             `json:"amount"`
	Currency         string            `json:"currency"`
	Description      string            `json:"description"`
	Proration        bool              `json:"proration"`
	Period           Period            `json:"period" gorm:"embedded"`
	Quantity         int64             `json:"quantity"`
	PlanID           *string           `json:"plan"`
	SubscriptionID   *string           `json:"subscription"`
	SubscriptionItem *string           `json:"subscription_item"`
	Metadata         datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`
}

func (InvoiceLine) TableName() string { return "invoice_lines" }

// UpcomingOptions are the overrides forwarded to the upcoming-invoice
// computation for "what-if" previews of a plan change.
type UpcomingOptions struct {
	SubscriptionPlan               *string                       `json:"subscription_plan"`
	SubscriptionQuantity           *int64                        `json:"subscription_quantity"`
	SubscriptionBillingCycleAnchor *subscriptiondomain.Timestamp `json:"subscription_billing_cycle_anchor"`
	SubscriptionProrationDate      *int64                        `json:"subscription_proration_date"`
}

// UpcomingCalculator computes a draft invoice for a subscription's next
// period, including standard proration lines for a hypothetical plan change.
// The generator reshapes its output; implementations never persist.
type UpcomingCalculator interface {
	Compute(ctx context.Context, sub *subscriptiondomain.Subscription, opts UpcomingOptions) (*Invoice, error)
}
