package domain

import plandomain "github.com/railzwaylabs/billingmock/internal/plan/domain"

// ItemOptions selects per-item quantity and metadata for one plan in a
// plan-set change.
type ItemOptions struct {
	Plan     string            `json:"plan"`
	Quantity *int64            `json:"quantity"`
	Metadata map[string]string `json:"metadata"`
}

// ChangeOptions is the recognized option set for subscription creation and
// plan-set changes. Absent fields are nil.
type ChangeOptions struct {
	TrialEnd              *Timestamp        `json:"trial_end"`
	CurrentPeriodStart    *int64            `json:"current_period_start"`
	Created               *int64            `json:"created"`
	BillingCycleAnchor    *Timestamp        `json:"billing_cycle_anchor"`
	ApplicationFeePercent *float64          `json:"application_fee_percent"`
	Quantity              *int64            `json:"quantity"`
	Metadata              map[string]string `json:"metadata"`
	TaxPercent            *float64          `json:"tax_percent"`
	Items                 []ItemOptions     `json:"items"`
}

// BillingParams is the resolved field set a plan change merges onto a
// subscription record. Every field a change may set is enumerated here;
// passthrough pointers overwrite only when non-nil.
type BillingParams struct {
	CustomerID         string
	CurrentPeriodStart int64
	Created            int64
	Plan               *plandomain.Plan

	Status             SubscriptionStatus
	CurrentPeriodEnd   int64
	TrialStart         *int64
	TrialEnd           *int64
	BillingCycleAnchor *Timestamp

	ApplicationFeePercent *float64
	Quantity              *int64
	Metadata              map[string]string
	TaxPercent            *float64
}
