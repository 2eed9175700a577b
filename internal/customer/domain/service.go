package domain

import (
	"context"

	subscriptiondomain "github.com/railzwaylabs/billingmock/internal/subscription/domain"
)

type CreateCustomerRequest struct {
	Email       string            `json:"email"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata"`
}

// SubscriptionList is the embedded collection shape on customer reads:
// newest first, with the stored counter as total_count.
type SubscriptionList struct {
	Object     string                            `json:"object"`
	TotalCount int64                             `json:"total_count"`
	Data       []subscriptiondomain.Subscription `json:"data"`
}

type Service interface {
	Create(ctx context.Context, req CreateCustomerRequest) (Customer, error)
	Get(ctx context.Context, id string) (Customer, error)
	Subscriptions(ctx context.Context, customerID string) (SubscriptionList, error)

	// AttachSubscription enforces currency consistency, creates the initial
	// charge for non-trialing subscriptions, and adds the subscription to
	// the customer's collection. No mutation occurs on failure.
	AttachSubscription(ctx context.Context, customer *Customer, sub *subscriptiondomain.Subscription) error
	// DetachSubscription removes the subscription from the collection. The
	// stored counter decrements even when no row matched.
	DetachSubscription(ctx context.Context, customer *Customer, subscriptionID string) error
}
