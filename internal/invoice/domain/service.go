package domain

import (
	"context"

	subscriptiondomain "github.com/railzwaylabs/billingmock/internal/subscription/domain"
)

type Service interface {
	// GenerateForSubscription produces and stores the invoice for the
	// subscription's current (or hypothetical next) billing period.
	GenerateForSubscription(ctx context.Context, sub *subscriptiondomain.Subscription, opts UpcomingOptions) (*Invoice, error)
	// Upcoming previews the next invoice without persisting anything.
	Upcoming(ctx context.Context, subscriptionID string, opts UpcomingOptions) (*Invoice, error)
	// UpcomingForCustomer previews against the customer's most recent
	// non-canceled subscription.
	UpcomingForCustomer(ctx context.Context, customerID string, opts UpcomingOptions) (*Invoice, error)
	Get(ctx context.Context, id string) (Invoice, error)
	List(ctx context.Context, filter ListFilter) ([]Invoice, error)
}
