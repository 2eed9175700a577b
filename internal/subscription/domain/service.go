package domain

import "context"

type CreateSubscriptionItemRequest struct {
	Plan     string            `json:"plan"`
	Quantity *int64            `json:"quantity"`
	Metadata map[string]string `json:"metadata"`
}

type CreateSubscriptionRequest struct {
	CustomerID string
	Plan       string
	Items      []CreateSubscriptionItemRequest
	Options    ChangeOptions
}

type UpdateSubscriptionRequest struct {
	Plan    string
	Items   []CreateSubscriptionItemRequest
	Options ChangeOptions
}

type Service interface {
	Create(ctx context.Context, req CreateSubscriptionRequest) (Subscription, error)
	Get(ctx context.Context, id string) (Subscription, error)
	Update(ctx context.Context, id string, req UpdateSubscriptionRequest) (Subscription, error)
	Cancel(ctx context.Context, id string) (Subscription, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Subscription, error)
}
