package domain

import "context"

type CreatePlanRequest struct {
	ID              string            `json:"id"`
	Nickname        string            `json:"nickname"`
	Amount          int64             `json:"amount"`
	Currency        string            `json:"currency"`
	Interval        string            `json:"interval"`
	IntervalCount   int64             `json:"interval_count"`
	TrialPeriodDays int64             `json:"trial_period_days"`
	Metadata        map[string]string `json:"metadata"`
}

type Service interface {
	Create(ctx context.Context, req CreatePlanRequest) (Plan, error)
	Get(ctx context.Context, id string) (Plan, error)
	List(ctx context.Context) ([]Plan, error)
	Delete(ctx context.Context, id string) error
}
