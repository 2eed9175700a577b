package domain

import (
	"errors"

	"gorm.io/datatypes"
)

type Interval string

const (
	IntervalWeek  Interval = "week"
	IntervalMonth Interval = "month"
	IntervalYear  Interval = "year"
)

var (
	ErrPlanNotFound    = errors.New("plan not found")
	ErrPlanExists      = errors.New("plan already exists")
	ErrInvalidInterval = errors.New("invalid interval")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrInvalidPlanID   = errors.New("plan id or nickname required")
)

// Plan is a priced recurring billing template. Immutable once referenced by
// a subscription item.
type Plan struct {
	ID              string            `json:"id" gorm:"primaryKey"`
	Nickname        string            `json:"nickname"`
	Amount          int64             `json:"amount"`
	Currency        string            `json:"currency" gorm:"type:text;not null"`
	Interval        Interval          `json:"interval" gorm:"type:text;not null"`
	IntervalCount   int64             `json:"interval_count"`
	TrialPeriodDays int64             `json:"trial_period_days"`
	Metadata        datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`
	Created         int64             `json:"created"`
}

func (Plan) TableName() string { return "plans" }
