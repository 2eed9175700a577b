package domain

import (
	"time"

	plandomain "github.com/railzwaylabs/billingmock/internal/plan/domain"
)

const secondsPerWeek = 604800

// PeriodEnd computes the end of the billing period beginning at start for
// the given plan. multiplier is 1 for a subscription's own next period and 2
// when previewing the period after an immediate upgrade.
//
// Monthly periods advance by calendar months with the day-of-month clamped
// to the target month's length (Jan 31 + 1 month = Feb 28/29), preserving
// time-of-day. Yearly periods advance by exactly 12 months per multiplier
// regardless of interval_count; the provider caps a period at one year.
func PeriodEnd(start int64, plan *plandomain.Plan, multiplier int) int64 {
	if plan == nil {
		return start
	}

	switch plan.Interval {
	case plandomain.IntervalWeek:
		return start + secondsPerWeek*intervalCount(plan)*int64(multiplier)
	case plandomain.IntervalMonth:
		return addMonths(start, int(intervalCount(plan))*multiplier)
	case plandomain.IntervalYear:
		return addMonths(start, 12*multiplier)
	default:
		return start
	}
}

func intervalCount(plan *plandomain.Plan) int64 {
	if plan.IntervalCount < 1 {
		return 1
	}
	return plan.IntervalCount
}

// addMonths adds calendar months to a Unix timestamp, clamping the day to
// the last day of the target month. time.AddDate normalizes overflow
// (Jan 31 + 1 month = Mar 2/3) which is the wrong behavior here.
func addMonths(start int64, months int) int64 {
	t := time.Unix(start, 0).UTC()

	total := int(t.Month()) - 1 + months
	year := t.Year() + total/12
	month := time.Month(total%12 + 1)

	day := t.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}

	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), 0, time.UTC).Unix()
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
