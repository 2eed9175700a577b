package service

import (
	"context"

	plandomain "github.com/railzwaylabs/billingmock/internal/plan/domain"
	domain "github.com/railzwaylabs/billingmock/internal/subscription/domain"
)

// ResolveBillingParams decides whether a subscription governed by the given
// plan set starts trialing or active, and computes the timestamps that go
// with that state. Per-plan trial settings are only consulted when exactly
// one plan governs the subscription.
func (s *Service) ResolveBillingParams(ctx context.Context, plans []plandomain.Plan, customerID string, opts domain.ChangeOptions) (domain.BillingParams, error) {
	if opts.TrialEnd != nil {
		if err := s.ValidateTrialEnd(ctx, opts.TrialEnd); err != nil {
			return domain.BillingParams{}, err
		}
	}

	var plan *plandomain.Plan
	if len(plans) == 1 {
		plan = &plans[0]
	}

	now := s.clock.Now(ctx).Unix()
	created := now
	if opts.Created != nil {
		created = *opts.Created
	}
	start := now
	if opts.CurrentPeriodStart != nil {
		start = *opts.CurrentPeriodStart
	}

	params := domain.BillingParams{
		CustomerID:         customerID,
		CurrentPeriodStart: start,
		Created:            created,
		Plan:               plan,

		ApplicationFeePercent: opts.ApplicationFeePercent,
		Quantity:              opts.Quantity,
		Metadata:              opts.Metadata,
		TaxPercent:            opts.TaxPercent,
	}

	var trialDays int64
	if plan != nil {
		trialDays = plan.TrialPeriodDays
	}

	if (trialDays == 0 && opts.TrialEnd == nil) || (opts.TrialEnd != nil && opts.TrialEnd.Now) {
		var end int64
		if opts.BillingCycleAnchor != nil {
			end = opts.BillingCycleAnchor.Resolve(s.clock.Now(ctx))
		} else {
			end = domain.PeriodEnd(start, plan, 1)
		}

		params.Status = domain.SubscriptionStatusActive
		params.CurrentPeriodEnd = end
		params.TrialStart = nil
		params.TrialEnd = nil
		// The anchor field keeps the caller's literal value: the "now"
		// sentinel is resolved for the period end above but passed through
		// here unresolved.
		params.BillingCycleAnchor = opts.BillingCycleAnchor
	} else {
		var end int64
		if opts.TrialEnd != nil {
			end = opts.TrialEnd.Unix
		} else {
			end = now + trialDays*86400
		}

		params.Status = domain.SubscriptionStatusTrialing
		params.CurrentPeriodEnd = end
		trialStart := start
		params.TrialStart = &trialStart
		params.TrialEnd = &end
		params.BillingCycleAnchor = nil
	}

	return params, nil
}
