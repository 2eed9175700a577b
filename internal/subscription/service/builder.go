package service

import (
	"context"

	"github.com/railzwaylabs/billingmock/internal/idgen"
	plandomain "github.com/railzwaylabs/billingmock/internal/plan/domain"
	domain "github.com/railzwaylabs/billingmock/internal/subscription/domain"
	"gorm.io/datatypes"
)

// ApplyPlanChange merges the resolved billing params for the new plan set
// onto the subscription record and rebuilds its item list wholesale. A swap
// of the primary plan restarts the period clock.
func (s *Service) ApplyPlanChange(ctx context.Context, sub *domain.Subscription, plans []plandomain.Plan, opts domain.ChangeOptions) error {
	if len(plans) == 0 {
		return domain.ErrInvalidItems
	}

	if sub.PlanID == nil || *sub.PlanID != plans[0].ID {
		now := s.clock.Now(ctx).Unix()
		opts.CurrentPeriodStart = &now
	}

	params, err := s.ResolveBillingParams(ctx, plans, sub.CustomerID, opts)
	if err != nil {
		return err
	}

	s.applyParams(sub, params)
	sub.Items = s.buildItems(ctx, sub.ID, plans, opts)
	return nil
}

// applyParams is the field-level merge of resolved params onto the record.
// Branch fields always overwrite; passthrough fields only when present.
func (s *Service) applyParams(sub *domain.Subscription, params domain.BillingParams) {
	sub.CustomerID = params.CustomerID
	sub.CurrentPeriodStart = params.CurrentPeriodStart
	sub.Created = params.Created

	if params.Plan != nil {
		planID := params.Plan.ID
		sub.PlanID = &planID
		sub.Plan = params.Plan
	} else {
		sub.PlanID = nil
		sub.Plan = nil
	}

	sub.Status = params.Status
	sub.CurrentPeriodEnd = params.CurrentPeriodEnd
	sub.TrialStart = params.TrialStart
	sub.TrialEnd = params.TrialEnd
	sub.BillingCycleAnchor = params.BillingCycleAnchor

	if params.ApplicationFeePercent != nil {
		sub.ApplicationFeePercent = params.ApplicationFeePercent
	}
	if params.Quantity != nil {
		sub.Quantity = *params.Quantity
	} else if sub.Quantity < 1 {
		sub.Quantity = 1
	}
	if params.Metadata != nil {
		sub.Metadata = metadataMap(params.Metadata)
	}
	if params.TaxPercent != nil {
		sub.TaxPercent = params.TaxPercent
	}
}

// buildItems rebuilds the item list for the new plan set. Per-item options
// are honored only when the options list matches the plan set in size;
// otherwise every item gets quantity 1 and no metadata.
func (s *Service) buildItems(ctx context.Context, subscriptionID string, plans []plandomain.Plan, opts domain.ChangeOptions) []domain.SubscriptionItem {
	now := s.clock.Now(ctx).Unix()
	items := make([]domain.SubscriptionItem, 0, len(plans))

	for _, plan := range plans {
		item := domain.SubscriptionItem{
			ID:             s.genID.New(idgen.PrefixSubscriptionItem),
			SubscriptionID: subscriptionID,
			PlanID:         plan.ID,
			Plan:           plan,
			Quantity:       1,
			Created:        now,
		}

		if opts.Items != nil && len(opts.Items) == len(plans) {
			for _, itemOpts := range opts.Items {
				if itemOpts.Plan != plan.ID {
					continue
				}
				if itemOpts.Quantity != nil && *itemOpts.Quantity >= 1 {
					item.Quantity = *itemOpts.Quantity
				}
				if itemOpts.Metadata != nil {
					item.Metadata = metadataMap(itemOpts.Metadata)
				}
				break
			}
		}

		items = append(items, item)
	}

	return items
}

func metadataMap(m map[string]string) datatypes.JSONMap {
	if m == nil {
		return nil
	}
	out := make(datatypes.JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
