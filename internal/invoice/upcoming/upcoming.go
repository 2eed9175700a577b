package upcoming

import (
	"context"
	"fmt"

	"github.com/railzwaylabs/billingmock/internal/apierror"
	"github.com/railzwaylabs/billingmock/internal/clock"
	"github.com/railzwaylabs/billingmock/internal/idgen"
	domain "github.com/railzwaylabs/billingmock/internal/invoice/domain"
	plandomain "github.com/railzwaylabs/billingmock/internal/plan/domain"
	subscriptiondomain "github.com/railzwaylabs/billingmock/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Calculator is the default upcoming-invoice computation: one base line per
// subscription item for the next billing period, plus standard proration
// lines when a replacement plan is being previewed. It never persists.
type Calculator struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	genID    *idgen.Generator
	planRepo plandomain.Repository
}

type CalculatorParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	GenID    *idgen.Generator
	PlanRepo plandomain.Repository
}

func NewCalculator(p CalculatorParam) domain.UpcomingCalculator {
	return &Calculator{
		db:       p.DB,
		log:      p.Log.Named("invoice.upcoming"),
		clock:    p.Clock,
		genID:    p.GenID,
		planRepo: p.PlanRepo,
	}
}

func (c *Calculator) Compute(ctx context.Context, sub *subscriptiondomain.Subscription, opts domain.UpcomingOptions) (*domain.Invoice, error) {
	if len(sub.Items) == 0 {
		return nil, subscriptiondomain.ErrInvalidItems
	}

	now := c.clock.Now(ctx)
	nowUnix := now.Unix()

	var replacement *plandomain.Plan
	if opts.SubscriptionPlan != nil {
		plan, err := c.planRepo.FindByID(ctx, c.db, *opts.SubscriptionPlan)
		if err != nil {
			return nil, err
		}
		if plan == nil {
			return nil, apierror.NotFound("plan", *opts.SubscriptionPlan)
		}
		replacement = plan
	}

	invoice := &domain.Invoice{
		ID:             c.genID.New(idgen.PrefixInvoice),
		CustomerID:     sub.CustomerID,
		SubscriptionID: sub.ID,
		Date:           nowUnix,
		Currency:       sub.Items[0].Plan.Currency,
		Status:         domain.InvoiceStatusDraft,
		Created:        nowUnix,
	}

	for i, item := range sub.Items {
		plan := item.Plan
		if i == 0 && replacement != nil {
			plan = *replacement
		}

		quantity := item.Quantity
		if i == 0 && opts.SubscriptionQuantity != nil && *opts.SubscriptionQuantity >= 1 {
			quantity = *opts.SubscriptionQuantity
		}

		periodStart := sub.CurrentPeriodEnd
		if opts.SubscriptionBillingCycleAnchor != nil {
			periodStart = opts.SubscriptionBillingCycleAnchor.Resolve(now)
		}

		subID := sub.ID
		planID := plan.ID
		invoice.Lines = append(invoice.Lines, domain.InvoiceLine{
			ID:          c.genID.New(idgen.PrefixInvoiceLine),
			InvoiceID:   invoice.ID,
			Amount:      quantity * plan.Amount,
			Currency:    plan.Currency,
			Description: fmt.Sprintf("1 × %s (at $%d.%02d / %s)", planLabel(plan), plan.Amount/100, plan.Amount%100, plan.Interval),
			Quantity:    quantity,
			PlanID:      &planID,
			Period: domain.Period{
				Start: periodStart,
				End:   subscriptiondomain.PeriodEnd(sub.CurrentPeriodStart, &plan, 2),
			},
			SubscriptionID: &subID,
		})
	}

	if replacement != nil {
		// Prorations split the current period at the proration date, which
		// defaults to the present moment.
		prorationAt := nowUnix
		if opts.SubscriptionProrationDate != nil {
			prorationAt = *opts.SubscriptionProrationDate
		}
		old := sub.Items[0].Plan
		quantity := sub.Items[0].Quantity
		oldPlanID := old.ID
		newPlanID := replacement.ID

		invoice.Lines = append(invoice.Lines,
			domain.InvoiceLine{
				ID:          c.genID.New(idgen.PrefixInvoiceLine),
				InvoiceID:   invoice.ID,
				Amount:      -(quantity * old.Amount),
				Currency:    old.Currency,
				Description: fmt.Sprintf("Unused time on %s", planLabel(old)),
				Proration:   true,
				Quantity:    quantity,
				PlanID:      &oldPlanID,
				Period:      domain.Period{Start: sub.CurrentPeriodStart, End: prorationAt},
			},
			domain.InvoiceLine{
				ID:          c.genID.New(idgen.PrefixInvoiceLine),
				InvoiceID:   invoice.ID,
				Amount:      quantity * replacement.Amount,
				Currency:    replacement.Currency,
				Description: fmt.Sprintf("Remaining time on %s", planLabel(*replacement)),
				Proration:   true,
				Quantity:    quantity,
				PlanID:      &newPlanID,
				Period:      domain.Period{Start: prorationAt, End: sub.CurrentPeriodEnd},
			},
		)
	}

	for _, line := range invoice.Lines {
		invoice.Total += line.Amount
	}
	return invoice, nil
}

func planLabel(plan plandomain.Plan) string {
	if plan.Nickname != "" {
		return plan.Nickname
	}
	return plan.ID
}

var Module = fx.Module("invoice.upcoming",
	fx.Provide(NewCalculator),
)
