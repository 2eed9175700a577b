package service

import (
	"context"

	"github.com/railzwaylabs/billingmock/internal/apierror"
	"github.com/railzwaylabs/billingmock/internal/clock"
	customerdomain "github.com/railzwaylabs/billingmock/internal/customer/domain"
	domain "github.com/railzwaylabs/billingmock/internal/invoice/domain"
	"github.com/railzwaylabs/billingmock/internal/observability"
	subscriptiondomain "github.com/railzwaylabs/billingmock/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock

	repo         domain.Repository
	subRepo      subscriptiondomain.Repository
	customerRepo customerdomain.Repository
	upcoming     domain.UpcomingCalculator
	metrics      *observability.Metrics
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock

	Repo         domain.Repository
	SubRepo      subscriptiondomain.Repository
	CustomerRepo customerdomain.Repository
	Upcoming     domain.UpcomingCalculator
	Metrics      *observability.Metrics
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("invoice.service"),
		clock: p.Clock,

		repo:         p.Repo,
		subRepo:      p.SubRepo,
		customerRepo: p.CustomerRepo,
		upcoming:     p.Upcoming,
		metrics:      p.Metrics,
	}
}

// GenerateForSubscription reshapes the upcoming-invoice draft into the
// invoice for the subscription's current billing period. With a
// replacement-plan override that differs from the current primary plan, the
// invoice instead covers the period started by the immediate upgrade; that
// period's length is computed from the subscription's stored first-item plan,
// not the override plan, so it only reflects the new plan once the caller has
// applied the plan change to the subscription itself.
func (s *Service) GenerateForSubscription(ctx context.Context, sub *subscriptiondomain.Subscription, opts domain.UpcomingOptions) (*domain.Invoice, error) {
	if len(sub.Items) == 0 {
		return nil, subscriptiondomain.ErrInvalidItems
	}

	isUpgrade := opts.SubscriptionPlan != nil && *opts.SubscriptionPlan != sub.Items[0].Plan.ID
	if isUpgrade {
		opts.SubscriptionBillingCycleAnchor = subscriptiondomain.NowSentinel()
	}

	invoice, err := s.upcoming.Compute(ctx, sub, opts)
	if err != nil {
		return nil, err
	}
	invoice.Date = s.clock.Now(ctx).Unix()

	// The first non-proration line with a subscription reference carries
	// the governing period for the whole invoice.
	governing := -1
	for i := range invoice.Lines {
		if invoice.Lines[i].SubscriptionID != nil && !invoice.Lines[i].Proration {
			governing = i
			break
		}
	}
	if governing < 0 {
		return nil, domain.ErrNoSubscriptionLine
	}

	// Prorations always span from the subscription's last period start to
	// invoice generation time, whatever the draft computed.
	for i := range invoice.Lines {
		if invoice.Lines[i].Proration {
			invoice.Lines[i].Period.Start = sub.CurrentPeriodStart
			invoice.Lines[i].Period.End = invoice.Date
		}
	}

	period := invoice.Lines[governing].Period
	if isUpgrade {
		if !invoice.Lines[governing].Proration {
			period.Start = sub.CurrentPeriodStart
		}
		period.End = subscriptiondomain.PeriodEnd(period.Start, &sub.Items[0].Plan, 1)
	} else {
		period.Start = sub.CurrentPeriodStart
		period.End = sub.CurrentPeriodEnd
	}

	invoice.PeriodStart = period.Start
	invoice.PeriodEnd = period.End
	invoice.Paid = true
	invoice.Closed = true
	invoice.Attempted = true

	// A negative total is absorbed into the customer's balance; the
	// invoice's own recorded ending balance is reset to zero regardless.
	if invoice.Total < 0 {
		customer, err := s.customerRepo.FindByID(ctx, s.db, sub.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apierror.NotFound("customer", sub.CustomerID)
		}
		invoice.EndingBalance = -invoice.Total + customer.AccountBalance
		customer.AccountBalance = invoice.EndingBalance
		if err := s.customerRepo.Update(ctx, s.db, customer); err != nil {
			return nil, err
		}
	}
	invoice.EndingBalance = 0

	subID := sub.ID
	itemID := sub.Items[0].ID
	for i := range invoice.Lines {
		if invoice.Lines[i].Proration {
			continue
		}
		invoice.Lines[i].SubscriptionID = &subID
		invoice.Lines[i].Metadata = sub.Metadata
		invoice.Lines[i].SubscriptionItem = &itemID
		invoice.Lines[i].Period = period
	}

	invoice.Status = domain.InvoiceStatusPaid
	if err := s.repo.Insert(ctx, s.db, invoice); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.InvoicesGenerated.Inc()
	}
	s.log.Info("invoice generated",
		zap.String("invoice_id", invoice.ID),
		zap.String("subscription_id", sub.ID),
		zap.Int64("total", invoice.Total),
		zap.Bool("upgrade", isUpgrade))
	return invoice, nil
}

func (s *Service) Upcoming(ctx context.Context, subscriptionID string, opts domain.UpcomingOptions) (*domain.Invoice, error) {
	sub, err := s.subRepo.FindByID(ctx, s.db, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apierror.NotFound("subscription", subscriptionID)
	}
	return s.upcoming.Compute(ctx, sub, opts)
}

func (s *Service) UpcomingForCustomer(ctx context.Context, customerID string, opts domain.UpcomingOptions) (*domain.Invoice, error) {
	subs, err := s.subRepo.ListByCustomer(ctx, s.db, customerID)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		if subs[i].Status != subscriptiondomain.SubscriptionStatusCanceled {
			return s.upcoming.Compute(ctx, &subs[i], opts)
		}
	}
	return nil, apierror.NotFound("customer", customerID)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, apierror.NotFound("invoice", id)
	}
	return *invoice, nil
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]domain.Invoice, error) {
	return s.repo.List(ctx, s.db, filter)
}
