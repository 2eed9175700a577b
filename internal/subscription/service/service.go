package service

import (
	"context"
	"strings"

	"github.com/railzwaylabs/billingmock/internal/apierror"
	"github.com/railzwaylabs/billingmock/internal/clock"
	customerdomain "github.com/railzwaylabs/billingmock/internal/customer/domain"
	"github.com/railzwaylabs/billingmock/internal/idgen"
	invoicedomain "github.com/railzwaylabs/billingmock/internal/invoice/domain"
	"github.com/railzwaylabs/billingmock/internal/observability"
	plandomain "github.com/railzwaylabs/billingmock/internal/plan/domain"
	domain "github.com/railzwaylabs/billingmock/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	genID *idgen.Generator

	repo     domain.Repository
	planRepo plandomain.Repository

	customerSvc customerdomain.Service
	invoiceSvc  invoicedomain.Service
	metrics     *observability.Metrics
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	GenID *idgen.Generator

	Repo     domain.Repository
	PlanRepo plandomain.Repository

	CustomerSvc customerdomain.Service
	InvoiceSvc  invoicedomain.Service
	Metrics     *observability.Metrics
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("subscription.service"),
		clock: p.Clock,
		genID: p.GenID,

		repo:     p.Repo,
		planRepo: p.PlanRepo,

		customerSvc: p.CustomerSvc,
		invoiceSvc:  p.InvoiceSvc,
		metrics:     p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateSubscriptionRequest) (domain.Subscription, error) {
	customer, err := s.customerSvc.Get(ctx, req.CustomerID)
	if err != nil {
		return domain.Subscription{}, err
	}

	plans, opts, err := s.resolvePlanSet(ctx, req.Plan, req.Items, req.Options)
	if err != nil {
		return domain.Subscription{}, err
	}

	params, err := s.ResolveBillingParams(ctx, plans, customer.ID, opts)
	if err != nil {
		return domain.Subscription{}, err
	}

	sub := &domain.Subscription{
		ID:       s.genID.New(idgen.PrefixSubscription),
		Quantity: 1,
	}
	s.applyParams(sub, params)
	sub.Items = s.buildItems(ctx, sub.ID, plans, opts)

	if err := s.customerSvc.AttachSubscription(ctx, &customer, sub); err != nil {
		return domain.Subscription{}, err
	}
	if err := s.repo.Insert(ctx, s.db, sub); err != nil {
		return domain.Subscription{}, err
	}

	if sub.Status == domain.SubscriptionStatusActive {
		if _, err := s.invoiceSvc.GenerateForSubscription(ctx, sub, invoicedomain.UpcomingOptions{}); err != nil {
			return domain.Subscription{}, err
		}
	}

	if s.metrics != nil {
		s.metrics.SubscriptionsCreated.Inc()
	}
	s.log.Info("subscription created",
		zap.String("subscription_id", sub.ID),
		zap.String("customer_id", customer.ID),
		zap.String("status", string(sub.Status)))
	return *sub, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Subscription, error) {
	sub, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Subscription{}, err
	}
	if sub == nil {
		return domain.Subscription{}, apierror.NotFound("subscription", id)
	}
	return *sub, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateSubscriptionRequest) (domain.Subscription, error) {
	sub, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Subscription{}, err
	}
	if sub == nil {
		return domain.Subscription{}, apierror.NotFound("subscription", id)
	}

	plans, opts, err := s.resolvePlanSet(ctx, req.Plan, req.Items, req.Options)
	if err != nil {
		return domain.Subscription{}, err
	}
	if len(plans) == 0 {
		// No new plan set keeps the current one.
		plans = currentPlanSet(sub)
	}

	if err := s.ApplyPlanChange(ctx, sub, plans, opts); err != nil {
		return domain.Subscription{}, err
	}

	if err := s.repo.Update(ctx, s.db, sub); err != nil {
		return domain.Subscription{}, err
	}
	if err := s.repo.ReplaceItems(ctx, s.db, sub.ID, sub.Items); err != nil {
		return domain.Subscription{}, err
	}

	if sub.Status == domain.SubscriptionStatusActive {
		if _, err := s.invoiceSvc.GenerateForSubscription(ctx, sub, invoicedomain.UpcomingOptions{}); err != nil {
			return domain.Subscription{}, err
		}
	}

	s.log.Info("subscription updated",
		zap.String("subscription_id", sub.ID),
		zap.String("status", string(sub.Status)))
	return *sub, nil
}

func (s *Service) Cancel(ctx context.Context, id string) (domain.Subscription, error) {
	sub, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Subscription{}, err
	}
	if sub == nil {
		return domain.Subscription{}, apierror.NotFound("subscription", id)
	}

	customer, err := s.customerSvc.Get(ctx, sub.CustomerID)
	if err != nil {
		return domain.Subscription{}, err
	}
	if err := s.customerSvc.DetachSubscription(ctx, &customer, sub.ID); err != nil {
		return domain.Subscription{}, err
	}

	now := s.clock.Now(ctx).Unix()
	sub.Status = domain.SubscriptionStatusCanceled
	sub.CanceledAt = &now
	if err := s.repo.Update(ctx, s.db, sub); err != nil {
		return domain.Subscription{}, err
	}

	s.log.Info("subscription canceled", zap.String("subscription_id", sub.ID))
	return *sub, nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]domain.Subscription, error) {
	return s.repo.ListByCustomer(ctx, s.db, customerID)
}

// resolvePlanSet loads the ordered plan set for a change request. A bare
// plan id becomes a single-plan set; an items array becomes a multi-plan
// set with per-item options.
func (s *Service) resolvePlanSet(ctx context.Context, planID string, items []domain.CreateSubscriptionItemRequest, opts domain.ChangeOptions) ([]plandomain.Plan, domain.ChangeOptions, error) {
	planID = strings.TrimSpace(planID)

	if planID != "" {
		plan, err := s.loadPlan(ctx, planID)
		if err != nil {
			return nil, opts, err
		}
		return []plandomain.Plan{*plan}, opts, nil
	}

	if len(items) == 0 {
		return nil, opts, nil
	}

	plans := make([]plandomain.Plan, 0, len(items))
	itemOpts := make([]domain.ItemOptions, 0, len(items))
	for _, item := range items {
		plan, err := s.loadPlan(ctx, item.Plan)
		if err != nil {
			return nil, opts, err
		}
		plans = append(plans, *plan)
		itemOpts = append(itemOpts, domain.ItemOptions{
			Plan:     plan.ID,
			Quantity: item.Quantity,
			Metadata: item.Metadata,
		})
	}
	opts.Items = itemOpts
	return plans, opts, nil
}

func (s *Service) loadPlan(ctx context.Context, id string) (*plandomain.Plan, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidItems
	}
	plan, err := s.planRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, apierror.NotFound("plan", id)
	}
	return plan, nil
}

func currentPlanSet(sub *domain.Subscription) []plandomain.Plan {
	plans := make([]plandomain.Plan, 0, len(sub.Items))
	for _, item := range sub.Items {
		plans = append(plans, item.Plan)
	}
	return plans
}
