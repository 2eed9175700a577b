package service

import (
	"context"

	"github.com/railzwaylabs/billingmock/internal/apierror"
	chargedomain "github.com/railzwaylabs/billingmock/internal/charge/domain"
	"github.com/railzwaylabs/billingmock/internal/clock"
	domain "github.com/railzwaylabs/billingmock/internal/customer/domain"
	"github.com/railzwaylabs/billingmock/internal/idgen"
	"github.com/railzwaylabs/billingmock/internal/observability"
	subscriptiondomain "github.com/railzwaylabs/billingmock/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	genID *idgen.Generator

	repo       domain.Repository
	subRepo    subscriptiondomain.Repository
	chargeRepo chargedomain.Repository
	metrics    *observability.Metrics
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	GenID *idgen.Generator

	Repo       domain.Repository
	SubRepo    subscriptiondomain.Repository
	ChargeRepo chargedomain.Repository
	Metrics    *observability.Metrics
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		clock: p.Clock,
		genID: p.GenID,

		repo:       p.Repo,
		subRepo:    p.SubRepo,
		chargeRepo: p.ChargeRepo,
		metrics:    p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	customer := domain.Customer{
		ID:          s.genID.New(idgen.PrefixCustomer),
		Email:       req.Email,
		Description: req.Description,
		Metadata:    metadataMap(req.Metadata),
		Created:     s.clock.Now(ctx).Unix(),
	}
	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		return domain.Customer{}, err
	}

	s.log.Info("customer created", zap.String("customer_id", customer.ID))
	return customer, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Customer, error) {
	customer, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer == nil {
		return domain.Customer{}, apierror.NotFound("customer", id)
	}
	return *customer, nil
}

func (s *Service) Subscriptions(ctx context.Context, customerID string) (domain.SubscriptionList, error) {
	customer, err := s.Get(ctx, customerID)
	if err != nil {
		return domain.SubscriptionList{}, err
	}

	subs, err := s.subRepo.ListByCustomer(ctx, s.db, customer.ID)
	if err != nil {
		return domain.SubscriptionList{}, err
	}

	active := make([]subscriptiondomain.Subscription, 0, len(subs))
	for _, sub := range subs {
		if sub.Status == subscriptiondomain.SubscriptionStatusCanceled {
			continue
		}
		active = append(active, sub)
	}

	return domain.SubscriptionList{
		Object:     "list",
		TotalCount: customer.SubscriptionCount,
		Data:       active,
	}, nil
}

// AttachSubscription adds the subscription to the customer's collection. The
// currency check runs before any write so a conflict leaves the charge
// uncreated and the counter unchanged. Non-trialing subscriptions are
// charged up front: the single plan's amount, or the item total otherwise.
func (s *Service) AttachSubscription(ctx context.Context, customer *domain.Customer, sub *subscriptiondomain.Subscription) error {
	if len(sub.Items) == 0 {
		return subscriptiondomain.ErrInvalidItems
	}

	planCurrency := sub.Items[0].Plan.Currency
	if customer.Currency != "" && customer.Currency != planCurrency {
		return apierror.CurrencyConflict(customer.Currency)
	}

	if sub.TrialEnd == nil {
		amount := subscriptiondomain.TotalItemsAmount(sub.Items)
		if sub.Plan != nil {
			amount = sub.Plan.Amount
		}
		charge := chargedomain.Charge{
			ID:         s.genID.New(idgen.PrefixCharge),
			CustomerID: customer.ID,
			Amount:     amount,
			Currency:   planCurrency,
			Paid:       true,
			Status:     "succeeded",
			Created:    s.clock.Now(ctx).Unix(),
		}
		if err := s.chargeRepo.Insert(ctx, s.db, &charge); err != nil {
			return err
		}
		if s.metrics != nil {
			s.metrics.ChargesCreated.Inc()
		}
	}

	if customer.Currency == "" {
		customer.Currency = planCurrency
	}
	customer.SubscriptionCount++
	return s.repo.Update(ctx, s.db, customer)
}

// DetachSubscription removes the subscription from the customer's
// collection. The record itself survives; the caller marks it canceled and
// the collection read filters it out. The counter decrement is unconditional
// even when the id never belonged to this customer, matching the provider's
// observable behavior.
func (s *Service) DetachSubscription(ctx context.Context, customer *domain.Customer, subscriptionID string) error {
	_ = subscriptionID
	customer.SubscriptionCount--
	return s.repo.Update(ctx, s.db, customer)
}

func metadataMap(m map[string]string) datatypes.JSONMap {
	if len(m) == 0 {
		return nil
	}
	out := make(datatypes.JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
