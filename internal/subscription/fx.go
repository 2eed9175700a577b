package subscription

import (
	"github.com/railzwaylabs/billingmock/internal/subscription/repository"
	"github.com/railzwaylabs/billingmock/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
