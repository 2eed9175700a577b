package customer

import (
	"github.com/railzwaylabs/billingmock/internal/customer/repository"
	"github.com/railzwaylabs/billingmock/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
