package invoice

import (
	"github.com/railzwaylabs/billingmock/internal/invoice/repository"
	"github.com/railzwaylabs/billingmock/internal/invoice/service"
	"github.com/railzwaylabs/billingmock/internal/invoice/upcoming"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(upcoming.NewCalculator),
	fx.Provide(service.NewService),
)
