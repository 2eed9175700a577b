package charge

import (
	"github.com/railzwaylabs/billingmock/internal/charge/repository"
	"github.com/railzwaylabs/billingmock/internal/charge/service"
	"go.uber.org/fx"
)

var Module = fx.Module("charge.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
