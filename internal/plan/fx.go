package plan

import (
	"github.com/railzwaylabs/billingmock/internal/plan/repository"
	"github.com/railzwaylabs/billingmock/internal/plan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("plan.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
