package testclock

import (
	"github.com/railzwaylabs/billingmock/internal/testclock/repository"
	"github.com/railzwaylabs/billingmock/internal/testclock/service"
	"go.uber.org/fx"
)

var Module = fx.Module("testclock.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
