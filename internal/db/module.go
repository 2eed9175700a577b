package db

import (
	"strings"

	"github.com/glebarez/sqlite"
	chargedomain "github.com/railzwaylabs/billingmock/internal/charge/domain"
	"github.com/railzwaylabs/billingmock/internal/config"
	customerdomain "github.com/railzwaylabs/billingmock/internal/customer/domain"
	invoicedomain "github.com/railzwaylabs/billingmock/internal/invoice/domain"
	plandomain "github.com/railzwaylabs/billingmock/internal/plan/domain"
	subscriptiondomain "github.com/railzwaylabs/billingmock/internal/subscription/domain"
	testclockdomain "github.com/railzwaylabs/billingmock/internal/testclock/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Open(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(cfg.Database.Driver)) {
	case "postgres":
		dialector = postgres.Open(cfg.Database.DSN)
	default:
		dialector = sqlite.Open(cfg.Database.DSN)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	log.Info("database opened", zap.String("driver", cfg.Database.Driver))
	return conn, nil
}

// AutoMigrate creates or updates the schema for every stored model.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&plandomain.Plan{},
		&customerdomain.Customer{},
		&subscriptiondomain.Subscription{},
		&subscriptiondomain.SubscriptionItem{},
		&chargedomain.Charge{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceLine{},
		&testclockdomain.TestClock{},
	)
}

var Module = fx.Module("db",
	fx.Provide(Open),
)

var MigrateModule = fx.Module("db.migrate",
	fx.Invoke(AutoMigrate),
)
