package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Metrics holds the counters the billing services increment.
type Metrics struct {
	SubscriptionsCreated prometheus.Counter
	InvoicesGenerated    prometheus.Counter
	ChargesCreated       prometheus.Counter
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SubscriptionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "billingmock_subscriptions_created_total",
			Help: "Subscriptions created since process start.",
		}),
		InvoicesGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "billingmock_invoices_generated_total",
			Help: "Invoices generated since process start.",
		}),
		ChargesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "billingmock_charges_created_total",
			Help: "Charges created since process start.",
		}),
	}
}

var Module = fx.Module("observability",
	fx.Provide(NewLogger, NewRegistry, NewMetrics),
)
