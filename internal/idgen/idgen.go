package idgen

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
)

// Object ID prefixes, matching the provider's namespacing.
const (
	PrefixCustomer         = "cus"
	PrefixSubscription     = "sub"
	PrefixSubscriptionItem = "si"
	PrefixCharge           = "ch"
	PrefixInvoice          = "in"
	PrefixInvoiceLine      = "il"
	PrefixTestClock        = "clk"
)

// Generator produces prefixed opaque object IDs like "ch_01J9...".
type Generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func New() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

func (g *Generator) New(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
	return prefix + "_" + id.String()
}

var Module = fx.Module("idgen",
	fx.Provide(New),
)
