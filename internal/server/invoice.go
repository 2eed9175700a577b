package server

import (
	"strconv"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/railzwaylabs/billingmock/internal/invoice/domain"
	subscriptiondomain "github.com/railzwaylabs/billingmock/internal/subscription/domain"
)

func (s *Server) ListInvoices(c *gin.Context) {
	invoices, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListFilter{
		CustomerID:     c.Query("customer"),
		SubscriptionID: c.Query("subscription"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, invoices)
}

func (s *Server) GetInvoice(c *gin.Context) {
	if c.Param("id") == "upcoming" {
		s.GetUpcomingInvoice(c)
		return
	}
	invoice, err := s.invoiceSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, invoice)
}

// GetUpcomingInvoice previews the subscription's next invoice, optionally
// under a hypothetical plan change.
func (s *Server) GetUpcomingInvoice(c *gin.Context) {
	subscriptionID := c.Query("subscription")
	customerID := c.Query("customer")
	if subscriptionID == "" && customerID == "" {
		AbortWithError(c, invalidRequestError())
		return
	}

	var opts invoicedomain.UpcomingOptions
	if plan := c.Query("subscription_plan"); plan != "" {
		opts.SubscriptionPlan = &plan
	}
	if raw := c.Query("subscription_quantity"); raw != "" {
		qty, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		opts.SubscriptionQuantity = &qty
	}
	if raw := c.Query("subscription_billing_cycle_anchor"); raw != "" {
		anchor, err := subscriptiondomain.ParseTimestamp(raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		opts.SubscriptionBillingCycleAnchor = anchor
	}
	if raw := c.Query("subscription_proration_date"); raw != "" {
		date, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		opts.SubscriptionProrationDate = &date
	}

	var (
		invoice *invoicedomain.Invoice
		err     error
	)
	if subscriptionID != "" {
		invoice, err = s.invoiceSvc.Upcoming(c.Request.Context(), subscriptionID, opts)
	} else {
		invoice, err = s.invoiceSvc.UpcomingForCustomer(c.Request.Context(), customerID, opts)
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, invoice)
}
