package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/railzwaylabs/billingmock/internal/invoice/domain"
	subscriptiondomain "github.com/railzwaylabs/billingmock/internal/subscription/domain"
)

type subscriptionChangeRequest struct {
	Plan                  string                                              `json:"plan"`
	Items                 []subscriptiondomain.CreateSubscriptionItemRequest  `json:"items"`
	TrialEnd              *subscriptiondomain.Timestamp                       `json:"trial_end"`
	CurrentPeriodStart    *int64                                              `json:"current_period_start"`
	Created               *int64                                              `json:"created"`
	BillingCycleAnchor    *subscriptiondomain.Timestamp                       `json:"billing_cycle_anchor"`
	ApplicationFeePercent *float64                                            `json:"application_fee_percent"`
	Quantity              *int64                                              `json:"quantity"`
	Metadata              map[string]string                                   `json:"metadata"`
	TaxPercent            *float64                                            `json:"tax_percent"`
}

func (r subscriptionChangeRequest) options() subscriptiondomain.ChangeOptions {
	opts := subscriptiondomain.ChangeOptions{
		TrialEnd:              r.TrialEnd,
		CurrentPeriodStart:    r.CurrentPeriodStart,
		Created:               r.Created,
		BillingCycleAnchor:    r.BillingCycleAnchor,
		ApplicationFeePercent: r.ApplicationFeePercent,
		Quantity:              r.Quantity,
		Metadata:              r.Metadata,
		TaxPercent:            r.TaxPercent,
	}
	for _, item := range r.Items {
		opts.Items = append(opts.Items, subscriptiondomain.ItemOptions{
			Plan:     item.Plan,
			Quantity: item.Quantity,
			Metadata: item.Metadata,
		})
	}
	return opts
}

func (s *Server) CreateSubscription(c *gin.Context) {
	var req subscriptionChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if s.replayIdempotent(c) {
		return
	}

	sub, err := s.subSvc.Create(c.Request.Context(), subscriptiondomain.CreateSubscriptionRequest{
		CustomerID: c.Param("id"),
		Plan:       req.Plan,
		Items:      req.Items,
		Options:    req.options(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.rememberIdempotent(c, http.StatusOK, sub)
	respondData(c, sub)
}

func (s *Server) GetSubscription(c *gin.Context) {
	sub, err := s.subSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, sub)
}

func (s *Server) UpdateSubscription(c *gin.Context) {
	var req subscriptionChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if s.replayIdempotent(c) {
		return
	}

	sub, err := s.subSvc.Update(c.Request.Context(), c.Param("id"), subscriptiondomain.UpdateSubscriptionRequest{
		Plan:    req.Plan,
		Items:   req.Items,
		Options: req.options(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.rememberIdempotent(c, http.StatusOK, sub)
	respondData(c, sub)
}

func (s *Server) CancelSubscription(c *gin.Context) {
	sub, err := s.subSvc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, sub)
}

// GenerateInvoice bills the subscription's current period immediately,
// optionally as an upgrade onto a replacement plan.
func (s *Server) GenerateInvoice(c *gin.Context) {
	var opts invoicedomain.UpcomingOptions
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&opts); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	if s.replayIdempotent(c) {
		return
	}

	sub, err := s.subSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	invoice, err := s.invoiceSvc.GenerateForSubscription(c.Request.Context(), &sub, opts)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.rememberIdempotent(c, http.StatusOK, invoice)
	respondData(c, invoice)
}
