package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/railzwaylabs/billingmock/internal/apierror"
	chargedomain "github.com/railzwaylabs/billingmock/internal/charge/domain"
	customerdomain "github.com/railzwaylabs/billingmock/internal/customer/domain"
	invoicedomain "github.com/railzwaylabs/billingmock/internal/invoice/domain"
	plandomain "github.com/railzwaylabs/billingmock/internal/plan/domain"
	subscriptiondomain "github.com/railzwaylabs/billingmock/internal/subscription/domain"
	testclockdomain "github.com/railzwaylabs/billingmock/internal/testclock/domain"
	"gorm.io/gorm"
)

func invalidRequestError() *apierror.Error {
	return &apierror.Error{
		Status:  http.StatusBadRequest,
		Type:    apierror.TypeInvalidRequest,
		Message: "invalid request body",
	}
}

// AbortWithError maps domain errors onto the provider-shaped error envelope.
func AbortWithError(c *gin.Context, err error) {
	if apiErr, ok := apierror.From(err); ok {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, plandomain.ErrPlanNotFound),
		errors.Is(err, customerdomain.ErrCustomerNotFound),
		errors.Is(err, subscriptiondomain.ErrSubscriptionNotFound),
		errors.Is(err, invoicedomain.ErrInvoiceNotFound),
		errors.Is(err, chargedomain.ErrChargeNotFound),
		errors.Is(err, testclockdomain.ErrTestClockNotFound):
		status = http.StatusNotFound
	case errors.Is(err, plandomain.ErrPlanExists),
		errors.Is(err, plandomain.ErrInvalidInterval),
		errors.Is(err, plandomain.ErrInvalidAmount),
		errors.Is(err, plandomain.ErrInvalidCurrency),
		errors.Is(err, plandomain.ErrInvalidPlanID),
		errors.Is(err, subscriptiondomain.ErrInvalidItems),
		errors.Is(err, subscriptiondomain.ErrInvalidCustomer),
		errors.Is(err, invoicedomain.ErrNoSubscriptionLine),
		errors.Is(err, testclockdomain.ErrAdvanceBackwards):
		status = http.StatusBadRequest
	}

	c.AbortWithStatusJSON(status, gin.H{"error": &apierror.Error{
		Status:  status,
		Type:    apierror.TypeInvalidRequest,
		Message: err.Error(),
	}})
}
