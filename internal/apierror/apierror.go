package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the provider-shaped error object surfaced by the API layer.
// Status is the HTTP status the request layer must answer with.
type Error struct {
	Status  int    `json:"-"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

const (
	TypeInvalidRequest = "invalid_request_error"

	CodeInvalidTimestamp = "invalid_timestamp"
	CodeCurrencyConflict = "currency_conflict"
	CodeResourceMissing  = "resource_missing"
)

func InvalidTimestamp(message string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Type:    TypeInvalidRequest,
		Code:    CodeInvalidTimestamp,
		Message: message,
	}
}

func CurrencyConflict(currency string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Type:    TypeInvalidRequest,
		Code:    CodeCurrencyConflict,
		Param:   "currency",
		Message: fmt.Sprintf("Can't combine currencies on a single customer. This customer has had a subscription, coupon, or invoice item with currency %s", currency),
	}
}

func NotFound(resource, id string) *Error {
	return &Error{
		Status:  http.StatusNotFound,
		Type:    TypeInvalidRequest,
		Code:    CodeResourceMissing,
		Param:   "id",
		Message: fmt.Sprintf("No such %s: %s", resource, id),
	}
}

// From unwraps err into an *Error when one is in the chain.
func From(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
